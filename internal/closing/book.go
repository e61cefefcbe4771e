package closing

import (
	"strings"
	"time"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExtraSeed describes an ad-hoc line created during closing.
type ExtraSeed struct {
	Department   domain.Department
	Phase        domain.Phase
	ItemName     string
	Supplier     string
	UnitCost     decimal.Decimal
	Quantity     decimal.Decimal
	ParentLineID string
}

// NewExtraLine builds an ad-hoc line. It is priced like a cost row and never
// carries diary entries.
func NewExtraLine(seed ExtraSeed) domain.ClosingLine {
	return domain.ClosingLine{
		ID:                 uuid.New().String(),
		Department:         seed.Department,
		Phase:              seed.Phase,
		ItemName:           seed.ItemName,
		RoleFunction:       seed.Supplier,
		FinalUnitCost:      domain.NonNegative(seed.UnitCost),
		FinalExtraCost:     decimal.Zero,
		FinalQuantity:      domain.NonNegative(seed.Quantity),
		ComplementaryTotal: decimal.Zero,
		PayStatus:          domain.PayPending,
		IsExtraAdHoc:       true,
		ParentLineID:       seed.ParentLineID,
	}
}

// AddExtra appends an ad-hoc line to the book and returns its id.
func AddExtra(b *domain.ClosingBook, seed ExtraSeed) string {
	l := NewExtraLine(seed)
	b.Lines = append(b.Lines, l)
	return l.ID
}

// RemoveExtra deletes an ad-hoc line. Derived lines can only disappear by
// relocking Final without their source row.
func RemoveExtra(b *domain.ClosingBook, id string) bool {
	for i, l := range b.Lines {
		if l.ID == id && l.IsExtraAdHoc {
			b.Lines = append(b.Lines[:i:i], b.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// SetInvoice records the invoice number of a line.
func SetInvoice(b *domain.ClosingBook, id, invoice string) bool {
	l, ok := b.FindLine(id)
	if !ok {
		return false
	}
	l.InvoiceNumber = strings.TrimSpace(invoice)
	return true
}

// SetPayStatus marks a line paid or pending.
func SetPayStatus(b *domain.ClosingBook, id string, status domain.PayStatus) bool {
	if !domain.ValidPayStatuses[string(status)] {
		return false
	}
	l, ok := b.FindLine(id)
	if !ok {
		return false
	}
	l.PayStatus = status
	return true
}

// SetNotes replaces the notes of a line.
func SetNotes(b *domain.ClosingBook, id, notes string) bool {
	l, ok := b.FindLine(id)
	if !ok {
		return false
	}
	l.Notes = notes
	return true
}

// ExpenseSeed describes a new accounting entry.
type ExpenseSeed struct {
	Department    domain.Department
	Name          string
	Description   string
	Value         decimal.Decimal
	InvoiceNumber string
	Date          *time.Time
	Supplier      string
	ExpenseType   string
}

// AddExpense appends an accounting entry and returns its id.
func AddExpense(b *domain.ClosingBook, seed ExpenseSeed) string {
	e := domain.ExpenseLine{
		ID:            uuid.New().String(),
		Department:    seed.Department,
		Name:          seed.Name,
		Description:   seed.Description,
		Value:         domain.NonNegative(seed.Value),
		InvoiceNumber: seed.InvoiceNumber,
		PayStatus:     domain.PayPending,
		Date:          seed.Date,
		Supplier:      seed.Supplier,
		ExpenseType:   seed.ExpenseType,
	}
	b.Expenses = append(b.Expenses, e)
	return e.ID
}

// RemoveExpense deletes an accounting entry.
func RemoveExpense(b *domain.ClosingBook, id string) bool {
	for i, e := range b.Expenses {
		if e.ID == id {
			b.Expenses = append(b.Expenses[:i:i], b.Expenses[i+1:]...)
			return true
		}
	}
	return false
}

// SetExpensePayStatus marks an accounting entry paid or pending.
func SetExpensePayStatus(b *domain.ClosingBook, id string, status domain.PayStatus) bool {
	if !domain.ValidPayStatuses[string(status)] {
		return false
	}
	for i := range b.Expenses {
		if b.Expenses[i].ID == id {
			b.Expenses[i].PayStatus = status
			return true
		}
	}
	return false
}

// SetExpenseCap sets the spending cap of a department in the accounting view,
// adding the department to the view when missing. A zero cap removes it.
func SetExpenseCap(b *domain.ClosingBook, dept domain.Department, limit decimal.Decimal) {
	if b.ExpenseDepartments == nil {
		b.ExpenseDepartments = &domain.ExpenseDepartmentConfig{}
	}
	cfg := b.ExpenseDepartments
	if cfg.Caps == nil {
		cfg.Caps = make(map[domain.Department]decimal.Decimal)
	}
	found := false
	for _, d := range cfg.Departments {
		if d == dept {
			found = true
			break
		}
	}
	if !found {
		cfg.Departments = append(cfg.Departments, dept)
		domain.SortDepartments(cfg.Departments)
	}
	limit = domain.NonNegative(limit)
	if limit.IsZero() {
		delete(cfg.Caps, dept)
		return
	}
	cfg.Caps[dept] = limit
}
