package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDailyHours is the length of a regular shooting day.
const DefaultDailyHours = 8

// DiaryEntry is one shooting day of a labor line at closing.
type DiaryEntry struct {
	DailyHours        decimal.Decimal
	AdditionalPercent decimal.Decimal
	OvertimeHours     decimal.Decimal
}

// DefaultDiaryEntry is a regular day with no overtime.
func DefaultDiaryEntry() DiaryEntry {
	return DiaryEntry{
		DailyHours:        decimal.NewFromInt(DefaultDailyHours),
		AdditionalPercent: decimal.Zero,
		OvertimeHours:     decimal.Zero,
	}
}

// ClosingLine is one payable line at closing. Lines derived from the Final
// budget carry the id of their source row; ad-hoc extras have none.
type ClosingLine struct {
	ID                 string
	SourceRowID        string
	Department         Department
	Phase              Phase
	ItemName           string
	RoleFunction       string
	IsLabor            bool
	IsVerba            bool
	PayBasis           PayBasis
	FinalUnitCost      decimal.Decimal
	FinalExtraCost     decimal.Decimal
	FinalQuantity      decimal.Decimal
	ComplementaryTotal decimal.Decimal
	Diary              []DiaryEntry
	DiaryExpanded      bool
	InvoiceNumber      string
	PayStatus          PayStatus
	IsExtraAdHoc       bool
	ParentLineID       string
	Notes              string
}

// ExpenseLine is an accounting entry, independent of closing lines.
type ExpenseLine struct {
	ID            string
	Department    Department
	Name          string
	Description   string
	Value         decimal.Decimal
	InvoiceNumber string
	PayStatus     PayStatus
	Date          *time.Time
	Supplier      string
	ExpenseType   string
}

// Savings percent bounds.
const (
	MinSavingPercent = 5
	MaxSavingPercent = 25
)

// SavingConfig selects the items whose economy feeds the savings split.
type SavingConfig struct {
	SelectedItemKeys  []string
	Percent           decimal.Decimal
	ResponsibleLineID string
}

// ExpenseDepartmentConfig lists the departments shown in the accounting view,
// with optional spending caps.
type ExpenseDepartmentConfig struct {
	Departments []Department
	Caps        map[Department]decimal.Decimal
}

// ClosingBook is everything the Closing stage owns.
type ClosingBook struct {
	Lines              []ClosingLine
	Expenses           []ExpenseLine
	Saving             *SavingConfig
	ExpenseDepartments *ExpenseDepartmentConfig
}

// FindLine returns a pointer to the closing line with the given id.
func (b *ClosingBook) FindLine(id string) (*ClosingLine, bool) {
	for i := range b.Lines {
		if b.Lines[i].ID == id {
			return &b.Lines[i], true
		}
	}
	return nil, false
}

// Clone deep-copies the book.
func (b ClosingBook) Clone() ClosingBook {
	c := ClosingBook{}
	if b.Lines != nil {
		c.Lines = make([]ClosingLine, len(b.Lines))
		for i, l := range b.Lines {
			if l.Diary != nil {
				l.Diary = append([]DiaryEntry(nil), l.Diary...)
			}
			c.Lines[i] = l
		}
	}
	if b.Expenses != nil {
		c.Expenses = append([]ExpenseLine(nil), b.Expenses...)
	}
	if b.Saving != nil {
		s := *b.Saving
		s.SelectedItemKeys = append([]string(nil), b.Saving.SelectedItemKeys...)
		c.Saving = &s
	}
	if b.ExpenseDepartments != nil {
		e := ExpenseDepartmentConfig{
			Departments: append([]Department(nil), b.ExpenseDepartments.Departments...),
		}
		if b.ExpenseDepartments.Caps != nil {
			e.Caps = make(map[Department]decimal.Decimal, len(b.ExpenseDepartments.Caps))
			for k, v := range b.ExpenseDepartments.Caps {
				e.Caps[k] = v
			}
		}
		c.ExpenseDepartments = &e
	}
	return c
}
