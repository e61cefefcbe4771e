package closing

import (
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/shopspring/decimal"
)

// Bonus is the savings payout credited on top of one closing line.
type Bonus struct {
	LineID string
	Amount decimal.Decimal
}

// LinePayable is TotalPayable plus the bonus when the line is its recipient.
func LinePayable(l domain.ClosingLine, bonus Bonus) decimal.Decimal {
	total := TotalPayable(l)
	if bonus.LineID != "" && bonus.LineID == l.ID {
		total = total.Add(bonus.Amount)
	}
	return total
}

// Amounts splits a payable total by pay status.
type Amounts struct {
	Payable decimal.Decimal
	Paid    decimal.Decimal
	Pending decimal.Decimal
}

func zeroAmounts() Amounts {
	return Amounts{Payable: decimal.Zero, Paid: decimal.Zero, Pending: decimal.Zero}
}

func (a *Amounts) add(v decimal.Decimal, status domain.PayStatus) {
	a.Payable = a.Payable.Add(v)
	if status == domain.PayPaid {
		a.Paid = a.Paid.Add(v)
	} else {
		a.Pending = a.Pending.Add(v)
	}
}

// DepartmentTotal is the closing card of one department.
type DepartmentTotal struct {
	Department domain.Department
	Final      decimal.Decimal
	Amounts
}

// DepartmentTotals sums closing lines per department in catalog order. Verba
// lines are left out; they belong to the accounting view.
func DepartmentTotals(lines []domain.ClosingLine, bonus Bonus) []DepartmentTotal {
	byDept := make(map[domain.Department]*DepartmentTotal)
	var order []domain.Department
	for _, l := range lines {
		if l.IsVerba {
			continue
		}
		t, ok := byDept[l.Department]
		if !ok {
			t = &DepartmentTotal{Department: l.Department, Final: decimal.Zero, Amounts: zeroAmounts()}
			byDept[l.Department] = t
			order = append(order, l.Department)
		}
		if !l.IsExtraAdHoc {
			t.Final = t.Final.Add(FinalValue(l))
		}
		t.add(LinePayable(l, bonus), l.PayStatus)
	}
	domain.SortDepartments(order)
	out := make([]DepartmentTotal, 0, len(order))
	for _, d := range order {
		out = append(out, *byDept[d])
	}
	return out
}

// Totals is the grand total of every closing line, verba included.
func Totals(lines []domain.ClosingLine, bonus Bonus) Amounts {
	a := zeroAmounts()
	for _, l := range lines {
		a.add(LinePayable(l, bonus), l.PayStatus)
	}
	return a
}

// ExpenseTotal is one department of the accounting view.
type ExpenseTotal struct {
	Department domain.Department
	Cap        decimal.Decimal
	HasCap     bool
	Amounts
}

// OverCap reports whether the department spent more than its cap.
func (e ExpenseTotal) OverCap() bool {
	return e.HasCap && e.Payable.GreaterThan(e.Cap)
}

// ExpenseTotals sums accounting entries per department, in catalog order.
// Configured departments are listed even without entries.
func ExpenseTotals(b domain.ClosingBook) []ExpenseTotal {
	byDept := make(map[domain.Department]*ExpenseTotal)
	var order []domain.Department
	get := func(d domain.Department) *ExpenseTotal {
		t, ok := byDept[d]
		if !ok {
			t = &ExpenseTotal{Department: d, Cap: decimal.Zero, Amounts: zeroAmounts()}
			byDept[d] = t
			order = append(order, d)
		}
		return t
	}

	if cfg := b.ExpenseDepartments; cfg != nil {
		for _, d := range cfg.Departments {
			t := get(d)
			if limit, ok := cfg.Caps[d]; ok {
				t.Cap = limit
				t.HasCap = true
			}
		}
	}
	for _, e := range b.Expenses {
		get(e.Department).add(e.Value, e.PayStatus)
	}

	domain.SortDepartments(order)
	out := make([]ExpenseTotal, 0, len(order))
	for _, d := range order {
		out = append(out, *byDept[d])
	}
	return out
}
