// Package closing computes what is owed per line once the Final estimate is
// locked: flattening, diary and overtime math, and reconciliation totals.
package closing

import (
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	five    = decimal.NewFromInt(5)
	hundred = decimal.NewFromInt(100)
)

// Flatten turns every non-blank row and verba row of a Final stage into a
// closing line. Phases keep their order; departments follow the catalog.
// Derived lines reuse the id of their source row.
func Flatten(final *domain.StageBudget) []domain.ClosingLine {
	if final == nil {
		return nil
	}
	var lines []domain.ClosingLine
	for _, ph := range domain.Phases {
		p := final.Phase(ph)
		for _, dept := range p.DepartmentKeys() {
			for _, r := range p.Rows[dept] {
				if domain.IsBlank(r) {
					continue
				}
				lines = append(lines, fromRow(r, dept, ph))
			}
			for _, v := range p.Verba[dept] {
				if v.IsBlank() {
					continue
				}
				lines = append(lines, domain.ClosingLine{
					ID:             v.ID,
					SourceRowID:    v.ID,
					Department:     dept,
					Phase:          ph,
					ItemName:       v.ItemName,
					IsVerba:        true,
					FinalUnitCost:  v.UnitCost,
					FinalExtraCost: decimal.Zero,
					FinalQuantity:  v.Quantity,
					PayStatus:      domain.PayPending,
				})
			}
		}
	}
	return lines
}

func fromRow(r domain.Row, dept domain.Department, ph domain.Phase) domain.ClosingLine {
	l := domain.ClosingLine{
		ID:                 r.RowID(),
		SourceRowID:        r.RowID(),
		Department:         dept,
		Phase:              ph,
		ItemName:           r.Name(),
		RoleFunction:       r.Role(),
		FinalUnitCost:      decimal.Zero,
		FinalExtraCost:     decimal.Zero,
		FinalQuantity:      decimal.Zero,
		ComplementaryTotal: decimal.Zero,
		PayStatus:          domain.PayPending,
	}
	switch row := r.(type) {
	case *domain.PeopleRow:
	case *domain.LaborRow:
		l.IsLabor = true
		l.PayBasis = row.PayBasis
		l.FinalUnitCost = row.UnitCost
		l.FinalExtraCost = row.ExtraCost
		l.FinalQuantity = row.Quantity
		l.ComplementaryTotal = row.ComplementaryTotal()
	case *domain.CostRow:
		l.FinalUnitCost = row.UnitCost
		l.FinalQuantity = row.Quantity
	}
	return l
}

// Reconcile regenerates closing lines from a new Final snapshot. Annotations
// of lines whose source row still exists are carried over, ad-hoc extras are
// kept, and lines whose source row disappeared are dropped.
func Reconcile(existing []domain.ClosingLine, final *domain.StageBudget) []domain.ClosingLine {
	prev := make(map[string]domain.ClosingLine, len(existing))
	var extras []domain.ClosingLine
	for _, l := range existing {
		if l.IsExtraAdHoc {
			extras = append(extras, l)
			continue
		}
		prev[l.SourceRowID] = l
	}

	lines := Flatten(final)
	for i := range lines {
		old, ok := prev[lines[i].SourceRowID]
		if !ok {
			continue
		}
		lines[i].Diary = append([]domain.DiaryEntry(nil), old.Diary...)
		lines[i].DiaryExpanded = old.DiaryExpanded
		lines[i].InvoiceNumber = old.InvoiceNumber
		lines[i].PayStatus = old.PayStatus
		lines[i].Notes = old.Notes
	}
	return append(lines, extras...)
}

// FinalValue prices a line the way its source row was priced in Final.
func FinalValue(l domain.ClosingLine) decimal.Decimal {
	if l.IsLabor {
		return l.FinalUnitCost.Add(l.FinalExtraCost).Mul(l.FinalQuantity).Add(l.ComplementaryTotal)
	}
	return l.FinalUnitCost.Mul(l.FinalQuantity)
}

// Entries returns the diary of a line, defaulting to one regular day.
func Entries(l domain.ClosingLine) []domain.DiaryEntry {
	if len(l.Diary) == 0 {
		return []domain.DiaryEntry{domain.DefaultDiaryEntry()}
	}
	return l.Diary
}

func dayCount(l domain.ClosingLine) decimal.Decimal {
	return decimal.NewFromInt(int64(len(Entries(l))))
}

// ReferenceDailyRate is the per-day value of a line.
func ReferenceDailyRate(l domain.ClosingLine) decimal.Decimal {
	switch l.PayBasis {
	case domain.PayWeekly:
		return l.FinalUnitCost.Div(five)
	case domain.PayDaily:
		return l.FinalUnitCost
	default:
		return FinalValue(l).Div(dayCount(l))
	}
}

// OvertimeAmount sums the overtime of every diary day of a labor line.
// Days without regular hours contribute nothing.
func OvertimeAmount(l domain.ClosingLine) decimal.Decimal {
	total := decimal.Zero
	if !l.IsLabor {
		return total
	}
	unitPerDay := l.FinalUnitCost
	if l.PayBasis == domain.PayWeekly {
		unitPerDay = unitPerDay.Div(five)
	}
	for _, e := range Entries(l) {
		if !e.DailyHours.IsPositive() {
			continue
		}
		hourly := unitPerDay.Div(e.DailyHours)
		factor := one.Add(e.AdditionalPercent.Div(hundred))
		total = total.Add(hourly.Mul(factor).Mul(e.OvertimeHours))
	}
	return total
}

// TotalPayable is what a line costs at closing. Daily labor is paid per
// diary day; everything else at its Final value. Overtime is added on top.
func TotalPayable(l domain.ClosingLine) decimal.Decimal {
	base := FinalValue(l)
	if l.IsLabor && l.PayBasis == domain.PayDaily {
		base = l.FinalUnitCost.Mul(dayCount(l))
	}
	return base.Add(OvertimeAmount(l))
}
