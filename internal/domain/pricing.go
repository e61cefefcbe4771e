package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceRow returns the cost of a single row.
func PriceRow(r Row) decimal.Decimal {
	switch row := r.(type) {
	case *PeopleRow:
		return decimal.Zero
	case *LaborRow:
		return row.UnitCost.Add(row.ExtraCost).Mul(row.Quantity).Add(row.ComplementaryTotal())
	case *CostRow:
		return row.UnitCost.Mul(row.Quantity)
	default:
		panic(fmt.Sprintf("domain: unhandled row type %T", r))
	}
}

// PriceVerba returns the cost of an allowance row.
func PriceVerba(v VerbaRow) decimal.Decimal {
	return v.UnitCost.Mul(v.Quantity)
}

// Percent returns base * pct / 100.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

// SumRows prices every non-blank row in rows.
func SumRows(rows []Row) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		if IsBlank(r) {
			continue
		}
		total = total.Add(PriceRow(r))
	}
	return total
}

// SumVerba prices every non-blank verba row.
func SumVerba(rows []VerbaRow) decimal.Decimal {
	total := decimal.Zero
	for _, v := range rows {
		if v.IsBlank() {
			continue
		}
		total = total.Add(PriceVerba(v))
	}
	return total
}

// PhaseTotals is the cost breakdown of one phase.
type PhaseTotals struct {
	Rows         decimal.Decimal
	Verba        decimal.Decimal
	Subtotal     decimal.Decimal
	Contingency  decimal.Decimal
	CRT          decimal.Decimal
	AgencyMargin decimal.Decimal
	Total        decimal.Decimal
}

// Totals computes the phase breakdown. Mini-table charges are percentages of
// the phase subtotal.
func (p *PhaseBudget) Totals() PhaseTotals {
	var t PhaseTotals
	t.Rows = decimal.Zero
	t.Verba = decimal.Zero
	for _, rows := range p.Rows {
		t.Rows = t.Rows.Add(SumRows(rows))
	}
	for _, rows := range p.Verba {
		t.Verba = t.Verba.Add(SumVerba(rows))
	}
	t.Subtotal = t.Rows.Add(t.Verba)
	t.Contingency = Percent(t.Subtotal, p.MiniTables.Contingency)
	t.CRT = Percent(t.Subtotal, p.MiniTables.CRT)
	t.AgencyMargin = Percent(t.Subtotal, p.MiniTables.AgencyMargin)
	t.Total = t.Subtotal.Add(t.Contingency).Add(t.CRT).Add(t.AgencyMargin)
	return t
}

// DepartmentTotal prices the rows of one department in one phase.
func (p *PhaseBudget) DepartmentTotal(dept Department) decimal.Decimal {
	return SumRows(p.Rows[dept])
}

// DepartmentVerbaTotal prices the verba rows of one department in one phase.
func (p *PhaseBudget) DepartmentVerbaTotal(dept Department) decimal.Decimal {
	return SumVerba(p.Verba[dept])
}

// StageSummary aggregates a whole stage budget against the job value.
type StageSummary struct {
	Phases   map[Phase]PhaseTotals
	Rows     decimal.Decimal
	Verba    decimal.Decimal
	Subtotal decimal.Decimal
	Charges  decimal.Decimal
	Total    decimal.Decimal
	JobValue decimal.Decimal
	Tax      decimal.Decimal
	Result   decimal.Decimal
}

// Summarize computes the stage totals. Result is what remains of the job
// value after tax and total cost; it is negative when the budget overruns.
func Summarize(s *StageBudget) StageSummary {
	sum := StageSummary{
		Phases:   make(map[Phase]PhaseTotals, len(Phases)),
		Rows:     decimal.Zero,
		Verba:    decimal.Zero,
		Subtotal: decimal.Zero,
		Charges:  decimal.Zero,
		Total:    decimal.Zero,
	}
	for _, ph := range Phases {
		t := s.Phase(ph).Totals()
		sum.Phases[ph] = t
		sum.Rows = sum.Rows.Add(t.Rows)
		sum.Verba = sum.Verba.Add(t.Verba)
		sum.Subtotal = sum.Subtotal.Add(t.Subtotal)
		sum.Charges = sum.Charges.Add(t.Contingency).Add(t.CRT).Add(t.AgencyMargin)
		sum.Total = sum.Total.Add(t.Total)
	}
	sum.JobValue = s.JobValue
	sum.Tax = Percent(s.JobValue, s.TaxRatePercent)
	sum.Result = s.JobValue.Sub(sum.Tax).Sub(sum.Total)
	return sum
}
