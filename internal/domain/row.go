package domain

import "github.com/shopspring/decimal"

// Row is one budget line inside a department. It is implemented only by
// *PeopleRow, *LaborRow and *CostRow; the unexported marker keeps the set
// closed so that switches over row kinds stay exhaustive.
type Row interface {
	RowID() string
	Kind() RowKind
	Name() string
	Role() string
	CloneRow() Row
	isRow()
}

// PeopleRow counts a person without attaching cost.
type PeopleRow struct {
	ID           string
	ItemName     string
	RoleFunction string
}

// LaborRow is a paid crew or cast member.
type LaborRow struct {
	ID            string
	ItemName      string
	RoleFunction  string
	PayBasis      PayBasis
	UnitCost      decimal.Decimal
	ExtraCost     decimal.Decimal
	Quantity      decimal.Decimal
	Complementary []ComplementaryLine
}

// CostRow is a supplier cost. RoleFunction holds the supplier name.
type CostRow struct {
	ID           string
	ItemName     string
	RoleFunction string
	UnitType     UnitType
	UnitCost     decimal.Decimal
	Quantity     decimal.Decimal
	Catering     CateringMode
}

// ComplementaryLine is an extra payment attached to a labor row, such as a
// pickup or a scout day.
type ComplementaryLine struct {
	ID          string
	Description string
	Type        ComplementaryType
	Value       decimal.Decimal
}

// VerbaRow is a lump-sum allowance line, kept apart from itemized rows.
type VerbaRow struct {
	ID       string
	ItemName string
	UnitCost decimal.Decimal
	Quantity decimal.Decimal
}

func (r *PeopleRow) RowID() string { return r.ID }
func (r *PeopleRow) Kind() RowKind { return KindPeople }
func (r *PeopleRow) Name() string  { return r.ItemName }
func (r *PeopleRow) Role() string  { return r.RoleFunction }
func (r *PeopleRow) isRow()        {}

func (r *PeopleRow) CloneRow() Row {
	c := *r
	return &c
}

func (r *LaborRow) RowID() string { return r.ID }
func (r *LaborRow) Kind() RowKind { return KindLabor }
func (r *LaborRow) Name() string  { return r.ItemName }
func (r *LaborRow) Role() string  { return r.RoleFunction }
func (r *LaborRow) isRow()        {}

func (r *LaborRow) CloneRow() Row {
	c := *r
	if r.Complementary != nil {
		c.Complementary = make([]ComplementaryLine, len(r.Complementary))
		copy(c.Complementary, r.Complementary)
	}
	return &c
}

// DailyReference is the per-day rate of the row. Complementary lines are not
// part of it.
func (r *LaborRow) DailyReference() decimal.Decimal {
	return r.UnitCost.Add(r.ExtraCost)
}

// ComplementaryTotal sums the values of the attached complementary lines.
func (r *LaborRow) ComplementaryTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Complementary {
		total = total.Add(c.Value)
	}
	return total
}

func (r *CostRow) RowID() string { return r.ID }
func (r *CostRow) Kind() RowKind { return KindCost }
func (r *CostRow) Name() string  { return r.ItemName }
func (r *CostRow) Role() string  { return r.RoleFunction }
func (r *CostRow) isRow()        {}

func (r *CostRow) CloneRow() Row {
	c := *r
	return &c
}

// CateringOverridden reports whether the row keeps a manual value.
func (r *CostRow) CateringOverridden() bool {
	return r.Catering == CateringOverridden
}

// IsBlank reports whether a row has no name, no role and no price. Blank rows
// are placeholders and never count in totals or closing.
func IsBlank(r Row) bool {
	return r.Name() == "" && r.Role() == "" && PriceRow(r).IsZero()
}

// IsBlank reports whether the verba row is an empty placeholder.
func (v VerbaRow) IsBlank() bool {
	return v.ItemName == "" && PriceVerba(v).IsZero()
}
