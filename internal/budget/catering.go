package budget

import (
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/shopspring/decimal"
)

// cateringPhases are the phases whose first catering row follows the team size.
var cateringPhases = []domain.Phase{domain.PhasePre, domain.PhaseProduction}

// TeamCount is the number of people the catering row feeds in a phase:
// labor rows outside casting, plus each casting row's quantity (1 when zero),
// plus people rows in the person departments. Casting quantities may be
// fractional.
func TeamCount(p *domain.PhaseBudget) decimal.Decimal {
	var labor int64
	casting := decimal.Zero
	var people int64

	for dept, rows := range p.Rows {
		for _, r := range rows {
			if dept == domain.DeptCasting {
				casting = casting.Add(castingHeads(r))
				continue
			}
			switch r.(type) {
			case *domain.LaborRow:
				labor++
			case *domain.PeopleRow:
				if domain.PersonDepartments[dept] {
					people++
				}
			}
		}
	}
	return decimal.NewFromInt(labor + people).Add(casting)
}

func castingHeads(r domain.Row) decimal.Decimal {
	var qty decimal.Decimal
	switch row := r.(type) {
	case *domain.LaborRow:
		qty = row.Quantity
	case *domain.CostRow:
		qty = row.Quantity
	default:
		return decimal.NewFromInt(1)
	}
	if !qty.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return qty
}

// CateringTarget returns the derived unit cost and quantity for a phase.
func CateringTarget(p *domain.PhaseBudget) (unitCost, quantity decimal.Decimal) {
	team := TeamCount(p)
	unitCost = p.Defaults.MealAllowancePerPerson.Mul(team)
	days := p.Defaults.Days
	if days <= 0 {
		days = 1
	}
	return unitCost, decimal.NewFromInt(int64(days))
}

// cateringRow returns the first catering row of the phase when it is a cost row.
func cateringRow(p *domain.PhaseBudget) *domain.CostRow {
	rows := p.Rows[domain.DeptCatering]
	if len(rows) == 0 {
		return nil
	}
	cr, _ := rows[0].(*domain.CostRow)
	return cr
}

func isCateringPhase(phase domain.Phase) bool {
	for _, ph := range cateringPhases {
		if phase == ph {
			return true
		}
	}
	return false
}

func (e *Editor) isCateringRow(loc domain.RowLocation) bool {
	return loc.Department == domain.DeptCatering && loc.Index == 0 && isCateringPhase(loc.Phase)
}

// syncCatering overwrites the derived catering rows. Overridden rows keep
// their manual values.
func (e *Editor) syncCatering() {
	for _, ph := range cateringPhases {
		p := e.state.Phase(ph)
		cr := cateringRow(p)
		if cr == nil || cr.CateringOverridden() {
			continue
		}
		cr.UnitCost, cr.Quantity = CateringTarget(p)
		cr.Catering = domain.CateringDerived
	}
}

// ApplyCatering returns the phase's catering row to the derived value and
// overwrites it, even after a manual edit. Only Pre and Production carry a
// derived catering row.
func (e *Editor) ApplyCatering(phase domain.Phase) bool {
	if !e.editable() || !isCateringPhase(phase) {
		return false
	}
	p := e.state.Phase(phase)
	if p == nil {
		return false
	}
	cr := cateringRow(p)
	if cr == nil {
		return false
	}
	cr.Catering = domain.CateringDerived
	cr.UnitCost, cr.Quantity = CateringTarget(p)
	e.syncCatering()
	return true
}
