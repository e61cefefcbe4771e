package budget

import (
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/shopspring/decimal"
)

// ApplyDays sets quantity to the phase's day count on every daily labor row.
func (e *Editor) ApplyDays(phase domain.Phase) bool {
	return e.eachLabor(phase, func(p *domain.PhaseBudget, r *domain.LaborRow) {
		if r.PayBasis == domain.PayDaily {
			r.Quantity = decimal.NewFromInt(int64(domain.MaxInt(p.Defaults.Days, 0)))
		}
	})
}

// ApplyWeeks sets quantity to the phase's week count on every weekly labor row.
func (e *Editor) ApplyWeeks(phase domain.Phase) bool {
	return e.eachLabor(phase, func(p *domain.PhaseBudget, r *domain.LaborRow) {
		if r.PayBasis == domain.PayWeekly {
			r.Quantity = decimal.NewFromInt(int64(domain.MaxInt(p.Defaults.Weeks, 0)))
		}
	})
}

// ApplyTravelAllowance sets extra cost to the phase's travel allowance on
// every labor row.
func (e *Editor) ApplyTravelAllowance(phase domain.Phase) bool {
	return e.eachLabor(phase, func(p *domain.PhaseBudget, r *domain.LaborRow) {
		r.ExtraCost = domain.NonNegative(p.Defaults.TravelAllowance)
	})
}

func (e *Editor) eachLabor(phase domain.Phase, fn func(*domain.PhaseBudget, *domain.LaborRow)) bool {
	if !e.editable() {
		return false
	}
	p := e.state.Phase(phase)
	if p == nil {
		return false
	}
	for _, rows := range p.Rows {
		for _, r := range rows {
			if lr, ok := r.(*domain.LaborRow); ok {
				fn(p, lr)
			}
		}
	}
	e.syncCatering()
	return true
}

// SetDefaults replaces the phase defaults. Negative values are clamped.
func (e *Editor) SetDefaults(phase domain.Phase, d domain.PhaseDefaults) bool {
	if !e.editable() {
		return false
	}
	p := e.state.Phase(phase)
	if p == nil {
		return false
	}
	p.Defaults = domain.PhaseDefaults{
		Days:                   domain.MaxInt(d.Days, 0),
		Weeks:                  domain.MaxInt(d.Weeks, 0),
		TravelAllowance:        domain.NonNegative(d.TravelAllowance),
		MealAllowancePerPerson: domain.NonNegative(d.MealAllowancePerPerson),
	}
	e.syncCatering()
	return true
}

// SetMiniTables replaces the phase markup percentages.
func (e *Editor) SetMiniTables(phase domain.Phase, m domain.MiniTables) bool {
	if !e.editable() {
		return false
	}
	p := e.state.Phase(phase)
	if p == nil {
		return false
	}
	p.MiniTables = domain.MiniTables{
		Contingency:  domain.NonNegative(m.Contingency),
		CRT:          domain.NonNegative(m.CRT),
		AgencyMargin: domain.NonNegative(m.AgencyMargin),
	}
	return true
}

// SetNotes replaces the phase notes.
func (e *Editor) SetNotes(phase domain.Phase, notes string) bool {
	if !e.editable() {
		return false
	}
	p := e.state.Phase(phase)
	if p == nil {
		return false
	}
	p.Notes = notes
	return true
}

// SetJobValue sets the stage's job value.
func (e *Editor) SetJobValue(v decimal.Decimal) bool {
	if !e.editable() {
		return false
	}
	e.state.JobValue = domain.NonNegative(v)
	return true
}

// SetTaxRate sets the stage's tax rate percentage.
func (e *Editor) SetTaxRate(pct decimal.Decimal) bool {
	if !e.editable() {
		return false
	}
	e.state.TaxRatePercent = domain.NonNegative(pct)
	return true
}
