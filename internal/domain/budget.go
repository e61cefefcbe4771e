package domain

import "github.com/shopspring/decimal"

// MiniTables holds the markup percentages applied over a phase subtotal.
type MiniTables struct {
	Contingency  decimal.Decimal
	CRT          decimal.Decimal
	AgencyMargin decimal.Decimal
}

// PhaseDefaults holds the values that bulk "apply" actions and the catering
// rule read from.
type PhaseDefaults struct {
	Days                   int
	Weeks                  int
	TravelAllowance        decimal.Decimal
	MealAllowancePerPerson decimal.Decimal
}

// PhaseBudget is the department-keyed content of one production phase.
type PhaseBudget struct {
	Rows       map[Department][]Row
	Verba      map[Department][]VerbaRow
	MiniTables MiniTables
	Defaults   PhaseDefaults
	Notes      string
}

// StageBudget is one full estimate (Initial or Final).
type StageBudget struct {
	Pre            PhaseBudget
	Production     PhaseBudget
	Post           PhaseBudget
	JobValue       decimal.Decimal
	TaxRatePercent decimal.Decimal
}

// NewPhaseBudget returns an empty phase with initialized maps.
func NewPhaseBudget() PhaseBudget {
	return PhaseBudget{
		Rows:  make(map[Department][]Row),
		Verba: make(map[Department][]VerbaRow),
	}
}

// NewStageBudget returns an empty stage with all three phases initialized.
func NewStageBudget() *StageBudget {
	return &StageBudget{
		Pre:        NewPhaseBudget(),
		Production: NewPhaseBudget(),
		Post:       NewPhaseBudget(),
	}
}

// Phase returns a pointer to the phase budget, or nil for an unknown phase.
func (s *StageBudget) Phase(p Phase) *PhaseBudget {
	switch p {
	case PhasePre:
		return &s.Pre
	case PhaseProduction:
		return &s.Production
	case PhasePost:
		return &s.Post
	default:
		return nil
	}
}

// EnsureMaps allocates nil row/verba maps, e.g. after decoding a record that
// omitted a phase.
func (s *StageBudget) EnsureMaps() {
	for _, ph := range Phases {
		p := s.Phase(ph)
		if p.Rows == nil {
			p.Rows = make(map[Department][]Row)
		}
		if p.Verba == nil {
			p.Verba = make(map[Department][]VerbaRow)
		}
	}
}

// Clone deep-copies the stage. The copy shares no maps, slices or rows with
// the receiver.
func (s *StageBudget) Clone() *StageBudget {
	if s == nil {
		return nil
	}
	c := &StageBudget{
		Pre:            s.Pre.Clone(),
		Production:     s.Production.Clone(),
		Post:           s.Post.Clone(),
		JobValue:       s.JobValue,
		TaxRatePercent: s.TaxRatePercent,
	}
	return c
}

// Clone deep-copies the phase.
func (p PhaseBudget) Clone() PhaseBudget {
	c := NewPhaseBudget()
	for dept, rows := range p.Rows {
		cp := make([]Row, len(rows))
		for i, r := range rows {
			cp[i] = r.CloneRow()
		}
		c.Rows[dept] = cp
	}
	for dept, rows := range p.Verba {
		cp := make([]VerbaRow, len(rows))
		copy(cp, rows)
		c.Verba[dept] = cp
	}
	c.MiniTables = p.MiniTables
	c.Defaults = p.Defaults
	c.Notes = p.Notes
	return c
}

// RowLocation identifies where a row lives inside a stage.
type RowLocation struct {
	Phase      Phase
	Department Department
	Index      int
}

// FindRow locates a row by id across all phases.
func (s *StageBudget) FindRow(id string) (Row, RowLocation, bool) {
	for _, ph := range Phases {
		for dept, rows := range s.Phase(ph).Rows {
			for i, r := range rows {
				if r.RowID() == id {
					return r, RowLocation{Phase: ph, Department: dept, Index: i}, true
				}
			}
		}
	}
	return nil, RowLocation{}, false
}

// FindVerba locates a verba row by id across all phases.
func (s *StageBudget) FindVerba(id string) (*VerbaRow, RowLocation, bool) {
	for _, ph := range Phases {
		for dept, rows := range s.Phase(ph).Verba {
			for i := range rows {
				if rows[i].ID == id {
					return &rows[i], RowLocation{Phase: ph, Department: dept, Index: i}, true
				}
			}
		}
	}
	return nil, RowLocation{}, false
}

// DepartmentKeys returns the departments that have rows or verba rows in the
// phase, in catalog order.
func (p *PhaseBudget) DepartmentKeys() []Department {
	seen := make(map[Department]bool)
	var keys []Department
	for d := range p.Rows {
		if !seen[d] {
			seen[d] = true
			keys = append(keys, d)
		}
	}
	for d := range p.Verba {
		if !seen[d] {
			seen[d] = true
			keys = append(keys, d)
		}
	}
	SortDepartments(keys)
	return keys
}
