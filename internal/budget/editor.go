// Package budget implements the department store behind one estimate stage:
// row and verba editing, bulk defaults, and the catering auto-sync rule.
package budget

import (
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateLookup pre-fills unit cost from a role name when a row is created.
type RateLookup interface {
	Rate(role string) (decimal.Decimal, bool)
}

// Editor mutates one StageBudget in memory. Every mutation is refused, and
// reports false, while the stage is not editable.
type Editor struct {
	state    *domain.StageBudget
	editable func() bool
	rates    RateLookup
	newID    func() string
}

// Option configures an Editor.
type Option func(*Editor)

// WithRates sets the role-rate lookup used by AddRow.
func WithRates(r RateLookup) Option {
	return func(e *Editor) { e.rates = r }
}

// WithEditable sets the predicate deciding whether mutations are allowed.
func WithEditable(fn func() bool) Option {
	return func(e *Editor) { e.editable = fn }
}

// WithIDGenerator replaces the uuid generator, for deterministic tests.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) { e.newID = fn }
}

// NewEditor wraps state. A nil state starts from an empty stage.
func NewEditor(state *domain.StageBudget, opts ...Option) *Editor {
	if state == nil {
		state = domain.NewStageBudget()
	}
	state.EnsureMaps()
	e := &Editor{
		state:    state,
		editable: func() bool { return true },
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Editable reports whether mutations are currently accepted.
func (e *Editor) Editable() bool {
	return e.editable()
}

// GetState returns a deep copy of the edited stage.
func (e *Editor) GetState() *domain.StageBudget {
	return e.state.Clone()
}

// LoadState replaces the edited stage with a deep copy of s. Loading is not
// an edit and is allowed on a locked stage.
func (e *Editor) LoadState(s *domain.StageBudget) {
	if s == nil {
		s = domain.NewStageBudget()
	}
	e.state = s.Clone()
	e.state.EnsureMaps()
}

// State exposes the live stage for read-only use by callers in this module.
func (e *Editor) State() *domain.StageBudget {
	return e.state
}

// RowSeed carries optional initial values for AddRow.
type RowSeed struct {
	ItemName     string
	RoleFunction string
	PayBasis     domain.PayBasis
	UnitType     domain.UnitType
}

// AddRow appends a row of the given kind to a department and returns its id.
func (e *Editor) AddRow(phase domain.Phase, dept domain.Department, kind domain.RowKind, seed RowSeed) (string, bool) {
	if !e.editable() {
		return "", false
	}
	p := e.state.Phase(phase)
	if p == nil || dept == "" {
		return "", false
	}

	id := e.newID()
	var row domain.Row
	switch kind {
	case domain.KindPeople:
		row = &domain.PeopleRow{ID: id, ItemName: seed.ItemName, RoleFunction: seed.RoleFunction}
	case domain.KindLabor:
		basis := seed.PayBasis
		if basis == "" {
			basis = domain.PayDaily
		}
		row = &domain.LaborRow{
			ID:           id,
			ItemName:     seed.ItemName,
			RoleFunction: seed.RoleFunction,
			PayBasis:     basis,
			UnitCost:     e.prefill(seed.RoleFunction),
			ExtraCost:    decimal.Zero,
			Quantity:     decimal.NewFromInt(1),
		}
	case domain.KindCost:
		unit := seed.UnitType
		if unit == "" {
			unit = domain.UnitCache
		}
		row = &domain.CostRow{
			ID:           id,
			ItemName:     seed.ItemName,
			RoleFunction: seed.RoleFunction,
			UnitType:     unit,
			UnitCost:     e.prefill(seed.RoleFunction),
			Quantity:     decimal.NewFromInt(1),
			Catering:     domain.CateringDerived,
		}
	default:
		return "", false
	}

	p.Rows[dept] = append(p.Rows[dept], row)
	e.syncCatering()
	return id, true
}

func (e *Editor) prefill(role string) decimal.Decimal {
	if e.rates == nil || role == "" {
		return decimal.Zero
	}
	if rate, ok := e.rates.Rate(role); ok {
		return domain.NonNegative(rate)
	}
	return decimal.Zero
}

// RowPatch is a partial row update. Nil fields are left untouched; fields
// that do not apply to the row's kind are ignored.
type RowPatch struct {
	ItemName     *string
	RoleFunction *string
	PayBasis     *domain.PayBasis
	UnitType     *domain.UnitType
	UnitCost     *decimal.Decimal
	ExtraCost    *decimal.Decimal
	Quantity     *decimal.Decimal
}

// UpdateRow applies patch to the row with the given id. Negative amounts are
// clamped to zero. A manual cost or quantity on the catering row switches it
// to an overridden value.
func (e *Editor) UpdateRow(id string, patch RowPatch) bool {
	if !e.editable() {
		return false
	}
	row, loc, ok := e.state.FindRow(id)
	if !ok {
		return false
	}

	switch r := row.(type) {
	case *domain.PeopleRow:
		setString(&r.ItemName, patch.ItemName)
		setString(&r.RoleFunction, patch.RoleFunction)
	case *domain.LaborRow:
		setString(&r.ItemName, patch.ItemName)
		setString(&r.RoleFunction, patch.RoleFunction)
		if patch.PayBasis != nil && domain.ValidPayBases[string(*patch.PayBasis)] {
			r.PayBasis = *patch.PayBasis
		}
		setAmount(&r.UnitCost, patch.UnitCost)
		setAmount(&r.ExtraCost, patch.ExtraCost)
		setAmount(&r.Quantity, patch.Quantity)
	case *domain.CostRow:
		setString(&r.ItemName, patch.ItemName)
		setString(&r.RoleFunction, patch.RoleFunction)
		if patch.UnitType != nil && domain.ValidUnitTypes[string(*patch.UnitType)] {
			r.UnitType = *patch.UnitType
		}
		setAmount(&r.UnitCost, patch.UnitCost)
		setAmount(&r.Quantity, patch.Quantity)
		if (patch.UnitCost != nil || patch.Quantity != nil) && e.isCateringRow(loc) {
			r.Catering = domain.CateringOverridden
		}
	}

	e.syncCatering()
	return true
}

// RemoveRow deletes the row with the given id.
func (e *Editor) RemoveRow(id string) bool {
	if !e.editable() {
		return false
	}
	_, loc, ok := e.state.FindRow(id)
	if !ok {
		return false
	}
	p := e.state.Phase(loc.Phase)
	rows := p.Rows[loc.Department]
	p.Rows[loc.Department] = append(rows[:loc.Index:loc.Index], rows[loc.Index+1:]...)
	e.syncCatering()
	return true
}

// AddVerbaRow appends an empty allowance row to a department.
func (e *Editor) AddVerbaRow(phase domain.Phase, dept domain.Department) (string, bool) {
	if !e.editable() {
		return "", false
	}
	p := e.state.Phase(phase)
	if p == nil || dept == "" {
		return "", false
	}
	id := e.newID()
	p.Verba[dept] = append(p.Verba[dept], domain.VerbaRow{
		ID:       id,
		UnitCost: decimal.Zero,
		Quantity: decimal.NewFromInt(1),
	})
	e.syncCatering()
	return id, true
}

// VerbaPatch is a partial verba row update.
type VerbaPatch struct {
	ItemName *string
	UnitCost *decimal.Decimal
	Quantity *decimal.Decimal
}

// UpdateVerbaRow applies patch to the verba row with the given id.
func (e *Editor) UpdateVerbaRow(id string, patch VerbaPatch) bool {
	if !e.editable() {
		return false
	}
	v, _, ok := e.state.FindVerba(id)
	if !ok {
		return false
	}
	setString(&v.ItemName, patch.ItemName)
	setAmount(&v.UnitCost, patch.UnitCost)
	setAmount(&v.Quantity, patch.Quantity)
	e.syncCatering()
	return true
}

// RemoveVerbaRow deletes the verba row with the given id.
func (e *Editor) RemoveVerbaRow(id string) bool {
	if !e.editable() {
		return false
	}
	_, loc, ok := e.state.FindVerba(id)
	if !ok {
		return false
	}
	p := e.state.Phase(loc.Phase)
	rows := p.Verba[loc.Department]
	p.Verba[loc.Department] = append(rows[:loc.Index:loc.Index], rows[loc.Index+1:]...)
	e.syncCatering()
	return true
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setAmount(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = domain.NonNegative(*v)
	}
}
