package budget

import (
	"fmt"
	"testing"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

type staticRates map[string]decimal.Decimal

func (s staticRates) Rate(role string) (decimal.Decimal, bool) {
	v, ok := s[role]
	return v, ok
}

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func TestEditor_AddRowKinds(t *testing.T) {
	e := NewEditor(nil, sequentialIDs())

	pid, ok := e.AddRow(domain.PhasePre, domain.DeptArt, domain.KindPeople, RowSeed{ItemName: "Lia"})
	require.True(t, ok)
	lid, ok := e.AddRow(domain.PhasePre, domain.DeptArt, domain.KindLabor, RowSeed{ItemName: "Rui"})
	require.True(t, ok)
	cid, ok := e.AddRow(domain.PhasePre, domain.DeptArt, domain.KindCost, RowSeed{ItemName: "Props"})
	require.True(t, ok)

	rows := e.State().Pre.Rows[domain.DeptArt]
	require.Len(t, rows, 3)
	assert.Equal(t, pid, rows[0].RowID())
	assert.Equal(t, domain.KindPeople, rows[0].Kind())

	lr := rows[1].(*domain.LaborRow)
	assert.Equal(t, lid, lr.ID)
	assert.Equal(t, domain.PayDaily, lr.PayBasis, "labor rows default to daily pay")
	assert.True(t, dec("1").Equal(lr.Quantity))

	cr := rows[2].(*domain.CostRow)
	assert.Equal(t, cid, cr.ID)
	assert.Equal(t, domain.UnitCache, cr.UnitType)

	_, ok = e.AddRow(domain.Phase("bogus"), domain.DeptArt, domain.KindCost, RowSeed{})
	assert.False(t, ok)
	_, ok = e.AddRow(domain.PhasePre, domain.DeptArt, domain.RowKind("bogus"), RowSeed{})
	assert.False(t, ok)
}

func TestEditor_AddRowPrefillsRoleRate(t *testing.T) {
	rates := staticRates{"gaffer": dec("650")}
	e := NewEditor(nil, WithRates(rates))

	id, ok := e.AddRow(domain.PhaseProduction, domain.DeptPhotography, domain.KindLabor, RowSeed{ItemName: "Zé", RoleFunction: "gaffer"})
	require.True(t, ok)
	row, _, _ := e.State().FindRow(id)
	assert.True(t, dec("650").Equal(row.(*domain.LaborRow).UnitCost))

	id, ok = e.AddRow(domain.PhaseProduction, domain.DeptPhotography, domain.KindLabor, RowSeed{RoleFunction: "unknown"})
	require.True(t, ok)
	row, _, _ = e.State().FindRow(id)
	assert.True(t, row.(*domain.LaborRow).UnitCost.IsZero())
}

func TestEditor_UpdateRowClampsNegatives(t *testing.T) {
	e := NewEditor(nil)
	id, _ := e.AddRow(domain.PhasePre, domain.DeptSound, domain.KindLabor, RowSeed{})

	ok := e.UpdateRow(id, RowPatch{
		ItemName:  ptr("Rui"),
		UnitCost:  ptr(dec("-100")),
		ExtraCost: ptr(dec("25")),
		Quantity:  ptr(dec("-2")),
		PayBasis:  ptr(domain.PayWeekly),
	})
	require.True(t, ok)

	row, _, _ := e.State().FindRow(id)
	lr := row.(*domain.LaborRow)
	assert.Equal(t, "Rui", lr.ItemName)
	assert.True(t, lr.UnitCost.IsZero())
	assert.True(t, dec("25").Equal(lr.ExtraCost))
	assert.True(t, lr.Quantity.IsZero())
	assert.Equal(t, domain.PayWeekly, lr.PayBasis)

	assert.False(t, e.UpdateRow("missing", RowPatch{ItemName: ptr("x")}))
}

func TestEditor_RemoveRow(t *testing.T) {
	e := NewEditor(nil)
	a, _ := e.AddRow(domain.PhasePost, domain.DeptPostProduction, domain.KindCost, RowSeed{ItemName: "Edit"})
	b, _ := e.AddRow(domain.PhasePost, domain.DeptPostProduction, domain.KindCost, RowSeed{ItemName: "Color"})

	require.True(t, e.RemoveRow(a))
	rows := e.State().Post.Rows[domain.DeptPostProduction]
	require.Len(t, rows, 1)
	assert.Equal(t, b, rows[0].RowID())
	assert.False(t, e.RemoveRow(a), "second removal finds nothing")
}

func TestEditor_VerbaRows(t *testing.T) {
	e := NewEditor(nil)
	id, ok := e.AddVerbaRow(domain.PhaseProduction, domain.DeptTransport)
	require.True(t, ok)

	require.True(t, e.UpdateVerbaRow(id, VerbaPatch{ItemName: ptr("Fuel"), UnitCost: ptr(dec("150")), Quantity: ptr(dec("4"))}))
	v := e.State().Production.Verba[domain.DeptTransport][0]
	assert.Equal(t, "Fuel", v.ItemName)
	assert.True(t, dec("600").Equal(domain.PriceVerba(v)))

	require.True(t, e.RemoveVerbaRow(id))
	assert.Empty(t, e.State().Production.Verba[domain.DeptTransport])
}

func TestEditor_LockedStageRefusesMutations(t *testing.T) {
	locked := false
	e := NewEditor(nil, WithEditable(func() bool { return !locked }))
	id, ok := e.AddRow(domain.PhasePre, domain.DeptArt, domain.KindCost, RowSeed{ItemName: "Props"})
	require.True(t, ok)
	vid, ok := e.AddVerbaRow(domain.PhasePre, domain.DeptArt)
	require.True(t, ok)

	locked = true
	before := e.GetState()

	_, ok = e.AddRow(domain.PhasePre, domain.DeptArt, domain.KindCost, RowSeed{})
	assert.False(t, ok)
	assert.False(t, e.UpdateRow(id, RowPatch{ItemName: ptr("changed")}))
	assert.False(t, e.RemoveRow(id))
	_, ok = e.AddVerbaRow(domain.PhasePre, domain.DeptArt)
	assert.False(t, ok)
	assert.False(t, e.UpdateVerbaRow(vid, VerbaPatch{ItemName: ptr("x")}))
	assert.False(t, e.RemoveVerbaRow(vid))
	assert.False(t, e.ApplyDays(domain.PhasePre))
	assert.False(t, e.ApplyWeeks(domain.PhasePre))
	assert.False(t, e.ApplyTravelAllowance(domain.PhasePre))
	assert.False(t, e.ApplyCatering(domain.PhasePre))
	assert.False(t, e.SetNotes(domain.PhasePre, "x"))
	assert.False(t, e.SetJobValue(dec("1")))

	assert.Equal(t, before, e.GetState())
}

func TestEditor_ApplyDefaults(t *testing.T) {
	e := NewEditor(nil)
	daily, _ := e.AddRow(domain.PhaseProduction, domain.DeptPhotography, domain.KindLabor, RowSeed{ItemName: "DP", PayBasis: domain.PayDaily})
	weekly, _ := e.AddRow(domain.PhaseProduction, domain.DeptArt, domain.KindLabor, RowSeed{ItemName: "Art director", PayBasis: domain.PayWeekly})
	flat, _ := e.AddRow(domain.PhaseProduction, domain.DeptArt, domain.KindLabor, RowSeed{ItemName: "Designer", PayBasis: domain.PayFlat})

	require.True(t, e.SetDefaults(domain.PhaseProduction, domain.PhaseDefaults{Days: 5, Weeks: 2, TravelAllowance: dec("40")}))

	require.True(t, e.ApplyDays(domain.PhaseProduction))
	require.True(t, e.ApplyWeeks(domain.PhaseProduction))
	require.True(t, e.ApplyTravelAllowance(domain.PhaseProduction))
	once := e.GetState()

	// Idempotent overwrites.
	e.ApplyDays(domain.PhaseProduction)
	e.ApplyWeeks(domain.PhaseProduction)
	e.ApplyTravelAllowance(domain.PhaseProduction)
	assert.Equal(t, once, e.GetState())

	get := func(id string) *domain.LaborRow {
		r, _, ok := e.State().FindRow(id)
		require.True(t, ok)
		return r.(*domain.LaborRow)
	}
	assert.True(t, dec("5").Equal(get(daily).Quantity))
	assert.True(t, dec("2").Equal(get(weekly).Quantity))
	assert.True(t, dec("1").Equal(get(flat).Quantity), "flat rows keep their quantity")
	for _, id := range []string{daily, weekly, flat} {
		assert.True(t, dec("40").Equal(get(id).ExtraCost))
	}
}

func TestEditor_Complementary(t *testing.T) {
	e := NewEditor(nil)
	id, _ := e.AddRow(domain.PhasePre, domain.DeptDirection, domain.KindLabor, RowSeed{ItemName: "Director"})
	cost, _ := e.AddRow(domain.PhasePre, domain.DeptDirection, domain.KindCost, RowSeed{ItemName: "Van"})

	lineID, ok := e.AddComplementary(id, domain.ComplementaryLine{Description: "Scout day", Type: domain.CompScout, Value: dec("300")})
	require.True(t, ok)
	_, ok = e.AddComplementary(cost, domain.ComplementaryLine{Value: dec("1")})
	assert.False(t, ok, "only labor rows own complementary lines")

	require.True(t, e.UpdateComplementary(id, lineID, nil, ptr(dec("350"))))
	row, _, _ := e.State().FindRow(id)
	lr := row.(*domain.LaborRow)
	assert.True(t, dec("350").Equal(lr.ComplementaryTotal()))
	// (0 + 0) * 1 + 350
	assert.True(t, dec("350").Equal(domain.PriceRow(lr)))

	require.True(t, e.RemoveComplementary(id, lineID))
	assert.Empty(t, lr.Complementary)
}

func TestEditor_LoadStateRoundTripIsFixedPoint(t *testing.T) {
	e := NewEditor(nil)
	id, _ := e.AddRow(domain.PhasePre, domain.DeptSound, domain.KindLabor, RowSeed{ItemName: "Rui"})
	e.AddComplementary(id, domain.ComplementaryLine{Type: domain.CompCheck, Value: dec("20")})
	vid, _ := e.AddVerbaRow(domain.PhasePost, domain.DeptGeneral)
	e.UpdateVerbaRow(vid, VerbaPatch{ItemName: ptr("Courier"), UnitCost: ptr(dec("12.30"))})
	e.SetNotes(domain.PhasePost, "deliver masters")
	e.SetJobValue(dec("120000"))
	e.SetTaxRate(dec("16.33"))

	state := e.GetState()
	other := NewEditor(nil)
	other.LoadState(state)
	assert.Equal(t, state, other.GetState())

	other.LoadState(other.GetState())
	assert.Equal(t, state, other.GetState())

	// Mutating the loaded editor does not reach the state it was loaded from.
	other.SetNotes(domain.PhasePost, "changed")
	assert.Equal(t, "deliver masters", state.Post.Notes)
}
