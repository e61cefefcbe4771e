package lifecycle

import (
	"testing"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject() *domain.Project {
	p := &domain.Project{ID: "p1", JobID: "JOB-1", Status: domain.NewProjectStatus(), Initial: domain.NewStageBudget()}
	p.Initial.Pre.Rows[domain.DeptArt] = []domain.Row{
		&domain.CostRow{ID: "props", ItemName: "Props", UnitCost: decimal.NewFromInt(100), Quantity: decimal.NewFromInt(2)},
	}
	return p
}

func status(i, f, c domain.StageStatus) domain.ProjectStatus {
	return domain.ProjectStatus{Initial: i, Final: f, Closing: c}
}

const (
	open   = domain.StatusOpen
	locked = domain.StatusLocked
)

func TestLockInitial_SnapshotsAndSeedsFinal(t *testing.T) {
	p := newProject()

	out := Apply(p, LockInitial)
	require.True(t, out.Applied)
	assert.Equal(t, status(locked, open, open), p.Status)
	require.NotNil(t, p.Snapshots.Initial)
	require.NotNil(t, p.Final)
	assert.Equal(t, p.Initial, p.Snapshots.Initial)
	assert.Equal(t, p.Initial, p.Final)
}

func TestLockInitial_SnapshotIsolation(t *testing.T) {
	p := newProject()
	require.True(t, Apply(p, LockInitial).Applied)

	p.Initial.Pre.Rows[domain.DeptArt][0].(*domain.CostRow).ItemName = "mutated"
	p.Final.Pre.Rows[domain.DeptArt][0].(*domain.CostRow).UnitCost = decimal.NewFromInt(1)

	snap := p.Snapshots.Initial.Pre.Rows[domain.DeptArt][0].(*domain.CostRow)
	assert.Equal(t, "Props", snap.ItemName)
	assert.True(t, decimal.NewFromInt(100).Equal(snap.UnitCost))
}

func TestLockInitial_Idempotent(t *testing.T) {
	p := newProject()
	require.True(t, Apply(p, LockInitial).Applied)
	before := p.Clone()

	out := Apply(p, LockInitial)
	assert.False(t, out.Applied)
	assert.NotEmpty(t, out.Reason)
	assert.Equal(t, before, p)
}

func TestLockInitial_KeepsExistingFinal(t *testing.T) {
	p := newProject()
	require.True(t, Apply(p, LockInitial).Applied)
	p.Final.Pre.Notes = "final work"

	require.True(t, Apply(p, ReopenInitial).Applied)
	require.True(t, Apply(p, LockInitial).Applied)
	assert.Equal(t, "final work", p.Final.Pre.Notes, "relocking Initial does not reseed Final")
}

func TestReopenInitial_Cascades(t *testing.T) {
	tests := []domain.ProjectStatus{
		status(locked, open, open),
		status(locked, locked, open),
		status(locked, locked, locked),
		status(locked, open, locked),
	}
	for _, st := range tests {
		p := newProject()
		p.Status = st
		require.True(t, Apply(p, ReopenInitial).Applied)
		assert.Equal(t, status(open, open, open), p.Status)
		require.NotNil(t, p.Initial, "data is kept")
	}
}

func TestLockFinal_RequiresLockedInitial(t *testing.T) {
	p := newProject()
	out := Apply(p, LockFinal)
	assert.False(t, out.Applied)
	assert.Contains(t, out.Reason, "initial")
	assert.Equal(t, status(open, open, open), p.Status)
	assert.Nil(t, p.Snapshots.Final)
}

func TestLockFinal_GeneratesClosing(t *testing.T) {
	p := newProject()
	require.True(t, Apply(p, LockInitial).Applied)
	p.Final.Production.Verba[domain.DeptTransport] = []domain.VerbaRow{
		{ID: "fuel", ItemName: "Fuel", UnitCost: decimal.NewFromInt(50), Quantity: decimal.NewFromInt(2)},
	}

	require.True(t, Apply(p, LockFinal).Applied)
	assert.Equal(t, status(locked, locked, open), p.Status)
	require.NotNil(t, p.Snapshots.Final)
	require.Len(t, p.Closing.Lines, 2)
	assert.Equal(t, "props", p.Closing.Lines[0].SourceRowID)
	assert.True(t, p.Closing.Lines[1].IsVerba)

	// Snapshot is frozen against later edits of the live Final.
	p.Final.Production.Verba[domain.DeptTransport][0].ItemName = "changed"
	assert.Equal(t, "Fuel", p.Snapshots.Final.Production.Verba[domain.DeptTransport][0].ItemName)
}

func TestLockFinal_RelockPreservesAnnotations(t *testing.T) {
	p := newProject()
	require.True(t, Apply(p, LockInitial).Applied)
	require.True(t, Apply(p, LockFinal).Applied)
	p.Closing.Lines[0].PayStatus = domain.PayPaid

	require.True(t, Apply(p, ReopenFinal).Applied)
	assert.Equal(t, status(locked, open, open), p.Status)
	require.True(t, Apply(p, LockFinal).Applied)

	require.Len(t, p.Closing.Lines, 1)
	assert.Equal(t, domain.PayPaid, p.Closing.Lines[0].PayStatus)
}

func TestReopenFinal_LeavesInitial(t *testing.T) {
	p := newProject()
	p.Status = status(locked, locked, locked)
	require.True(t, Apply(p, ReopenFinal).Applied)
	assert.Equal(t, status(locked, open, open), p.Status)

	out := Apply(p, ReopenFinal)
	assert.False(t, out.Applied)
}

func TestToggleClosing_NoCascade(t *testing.T) {
	p := newProject()
	p.Status = status(locked, locked, open)

	require.True(t, Apply(p, ToggleClosing).Applied)
	assert.Equal(t, status(locked, locked, locked), p.Status)
	access := domain.Access(p.Status)
	assert.True(t, access.Frozen)
	assert.False(t, access.Editable(domain.StageInitial))

	require.True(t, Apply(p, ToggleClosing).Applied)
	assert.Equal(t, status(locked, locked, open), p.Status)
}

func TestToggle(t *testing.T) {
	p := newProject()

	out, err := Toggle(p, domain.StageInitial)
	require.NoError(t, err)
	assert.Equal(t, LockInitial, out.Action)
	assert.True(t, out.Applied)

	out, err = Toggle(p, domain.StageInitial)
	require.NoError(t, err)
	assert.Equal(t, ReopenInitial, out.Action)

	out, err = Toggle(p, domain.StageFinal)
	require.NoError(t, err)
	assert.Equal(t, LockFinal, out.Action)
	assert.False(t, out.Applied, "initial was reopened")

	_, err = Toggle(p, domain.Stage("wrap"))
	assert.Error(t, err)
}

func TestApply_UnknownAction(t *testing.T) {
	p := newProject()
	out := Apply(p, Action("explode"))
	assert.False(t, out.Applied)
	assert.Contains(t, out.Reason, "explode")
}
