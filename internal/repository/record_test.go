package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRecord() ProjectRecord {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Format(time.RFC3339)
	return ProjectRecord{ID: "p", JobID: "JOB-1", Name: "n", CreatedAt: now, UpdatedAt: now, JobValue: "0", TaxRate: "0", JobValueFinal: "0", TaxRateFinal: "0"}
}

func TestDecodeProject_ClampsStoredValues(t *testing.T) {
	rec := baseRecord()
	rec.StatusInitial = "weird"
	rec.BudgetLinesInitial = sql.NullString{Valid: true, String: `{"pre":{"art":[
		{"type":"cost","id":"a","item_name":"Props","unit_type":"bogus","unit_cost":"-5","quantity":"2"},
		{"type":"labor","id":"b","item_name":"Ana","pay_basis":"hourly","unit_cost":"100","extra_cost":"-1","quantity":"1",
		 "complementary_lines":[{"id":"c","line_type":"nap","value":"-3"}]}
	]}}`}
	rec.ClosingLines = sql.NullString{Valid: true, String: `[[{"id":"l","pay_status":"maybe"}],[],null,null]`}

	p, err := DecodeProject(rec)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, p.Status.Initial)

	rows := p.Initial.Pre.Rows[domain.DeptArt]
	require.Len(t, rows, 2)
	cost := rows[0].(*domain.CostRow)
	assert.Equal(t, domain.UnitCache, cost.UnitType)
	assert.True(t, cost.UnitCost.IsZero())
	assert.Equal(t, domain.CateringDerived, cost.Catering)

	labor := rows[1].(*domain.LaborRow)
	assert.Equal(t, domain.PayDaily, labor.PayBasis)
	assert.True(t, labor.ExtraCost.IsZero())
	require.Len(t, labor.Complementary, 1)
	assert.Equal(t, domain.CompOther, labor.Complementary[0].Type)
	assert.True(t, labor.Complementary[0].Value.IsZero())

	require.Len(t, p.Closing.Lines, 1)
	assert.Equal(t, domain.PayPending, p.Closing.Lines[0].PayStatus)
	assert.Nil(t, p.Final)
}

func TestDecodeProject_UnknownRowType(t *testing.T) {
	rec := baseRecord()
	rec.BudgetLinesInitial = sql.NullString{Valid: true, String: `{"pre":{"art":[{"type":"robot","id":"x"}]}}`}
	_, err := DecodeProject(rec)
	assert.ErrorContains(t, err, "robot")
}

func TestDecodeProject_ShortClosingTuple(t *testing.T) {
	rec := baseRecord()
	rec.ClosingLines = sql.NullString{Valid: true, String: `[[]]`}
	p, err := DecodeProject(rec)
	require.NoError(t, err)
	assert.Nil(t, p.Closing.Saving)
	assert.Nil(t, p.Closing.ExpenseDepartments)
}

func TestEncodeProject_EmptyProjectHasNullStages(t *testing.T) {
	p := &domain.Project{ID: "p", JobID: "JOB-1"}
	rec, err := EncodeProject(p)
	require.NoError(t, err)
	assert.False(t, rec.BudgetLinesInitial.Valid)
	assert.False(t, rec.BudgetLinesFinal.Valid)
	assert.False(t, rec.SnapshotInitial.Valid)
	assert.Equal(t, "open", rec.StatusClosing)
	assert.Equal(t, "0", rec.JobValue)
}

func TestBookVersion(t *testing.T) {
	p := &domain.Project{ID: "p", JobID: "JOB-1", Status: domain.NewProjectStatus(), Initial: domain.NewStageBudget()}
	base, err := BookVersion(p)
	require.NoError(t, err)

	p.Name = "Renamed"
	p.Initial.Pre.Notes = "rows and header are not part of the book"
	same, err := BookVersion(p)
	require.NoError(t, err)
	assert.Equal(t, base, same)

	p.Status.Initial = domain.StatusLocked
	locked, err := BookVersion(p)
	require.NoError(t, err)
	assert.NotEqual(t, base, locked)

	p.Closing.Lines = []domain.ClosingLine{{ID: "L1"}}
	withLines, err := BookVersion(p)
	require.NoError(t, err)
	assert.NotEqual(t, locked, withLines)
}
