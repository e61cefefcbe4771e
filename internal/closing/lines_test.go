package closing

import (
	"testing"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func laborLine(basis domain.PayBasis, unit string) domain.ClosingLine {
	return domain.ClosingLine{
		ID:             "l1",
		SourceRowID:    "l1",
		Department:     domain.DeptPhotography,
		IsLabor:        true,
		PayBasis:       basis,
		FinalUnitCost:  d(unit),
		FinalExtraCost: decimal.Zero,
		FinalQuantity:  d("1"),
		PayStatus:      domain.PayPending,
	}
}

func entry(hours, pct, overtime string) domain.DiaryEntry {
	return domain.DiaryEntry{DailyHours: d(hours), AdditionalPercent: d(pct), OvertimeHours: d(overtime)}
}

func finalStage() *domain.StageBudget {
	s := domain.NewStageBudget()
	s.Pre.Rows[domain.DeptArt] = []domain.Row{
		&domain.CostRow{ID: "props", ItemName: "Props", UnitCost: d("100"), Quantity: d("2")},
		&domain.CostRow{ID: "blank"},
	}
	s.Production.Rows[domain.DeptPhotography] = []domain.Row{
		&domain.LaborRow{
			ID: "dp", ItemName: "Ana", RoleFunction: "DP", PayBasis: domain.PayDaily,
			UnitCost: d("800"), ExtraCost: d("50"), Quantity: d("3"),
			Complementary: []domain.ComplementaryLine{{ID: "c", Type: domain.CompScout, Value: d("100")}},
		},
		&domain.PeopleRow{ID: "intern", ItemName: "Intern"},
	}
	s.Production.Rows[domain.DeptDirection] = []domain.Row{
		&domain.LaborRow{ID: "dir", ItemName: "Rui", PayBasis: domain.PayWeekly, UnitCost: d("5000"), Quantity: d("2")},
	}
	s.Production.Verba[domain.DeptTransport] = []domain.VerbaRow{
		{ID: "fuel", ItemName: "Fuel", UnitCost: d("200"), Quantity: d("3")},
		{ID: "empty"},
	}
	return s
}

func TestFlatten(t *testing.T) {
	lines := Flatten(finalStage())
	require.Len(t, lines, 5)

	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}
	// Phase order, then catalog order: direction before photography before transport.
	assert.Equal(t, []string{"props", "dir", "dp", "intern", "fuel"}, ids)

	dp := lines[2]
	assert.True(t, dp.IsLabor)
	assert.Equal(t, "dp", dp.SourceRowID)
	assert.Equal(t, domain.PhaseProduction, dp.Phase)
	assert.True(t, d("100").Equal(dp.ComplementaryTotal))
	assert.True(t, d("2650").Equal(FinalValue(dp)), "got %s", FinalValue(dp))
	assert.Equal(t, domain.PayPending, dp.PayStatus)

	fuel := lines[4]
	assert.True(t, fuel.IsVerba)
	assert.False(t, fuel.IsLabor)
	assert.True(t, d("600").Equal(FinalValue(fuel)))

	assert.Nil(t, Flatten(nil))
}

func TestOvertime_DailyExample(t *testing.T) {
	l := laborLine(domain.PayDaily, "800")
	l.Diary = []domain.DiaryEntry{entry("8", "0", "2")}

	assert.True(t, d("200").Equal(OvertimeAmount(l)), "got %s", OvertimeAmount(l))
	assert.True(t, d("1000").Equal(TotalPayable(l)), "got %s", TotalPayable(l))
}

func TestOvertime(t *testing.T) {
	tests := []struct {
		name  string
		basis domain.PayBasis
		unit  string
		diary []domain.DiaryEntry
		want  string
	}{
		{"no diary means no overtime", domain.PayDaily, "800", nil, "0"},
		{"additional percent", domain.PayDaily, "800", []domain.DiaryEntry{entry("8", "50", "2")}, "300"},
		{"zero hours guarded", domain.PayDaily, "800", []domain.DiaryEntry{entry("0", "0", "4")}, "0"},
		{"weekly uses a fifth", domain.PayWeekly, "5000", []domain.DiaryEntry{entry("10", "0", "1"), entry("10", "100", "1")}, "300"},
		{"flat uses unit cost", domain.PayFlat, "400", []domain.DiaryEntry{entry("8", "0", "1")}, "50"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := laborLine(tc.basis, tc.unit)
			l.Diary = tc.diary
			got := OvertimeAmount(l)
			assert.True(t, d(tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestOvertime_NonLaborIsZero(t *testing.T) {
	l := domain.ClosingLine{FinalUnitCost: d("800"), FinalQuantity: d("1"), Diary: []domain.DiaryEntry{entry("8", "0", "2")}}
	assert.True(t, OvertimeAmount(l).IsZero())
	assert.True(t, d("800").Equal(TotalPayable(l)))
}

func TestTotalPayable_DailyPaidPerDiaryDay(t *testing.T) {
	l := laborLine(domain.PayDaily, "800")
	l.FinalQuantity = d("5")
	l.Diary = []domain.DiaryEntry{entry("8", "0", "0"), entry("8", "0", "0"), entry("8", "0", "1")}

	// 800 * 3 days + 100 overtime, the Final quantity of 5 is ignored
	assert.True(t, d("2500").Equal(TotalPayable(l)), "got %s", TotalPayable(l))
}

func TestTotalPayable_WeeklyUsesFinalValue(t *testing.T) {
	l := laborLine(domain.PayWeekly, "5000")
	l.FinalQuantity = d("2")
	assert.True(t, d("10000").Equal(TotalPayable(l)))
}

func TestReferenceDailyRate(t *testing.T) {
	assert.True(t, d("1000").Equal(ReferenceDailyRate(laborLine(domain.PayWeekly, "5000"))))
	assert.True(t, d("800").Equal(ReferenceDailyRate(laborLine(domain.PayDaily, "800"))))

	flat := laborLine(domain.PayFlat, "900")
	flat.Diary = []domain.DiaryEntry{entry("8", "0", "0"), entry("8", "0", "0"), entry("8", "0", "0")}
	assert.True(t, d("300").Equal(ReferenceDailyRate(flat)))

	cost := domain.ClosingLine{FinalUnitCost: d("50"), FinalQuantity: d("4")}
	assert.True(t, d("200").Equal(ReferenceDailyRate(cost)), "one implicit day")
}

func TestReconcile_KeepsAnnotationsAndExtras(t *testing.T) {
	final := finalStage()
	lines := Flatten(final)
	book := domain.ClosingBook{Lines: lines}

	require.True(t, SetPayStatus(&book, "dp", domain.PayPaid))
	require.True(t, SetInvoice(&book, "dp", " NF-77 "))
	dp, _ := book.FindLine("dp")
	require.True(t, AddDiaryEntry(dp))
	require.True(t, SetPayStatus(&book, "props", domain.PayPaid))
	extra := AddExtra(&book, ExtraSeed{Department: domain.DeptArt, ItemName: "Paint", UnitCost: d("40"), Quantity: d("2"), ParentLineID: "props"})

	// Final is reopened, props removed, a new row added, then relocked.
	final.Pre.Rows[domain.DeptArt] = nil
	final.Post.Rows[domain.DeptPostProduction] = []domain.Row{
		&domain.CostRow{ID: "edit", ItemName: "Edit suite", UnitCost: d("3000"), Quantity: d("1")},
	}

	got := Reconcile(book.Lines, final)
	byID := make(map[string]domain.ClosingLine, len(got))
	for _, l := range got {
		byID[l.ID] = l
	}

	assert.NotContains(t, byID, "props")
	assert.Contains(t, byID, "edit")
	require.Contains(t, byID, extra)
	assert.True(t, byID[extra].IsExtraAdHoc)
	assert.Equal(t, extra, got[len(got)-1].ID, "extras follow derived lines")

	kept := byID["dp"]
	assert.Equal(t, domain.PayPaid, kept.PayStatus)
	assert.Equal(t, "NF-77", kept.InvoiceNumber)
	assert.Len(t, kept.Diary, 2)

	// The regenerated diary does not alias the previous one.
	kept.Diary[0].OvertimeHours = d("9")
	assert.True(t, dp.Diary[0].OvertimeHours.IsZero())
}
