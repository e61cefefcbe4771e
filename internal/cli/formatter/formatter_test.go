package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/claquete/internal/closing"
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/savings"
	"github.com/alexanderramin/claquete/internal/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"5", "5.00"},
		{"999.999", "1,000.00"},
		{"1234.5", "1,234.50"},
		{"123456", "123,456.00"},
		{"1234567.891", "1,234,567.89"},
		{"-800", "-800.00"},
		{"-12345.6", "-12,345.60"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestTable_AlignsColumns(t *testing.T) {
	tbl := Table{
		Headers: []string{"ITEM", "TOTAL"},
		Rows:    [][]string{{"Camera", "1,000.00"}, {"Fuel", "50.00"}},
		Footer:  []string{"Total", "1,050.00"},
		Right:   map[int]bool{1: true},
	}
	lines := strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
	require.Len(t, lines, 6)

	width := lipgloss.Width(lines[2])
	for _, l := range lines {
		assert.Equal(t, width, lipgloss.Width(l), "line %q", l)
	}
	assert.True(t, strings.HasSuffix(lines[3], "   50.00"), "money is right-aligned: %q", lines[3])
	assert.Empty(t, Table{}.Render())
}

func TestFormatStage_ShowsRowsAndSummary(t *testing.T) {
	s := domain.NewStageBudget()
	s.JobValue = decimal.NewFromInt(10000)
	s.Production.Rows[domain.DeptPhotography] = []domain.Row{
		&domain.LaborRow{ID: "dp", ItemName: "Ana", RoleFunction: "DoP", PayBasis: domain.PayDaily,
			UnitCost: decimal.NewFromInt(800), Quantity: decimal.NewFromInt(2)},
	}
	s.Production.Verba[domain.DeptTransport] = []domain.VerbaRow{
		{ID: "fuel", ItemName: "Fuel", UnitCost: decimal.NewFromInt(50), Quantity: decimal.NewFromInt(2)},
	}

	out := FormatStage(domain.StageInitial, s, domain.StatusOpen)
	assert.Contains(t, out, "INITIAL ESTIMATE")
	assert.Contains(t, out, "Production")
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "1,600.00")
	assert.Contains(t, out, "Fuel")
	assert.Contains(t, out, "8,300.00", "result is job value minus total")

	assert.Contains(t, FormatStage(domain.StageFinal, nil, domain.StatusOpen), "Not started")
}

func TestFormatProjectShow_NeverLoadedFinal(t *testing.T) {
	p := &domain.Project{ID: "p1", JobID: "JOB-1", Name: "Spot", Status: domain.NewProjectStatus(), Initial: domain.NewStageBudget()}
	out := FormatProjectShow(p)
	assert.Contains(t, out, "JOB-1")
	assert.Contains(t, out, "initial open")
	assert.Contains(t, out, "--")
}

func TestFormatClosing(t *testing.T) {
	line := domain.ClosingLine{ID: "dp", Department: domain.DeptPhotography, ItemName: "Ana", IsLabor: true,
		PayBasis: domain.PayDaily, FinalUnitCost: decimal.NewFromInt(800), FinalQuantity: decimal.NewFromInt(1),
		PayStatus: domain.PayPaid, InvoiceNumber: "NF-1"}
	report := &service.ClosingReport{
		Lines: []service.ClosingLineView{{
			ClosingLine: line,
			FinalValue:  decimal.NewFromInt(800),
			Overtime:    decimal.Zero,
			Payable:     decimal.NewFromInt(840),
		}},
		Departments: closing.DepartmentTotals([]domain.ClosingLine{line}, closing.Bonus{}),
		Totals:      closing.Totals([]domain.ClosingLine{line}, closing.Bonus{}),
		Savings:     &savings.Result{Payout: decimal.NewFromInt(40), ResponsibleLineID: "dp"},
	}
	out := FormatClosing(report, domain.StatusOpen)
	assert.Contains(t, out, "NF-1")
	assert.Contains(t, out, "840.00")
	assert.Contains(t, out, "paid")
	assert.Contains(t, out, "savings bonus")

	empty := FormatClosing(&service.ClosingReport{}, domain.StatusOpen)
	assert.Contains(t, empty, "No closing lines")
}

func TestFormatExpenses_FlagsOverCap(t *testing.T) {
	book := domain.ClosingBook{}
	closing.AddExpense(&book, closing.ExpenseSeed{Department: domain.DeptArt, Name: "Paint", Value: decimal.NewFromInt(120)})
	closing.SetExpenseCap(&book, domain.DeptArt, decimal.NewFromInt(100))

	out := FormatExpenses(book.Expenses, closing.ExpenseTotals(book))
	assert.Contains(t, out, "Paint")
	assert.Contains(t, out, "120.00 ▲")
	assert.Contains(t, out, "100.00")
}

func TestFormatSavings(t *testing.T) {
	assert.Contains(t, FormatSavings(nil), "No savings configured")

	res := savings.Result{
		Items:        []savings.Item{{Key: "cost:equipment", Initial: decimal.NewFromInt(1000), Final: decimal.NewFromInt(600), Economy: decimal.NewFromInt(400)}},
		TotalEconomy: decimal.NewFromInt(400),
		Percent:      decimal.NewFromInt(10),
		Payout:       decimal.NewFromInt(40),
	}
	out := FormatSavings(&res)
	assert.Contains(t, out, "cost:equipment")
	assert.Contains(t, out, "10%")
	assert.Contains(t, out, "40.00")
	assert.Equal(t, "cost:art\nverba:art\n", FormatCatalog([]string{"cost:art", "verba:art"}))
}
