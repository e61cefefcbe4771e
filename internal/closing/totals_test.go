package closing

import (
	"testing"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepartmentTotals_ExcludeVerba(t *testing.T) {
	lines := Flatten(finalStage())
	book := domain.ClosingBook{Lines: lines}
	require.True(t, SetPayStatus(&book, "props", domain.PayPaid))
	AddExtra(&book, ExtraSeed{Department: domain.DeptArt, ItemName: "Paint", UnitCost: d("40"), Quantity: d("2")})

	totals := DepartmentTotals(book.Lines, Bonus{})
	depts := make([]domain.Department, len(totals))
	for i, tt := range totals {
		depts[i] = tt.Department
	}
	assert.Equal(t, []domain.Department{domain.DeptDirection, domain.DeptPhotography, domain.DeptArt}, depts)

	art := totals[2]
	assert.True(t, d("200").Equal(art.Final), "extras are not part of the Final value")
	assert.True(t, d("280").Equal(art.Payable))
	assert.True(t, d("200").Equal(art.Paid))
	assert.True(t, d("80").Equal(art.Pending))
}

func TestTotals_IncludeVerbaAndBonus(t *testing.T) {
	lines := Flatten(finalStage())
	// props 200 + dir 10000 + dp 800 (one diary day) + intern 0 + fuel 600
	plain := Totals(lines, Bonus{})
	assert.True(t, d("11600").Equal(plain.Payable), "got %s", plain.Payable)
	assert.True(t, plain.Paid.IsZero())

	withBonus := Totals(lines, Bonus{LineID: "dp", Amount: d("300")})
	assert.True(t, d("11900").Equal(withBonus.Payable))
	assert.True(t, d("11900").Equal(withBonus.Pending))

	var dp domain.ClosingLine
	for _, l := range lines {
		if l.ID == "dp" {
			dp = l
		}
	}
	assert.True(t, d("1100").Equal(LinePayable(dp, Bonus{LineID: "dp", Amount: d("300")})))
	assert.True(t, d("800").Equal(LinePayable(dp, Bonus{LineID: "other", Amount: d("300")})))
}

func TestExpenseTotals(t *testing.T) {
	var book domain.ClosingBook
	SetExpenseCap(&book, domain.DeptTransport, d("500"))
	SetExpenseCap(&book, domain.DeptCatering, decimal.Zero)

	a := AddExpense(&book, ExpenseSeed{Department: domain.DeptTransport, Name: "Taxi", Value: d("320")})
	AddExpense(&book, ExpenseSeed{Department: domain.DeptTransport, Name: "Fuel", Value: d("250")})
	AddExpense(&book, ExpenseSeed{Department: domain.DeptArt, Name: "Glue", Value: d("-10")})
	require.True(t, SetExpensePayStatus(&book, a, domain.PayPaid))

	totals := ExpenseTotals(book)
	require.Len(t, totals, 3)
	assert.Equal(t, domain.DeptArt, totals[0].Department)
	assert.True(t, totals[0].Payable.IsZero(), "negative values are clamped")
	assert.False(t, totals[0].HasCap)

	assert.Equal(t, domain.DeptCatering, totals[1].Department)
	assert.True(t, totals[1].Payable.IsZero())
	assert.False(t, totals[1].HasCap, "a zero cap means no cap")

	tr := totals[2]
	assert.Equal(t, domain.DeptTransport, tr.Department)
	assert.True(t, d("570").Equal(tr.Payable))
	assert.True(t, d("320").Equal(tr.Paid))
	assert.True(t, d("250").Equal(tr.Pending))
	assert.True(t, tr.OverCap())

	require.True(t, RemoveExpense(&book, a))
	assert.False(t, RemoveExpense(&book, a))
	assert.False(t, ExpenseTotals(book)[2].OverCap())
}

func TestRemoveExtra_OnlyAdHoc(t *testing.T) {
	book := domain.ClosingBook{Lines: Flatten(finalStage())}
	id := AddExtra(&book, ExtraSeed{Department: domain.DeptArt, ItemName: "Paint"})

	assert.False(t, RemoveExtra(&book, "props"))
	assert.True(t, RemoveExtra(&book, id))
	_, ok := book.FindLine(id)
	assert.False(t, ok)
}
