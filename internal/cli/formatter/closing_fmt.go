package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/claquete/internal/closing"
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/service"
	"github.com/shopspring/decimal"
)

// FormatClosing renders the closing lines, the department cards and the
// overall paid/pending split.
func FormatClosing(r *service.ClosingReport, status domain.StageStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", Header("Closing"), StagePill(domain.StageClosing, status))
	if len(r.Lines) == 0 {
		b.WriteString(Dim("No closing lines. Lock the final estimate first."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		rows = append(rows, closingCells(l))
	}
	t := Table{
		Headers: []string{"ID", "DEPT", "ITEM", "DAYS", "FINAL", "OVERTIME", "PAYABLE", "INVOICE", "STATUS"},
		Rows:    rows,
		Right:   map[int]bool{3: true, 4: true, 5: true, 6: true},
	}
	b.WriteString(t.Render())
	b.WriteString("\n")

	var cards [][]string
	for _, d := range r.Departments {
		cards = append(cards, []string{string(d.Department), Money(d.Final), Money(d.Payable), Money(d.Paid), Money(d.Pending)})
	}
	dt := Table{
		Headers: []string{"DEPARTMENT", "FINAL", "PAYABLE", "PAID", "PENDING"},
		Rows:    cards,
		Footer:  []string{"Total", "", Money(r.Totals.Payable), Money(r.Totals.Paid), Money(r.Totals.Pending)},
		Right:   map[int]bool{1: true, 2: true, 3: true, 4: true},
	}
	b.WriteString(dt.Render())

	if r.Savings != nil && r.Savings.ResponsibleLineID != "" && r.Savings.Payout.IsPositive() {
		fmt.Fprintf(&b, "\n%s %s %s %s\n", Dim("savings bonus"), StyleGreen.Render(Money(r.Savings.Payout)),
			Dim("credited to"), TruncID(r.Savings.ResponsibleLineID))
	}
	return b.String()
}

func closingCells(l service.ClosingLineView) []string {
	name := OrDash(l.ItemName)
	switch {
	case l.IsExtraAdHoc:
		name = StylePurple.Render("+ ") + name
	case l.IsVerba:
		name += Dim(" (verba)")
	}
	if l.RoleFunction != "" {
		name += Dim(" · " + l.RoleFunction)
	}
	days := Dim("--")
	if l.IsLabor {
		days = fmt.Sprintf("%d", len(closing.Entries(l.ClosingLine)))
	}
	overtime := Dim("--")
	if l.Overtime.IsPositive() {
		overtime = StyleYellow.Render(Money(l.Overtime))
	}
	return []string{
		TruncID(l.ID),
		string(l.Department),
		name,
		days,
		Money(l.FinalValue),
		overtime,
		Bold(Money(l.Payable)),
		OrDash(l.InvoiceNumber),
		PayPill(l.PayStatus),
	}
}

// FormatDiary renders the day-by-day diary of one labor line.
func FormatDiary(l service.ClosingLineView) string {
	entries := closing.Entries(l.ClosingLine)
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			Quantity(e.DailyHours),
			Percent(e.AdditionalPercent),
			Quantity(e.OvertimeHours),
		})
	}
	t := Table{
		Headers: []string{"DAY", "HOURS", "ADDITIONAL", "OVERTIME H"},
		Rows:    rows,
		Right:   map[int]bool{0: true, 1: true, 2: true, 3: true},
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s %s\n", Bold(OrDash(l.ItemName)), Dim(string(l.PayBasis)),
		Dim("daily ref"), Money(l.ReferenceDaily))
	b.WriteString(t.Render())
	fmt.Fprintf(&b, "%s %s  %s %s\n", Dim("overtime"), Money(l.Overtime), Dim("payable"), Bold(Money(l.Payable)))
	return b.String()
}

// FormatExpenses renders the accounting entries and the per-department caps.
func FormatExpenses(expenses []domain.ExpenseLine, totals []closing.ExpenseTotal) string {
	var b strings.Builder
	b.WriteString(Header("Expenses"))
	b.WriteString("\n")
	if len(expenses) == 0 {
		b.WriteString(Dim("No expenses recorded."))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(expenses))
		for _, e := range expenses {
			date := Dim("--")
			if e.Date != nil {
				date = e.Date.Format("2006-01-02")
			}
			rows = append(rows, []string{
				TruncID(e.ID), string(e.Department), OrDash(e.Name), OrDash(e.Supplier),
				date, Money(e.Value), OrDash(e.InvoiceNumber), PayPill(e.PayStatus),
			})
		}
		t := Table{
			Headers: []string{"ID", "DEPT", "NAME", "SUPPLIER", "DATE", "VALUE", "INVOICE", "STATUS"},
			Rows:    rows,
			Footer:  []string{"", "", "Total", "", "", Money(sumExpenses(expenses)), "", ""},
			Right:   map[int]bool{5: true},
		}
		b.WriteString(t.Render())
	}

	if len(totals) == 0 {
		return b.String()
	}
	b.WriteString("\n")
	rows := make([][]string, 0, len(totals))
	for _, et := range totals {
		limit := Dim("--")
		spent := Money(et.Payable)
		if et.HasCap {
			limit = Money(et.Cap)
			if et.OverCap() {
				spent = StyleRed.Render(spent + " ▲")
			}
		}
		rows = append(rows, []string{string(et.Department), spent, Money(et.Paid), Money(et.Pending), limit})
	}
	t := Table{
		Headers: []string{"DEPARTMENT", "SPENT", "PAID", "PENDING", "CAP"},
		Rows:    rows,
		Right:   map[int]bool{1: true, 2: true, 3: true, 4: true},
	}
	b.WriteString(t.Render())
	return b.String()
}

// sumExpenses is the total of all entries regardless of status.
func sumExpenses(expenses []domain.ExpenseLine) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Value)
	}
	return total
}
