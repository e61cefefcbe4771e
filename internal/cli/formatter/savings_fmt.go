package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/claquete/internal/savings"
)

// FormatSavings renders the per-item economy and the payout.
func FormatSavings(r *savings.Result) string {
	if r == nil {
		return Dim("No savings configured. Use 'claquete savings set'.") + "\n"
	}
	rows := make([][]string, 0, len(r.Items))
	for _, it := range r.Items {
		rows = append(rows, []string{it.Key, Money(it.Initial), Money(it.Final), SignedMoney(it.Economy)})
	}
	t := Table{
		Headers: []string{"ITEM", "INITIAL", "FINAL", "ECONOMY"},
		Rows:    rows,
		Footer:  []string{"Total", "", "", Money(r.TotalEconomy)},
		Right:   map[int]bool{1: true, 2: true, 3: true},
	}
	var b strings.Builder
	b.WriteString(Header("Savings"))
	b.WriteString("\n")
	b.WriteString(t.Render())
	fmt.Fprintf(&b, "%s %s  %s %s", Dim("percent"), Percent(r.Percent), Dim("payout"), Bold(Money(r.Payout)))
	if r.ResponsibleLineID != "" {
		fmt.Fprintf(&b, "  %s %s", Dim("to"), TruncID(r.ResponsibleLineID))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatCatalog lists the item keys that can be selected for savings.
func FormatCatalog(keys []string) string {
	if len(keys) == 0 {
		return Dim("No items. Lock the initial and final estimates first.") + "\n"
	}
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString("\n")
	}
	return b.String()
}
