package formatter

import "github.com/alexanderramin/claquete/internal/repository"

// FormatRates renders the role rate table.
func FormatRates(rates []repository.RoleRate) string {
	if len(rates) == 0 {
		return Dim("No role rates.") + "\n"
	}
	rows := make([][]string, 0, len(rates))
	for _, r := range rates {
		rows = append(rows, []string{r.Role, Money(r.Rate)})
	}
	t := Table{Headers: []string{"ROLE", "DAILY RATE"}, Rows: rows, Right: map[int]bool{1: true}}
	return t.Render()
}
