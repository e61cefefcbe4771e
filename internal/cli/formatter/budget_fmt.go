package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/claquete/internal/domain"
)

var phaseTitles = map[domain.Phase]string{
	domain.PhasePre:        "Pre-production",
	domain.PhaseProduction: "Production",
	domain.PhasePost:       "Post-production",
}

// PhaseTitle is the display name of a phase.
func PhaseTitle(p domain.Phase) string {
	if t, ok := phaseTitles[p]; ok {
		return t
	}
	return string(p)
}

// FormatStage renders every phase of an estimate: its rows, verba rows,
// defaults and totals, followed by the stage summary.
func FormatStage(stage domain.Stage, s *domain.StageBudget, status domain.StageStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", Header(string(stage)+" estimate"), StagePill(stage, status))
	if s == nil {
		b.WriteString(Dim("Not started."))
		b.WriteString("\n")
		return b.String()
	}
	for _, ph := range domain.Phases {
		b.WriteString(formatPhase(ph, s.Phase(ph)))
		b.WriteString("\n")
	}
	b.WriteString(formatStageSummary(domain.Summarize(s)))
	return b.String()
}

func formatPhase(ph domain.Phase, p *domain.PhaseBudget) string {
	var b strings.Builder
	b.WriteString(StyleBlue.Render(PhaseTitle(ph)))
	d := p.Defaults
	fmt.Fprintf(&b, "  %s\n", Dim(fmt.Sprintf("%dd · %dw · travel %s · meal %s",
		d.Days, d.Weeks, Money(d.TravelAllowance), Money(d.MealAllowancePerPerson))))

	rows := [][]string{}
	for _, dept := range p.DepartmentKeys() {
		for _, r := range p.Rows[dept] {
			rows = append(rows, rowCells(dept, r))
		}
	}
	if len(rows) == 0 {
		b.WriteString(Dim("  no rows"))
		b.WriteString("\n")
	} else {
		t := Table{
			Headers: []string{"ID", "DEPT", "KIND", "NAME", "ROLE", "BASIS", "UNIT", "QTY", "TOTAL"},
			Rows:    rows,
			Right:   map[int]bool{6: true, 7: true, 8: true},
		}
		b.WriteString(t.Render())
	}

	var verba [][]string
	for _, dept := range p.DepartmentKeys() {
		for _, v := range p.Verba[dept] {
			verba = append(verba, []string{
				TruncID(v.ID), string(dept), OrDash(v.ItemName),
				Money(v.UnitCost), Quantity(v.Quantity), Money(domain.PriceVerba(v)),
			})
		}
	}
	if len(verba) > 0 {
		b.WriteString("\n")
		t := Table{
			Headers: []string{"ID", "DEPT", "VERBA", "UNIT", "QTY", "TOTAL"},
			Rows:    verba,
			Right:   map[int]bool{3: true, 4: true, 5: true},
		}
		b.WriteString(t.Render())
	}

	tot := p.Totals()
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s  %s %s\n",
		Dim("subtotal"), Money(tot.Subtotal),
		Dim("contingency"), Money(tot.Contingency),
		Dim("crt"), Money(tot.CRT),
		Dim("total"), Bold(Money(tot.Total)))
	if strings.TrimSpace(p.Notes) != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("notes"), p.Notes)
	}
	return b.String()
}

func rowCells(dept domain.Department, r domain.Row) []string {
	name := OrDash(r.Name())
	role := OrDash(r.Role())
	total := Money(domain.PriceRow(r))
	switch row := r.(type) {
	case *domain.LaborRow:
		unit := Money(row.UnitCost)
		if !row.ExtraCost.IsZero() {
			unit += Dim("+" + Money(row.ExtraCost))
		}
		if len(row.Complementary) > 0 {
			name += Dim(fmt.Sprintf(" (+%d comp)", len(row.Complementary)))
		}
		return []string{TruncID(row.ID), string(dept), "labor", name, role, string(row.PayBasis), unit, Quantity(row.Quantity), total}
	case *domain.CostRow:
		basis := string(row.UnitType)
		if dept == domain.DeptCatering && row.CateringOverridden() {
			basis += Dim(" (manual)")
		}
		return []string{TruncID(row.ID), string(dept), "cost", name, role, basis, Money(row.UnitCost), Quantity(row.Quantity), total}
	default:
		return []string{TruncID(r.RowID()), string(dept), "people", name, role, "", "", "", Dim("--")}
	}
}

func formatStageSummary(s domain.StageSummary) string {
	rows := [][]string{
		{Dim("Rows"), Money(s.Rows)},
		{Dim("Verba"), Money(s.Verba)},
		{Dim("Subtotal"), Money(s.Subtotal)},
		{Dim("Charges"), Money(s.Charges)},
		{Dim("Total"), Bold(Money(s.Total))},
		{Dim("Job value"), Money(s.JobValue)},
		{Dim("Tax"), Money(s.Tax)},
	}
	t := Table{
		Headers: []string{"SUMMARY", ""},
		Rows:    rows,
		Footer:  []string{"Result", SignedMoney(s.Result)},
		Right:   map[int]bool{1: true},
	}
	return t.Render()
}
