package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders the project list inside a bordered box.
func FormatProjectList(projects []*domain.Project, now time.Time) string {
	headers := []string{"JOB", "NAME", "CLIENT", "STATUS", "UPDATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.DisplayID(),
			Bold(p.Name),
			OrDash(p.Client),
			StatusLine(p.Status),
			Dim(RelativeDateFrom(p.UpdatedAt, now)),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectShow renders the project header next to a summary of each
// loaded estimate stage.
func FormatProjectShow(p *domain.Project) string {
	left := metadataPanel(p)
	right := summaryPanel(p)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
}

func metadataPanel(p *domain.Project) string {
	var b strings.Builder
	b.WriteString(Header(p.Name))
	b.WriteString("\n")
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-9s", label)), value)
	}
	field("Job", Bold(p.DisplayID()))
	field("Agency", OrDash(p.Agency))
	field("Client", OrDash(p.Client))
	if p.Duration > 0 {
		field("Duration", fmt.Sprintf("%d %s", p.Duration, p.DurationUnit))
	}
	if p.CacheTableID != "" {
		field("Rates", p.CacheTableID)
	}
	field("Created", p.CreatedAt.Format("Jan 2, 2006"))
	b.WriteString("\n")
	for _, st := range domain.Stages {
		b.WriteString(StagePill(st, p.Status.Of(st)))
		b.WriteString("\n")
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

func summaryPanel(p *domain.Project) string {
	headers := []string{"", "INITIAL", "FINAL"}
	stages := []*domain.StageBudget{p.Initial, p.Final}
	sums := make([]*domain.StageSummary, len(stages))
	for i, s := range stages {
		if s != nil {
			sum := domain.Summarize(s)
			sums[i] = &sum
		}
	}
	line := func(label string, pick func(domain.StageSummary) string) []string {
		row := []string{Dim(label)}
		for _, s := range sums {
			if s == nil {
				row = append(row, Dim("--"))
				continue
			}
			row = append(row, pick(*s))
		}
		return row
	}
	rows := [][]string{
		line("Rows", func(s domain.StageSummary) string { return Money(s.Rows) }),
		line("Verba", func(s domain.StageSummary) string { return Money(s.Verba) }),
		line("Charges", func(s domain.StageSummary) string { return Money(s.Charges) }),
		line("Total", func(s domain.StageSummary) string { return Bold(Money(s.Total)) }),
		line("Job value", func(s domain.StageSummary) string { return Money(s.JobValue) }),
		line("Tax", func(s domain.StageSummary) string { return Money(s.Tax) }),
	}
	footer := line("Result", func(s domain.StageSummary) string { return SignedMoney(s.Result) })
	t := Table{Headers: headers, Rows: rows, Footer: footer, Right: map[int]bool{1: true, 2: true}}
	return RenderBox("Budget", strings.TrimRight(t.Render(), "\n"))
}
