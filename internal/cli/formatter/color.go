package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StagePill renders the lock state of a stage, e.g. "● initial open".
func StagePill(stage domain.Stage, status domain.StageStatus) string {
	label := string(stage)
	switch status {
	case domain.StatusLocked:
		return StyleYellow.Render("■ " + label + " locked")
	case domain.StatusOpen:
		return StyleGreen.Render("● " + label + " open")
	default:
		return StyleDim.Render("○ " + label + " " + string(status))
	}
}

// StatusLine renders the three stage pills of a project.
func StatusLine(s domain.ProjectStatus) string {
	pills := make([]string, 0, len(domain.Stages))
	for _, st := range domain.Stages {
		pills = append(pills, StagePill(st, s.Of(st)))
	}
	return strings.Join(pills, Dim("  ·  "))
}

// PayPill renders a closing pay status.
func PayPill(s domain.PayStatus) string {
	if s == domain.PayPaid {
		return StyleGreen.Render("✔ paid")
	}
	return StyleYellow.Render("… pending")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
