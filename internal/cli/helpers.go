package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/claquete/internal/budget"
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// errRefused reports a budget edit the editor declined.
var errRefused = errors.New("change refused")

func parseMoney(flag, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: want a number such as 1250.50", flag, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s %q: must not be negative", flag, s)
	}
	return d, nil
}

// parseAmount reads a budget amount. Negative or unparsable input counts as
// zero, the same clamp the editor applies.
func parseAmount(s string) decimal.Decimal {
	return domain.ParseAmount(strings.TrimSpace(s))
}

// optionalAmount parses a flag only when it was set.
func optionalAmount(changed bool, s string) *decimal.Decimal {
	if !changed {
		return nil
	}
	d := parseAmount(s)
	return &d
}

func parseStage(s string) (domain.Stage, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidStages[s] {
		return "", fmt.Errorf("invalid stage %q (want initial, final or closing)", s)
	}
	return domain.Stage(s), nil
}

func parseEstimateStage(s string) (domain.Stage, error) {
	st, err := parseStage(s)
	if err != nil {
		return "", err
	}
	if st == domain.StageClosing {
		return "", fmt.Errorf("stage closing has no estimate (want initial or final)")
	}
	return st, nil
}

func parsePhase(s string) (domain.Phase, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidPhases[s] {
		return "", fmt.Errorf("invalid phase %q (want pre, production or post)", s)
	}
	return domain.Phase(s), nil
}

func parseDepartment(s string) (domain.Department, error) {
	d, ok := domain.ParseDepartment(s)
	if !ok {
		return "", fmt.Errorf("unknown department %q", s)
	}
	return d, nil
}

func parseKind(s string) (domain.RowKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidRowKinds[s] {
		return "", fmt.Errorf("invalid row kind %q (want people, labor or cost)", s)
	}
	return domain.RowKind(s), nil
}

func parsePayBasis(s string) (domain.PayBasis, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidPayBases[s] {
		return "", fmt.Errorf("invalid pay basis %q (want daily, weekly or flat)", s)
	}
	return domain.PayBasis(s), nil
}

func parseUnitType(s string) (domain.UnitType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidUnitTypes[s] {
		return "", fmt.Errorf("invalid unit type %q (want cache, verba or extra)", s)
	}
	return domain.UnitType(s), nil
}

func parsePayStatus(s string) (domain.PayStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidPayStatuses[s] {
		return "", fmt.Errorf("invalid pay status %q (want pending or paid)", s)
	}
	return domain.PayStatus(s), nil
}

func parseDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &t, nil
}

// parseDay turns a 1-based diary day into an index.
func parseDay(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid day %q (want 1 or more)", s)
	}
	return n - 1, nil
}

// matchID resolves an exact id or a unique id prefix against candidates.
func matchID(what, input string, candidates []string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%s ID is required", what)
	}
	var matches []string
	for _, id := range candidates {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", what, input, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", what, input, len(matches))
	}
}

func rowIDs(s *domain.StageBudget) []string {
	var ids []string
	for _, ph := range domain.Phases {
		p := s.Phase(ph)
		for _, rows := range p.Rows {
			for _, r := range rows {
				ids = append(ids, r.RowID())
			}
		}
	}
	return ids
}

func verbaIDs(s *domain.StageBudget) []string {
	var ids []string
	for _, ph := range domain.Phases {
		p := s.Phase(ph)
		for _, rows := range p.Verba {
			for _, v := range rows {
				ids = append(ids, v.ID)
			}
		}
	}
	return ids
}

func lineIDs(p *domain.Project) []string {
	ids := make([]string, 0, len(p.Closing.Lines))
	for _, l := range p.Closing.Lines {
		ids = append(ids, l.ID)
	}
	return ids
}

func expenseIDs(p *domain.Project) []string {
	ids := make([]string, 0, len(p.Closing.Expenses))
	for _, e := range p.Closing.Expenses {
		ids = append(ids, e.ID)
	}
	return ids
}

// openWorkspace starts a session on the project named by the --project flag.
func openWorkspace(ctx context.Context, app *App, ref string) (*service.Workspace, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("project is required (use --project flag)")
	}
	ws := app.NewWorkspace()
	if _, err := ws.Open(ctx, ref); err != nil {
		return nil, err
	}
	return ws, nil
}

// stageTarget is the --project/--stage pair of the budget editing commands.
type stageTarget struct {
	project string
	stage   string
}

func (t *stageTarget) bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&t.project, "project", "p", "", "Project job ID or ID")
	cmd.PersistentFlags().StringVarP(&t.stage, "stage", "s", string(domain.StageInitial), "Estimate stage (initial or final)")
}

// editStage opens the stage editor, runs fn and saves. A refused edit is
// reported without saving.
func editStage(cmd *cobra.Command, app *App, t *stageTarget, fn func(ed *budget.Editor) error) error {
	stage, err := parseEstimateStage(t.stage)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	ws, err := openWorkspace(ctx, app, t.project)
	if err != nil {
		return err
	}
	ed, err := ws.Editor(stage)
	if err != nil {
		return err
	}
	if !ed.Editable() {
		return fmt.Errorf("%s estimate is locked: %w", stage, service.ErrStageLocked)
	}
	if err := fn(ed); err != nil {
		return err
	}
	return ws.Save(ctx)
}

// withProject opens a session, runs fn and saves when save is set.
func withProject(cmd *cobra.Command, app *App, ref string, save bool, fn func(ws *service.Workspace) error) error {
	ctx := cmd.Context()
	ws, err := openWorkspace(ctx, app, ref)
	if err != nil {
		return err
	}
	if err := fn(ws); err != nil {
		return err
	}
	if !save {
		return nil
	}
	return ws.Save(ctx)
}

func refused(ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), errRefused)
}
