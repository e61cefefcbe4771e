package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/claquete/internal/budget"
	"github.com/alexanderramin/claquete/internal/cli/formatter"
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/lifecycle"
	"github.com/alexanderramin/claquete/internal/service"
	"github.com/spf13/cobra"
)

func newStageCmd(app *App) *cobra.Command {
	t := &stageTarget{}
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Inspect and lock the initial, final and closing stages",
	}
	t.bind(cmd)
	cmd.AddCommand(
		newStageShowCmd(app, t),
		newStageStatusCmd(app, t),
		newStageToggleCmd(app, t),
		newStageValueCmd(app, t),
	)
	return cmd
}

func newStageShowCmd(app *App, t *stageTarget) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every row and total of an estimate",
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := parseEstimateStage(t.stage)
			if err != nil {
				return err
			}
			return withProject(cmd, app, t.project, false, func(ws *service.Workspace) error {
				ed, err := ws.Editor(stage)
				if err != nil {
					return err
				}
				p, err := ws.Project()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStage(stage, ed.State(), p.Status.Of(stage)))
				return nil
			})
		},
	}
}

func newStageStatusCmd(app *App, t *stageTarget) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the lock state of every stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, app, t.project, false, func(ws *service.Workspace) error {
				p, err := ws.Project()
				if err != nil {
					return err
				}
				access := domain.Access(p.Status)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s  %s\n", formatter.Bold(p.DisplayID()), formatter.StatusLine(p.Status))
				for _, st := range domain.Stages {
					state := "read-only"
					switch {
					case access.Editable(st):
						state = "editable"
					case !access.Reachable(st):
						state = "not reachable"
					}
					fmt.Fprintf(out, "  %-8s %s\n", st, formatter.Dim(state))
				}
				if access.Frozen {
					fmt.Fprintln(out, formatter.Dim("Closing is locked; the project is read-only."))
				}
				return nil
			})
		},
	}
}

func toggleQuestion(p *domain.Project, stage domain.Stage) (title, description string) {
	a, err := lifecycle.ToggleAction(p.Status, stage)
	if err != nil {
		return "", ""
	}
	switch a {
	case lifecycle.LockInitial:
		return "Lock the initial estimate?", "A snapshot is taken and the final estimate opens."
	case lifecycle.ReopenInitial:
		return "Reopen the initial estimate?", "Final and closing are reopened as well."
	case lifecycle.LockFinal:
		return "Lock the final estimate?", "Closing lines are generated from the final snapshot."
	case lifecycle.ReopenFinal:
		return "Reopen the final estimate?", "Closing is reopened as well. Closing annotations are kept."
	default:
		if p.Status.Closing == domain.StatusLocked {
			return "Reopen closing?", ""
		}
		return "Lock closing?", "The whole project becomes read-only."
	}
}

func newStageToggleCmd(app *App, t *stageTarget) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:       "toggle initial|final|closing",
		Short:     "Lock or reopen a stage",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"initial", "final", "closing"},
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := parseStage(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ws, err := openWorkspace(ctx, app, t.project)
			if err != nil {
				return err
			}
			p, err := ws.Project()
			if err != nil {
				return err
			}
			title, desc := toggleQuestion(p, stage)
			ok, err := confirm(app, yes, title, desc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}

			res, err := ws.ToggleLock(ctx, stage)
			if err != nil && !errors.Is(err, service.ErrAutosaveFailed) {
				return err
			}
			if !res.Applied {
				fmt.Fprintf(out, "Not changed: %s\n", res.Reason)
				return nil
			}
			if err != nil {
				fmt.Fprintln(out, formatter.StyleRed.Render("Stage changed in this session, but saving failed."))
				return err
			}
			p, _ = ws.Project()
			fmt.Fprintf(out, "%s  %s\n", formatter.Bold(string(res.Action)), formatter.StatusLine(p.Status))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newStageValueCmd(app *App, t *stageTarget) *cobra.Command {
	var jobValue, tax string

	cmd := &cobra.Command{
		Use:   "value",
		Short: "Set the job value and tax rate of an estimate",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			jv := optionalAmount(flags.Changed("job-value"), jobValue)
			tr := optionalAmount(flags.Changed("tax"), tax)
			if jv == nil && tr == nil {
				return fmt.Errorf("nothing to change (use --job-value or --tax)")
			}
			return editStage(cmd, app, t, func(ed *budget.Editor) error {
				if jv != nil {
					if err := refused(ed.SetJobValue(*jv), "set job value"); err != nil {
						return err
					}
				}
				if tr != nil {
					return refused(ed.SetTaxRate(*tr), "set tax rate")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&jobValue, "job-value", "", "Amount billed to the client")
	cmd.Flags().StringVar(&tax, "tax", "", "Tax rate percent")
	return cmd
}
