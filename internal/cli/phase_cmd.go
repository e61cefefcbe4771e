package cli

import (
	"fmt"

	"github.com/alexanderramin/claquete/internal/budget"
	"github.com/spf13/cobra"
)

func newPhaseCmd(app *App) *cobra.Command {
	t := &stageTarget{}
	var phase string
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Edit phase defaults, markups and notes",
	}
	t.bind(cmd)
	cmd.PersistentFlags().StringVar(&phase, "phase", "", "Phase (pre, production, post)")
	_ = cmd.MarkPersistentFlagRequired("phase")

	cmd.AddCommand(
		newPhaseDefaultsCmd(app, t, &phase),
		newPhaseApplyCmd(app, t, &phase),
		newPhaseNotesCmd(app, t, &phase),
		newPhaseMarkupCmd(app, t, &phase),
	)
	return cmd
}

func newPhaseDefaultsCmd(app *App, t *stageTarget, phase *string) *cobra.Command {
	var days, weeks int
	var travel, meal string

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Set the days, weeks and allowances a phase applies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := parsePhase(*phase)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			travelV := optionalAmount(flags.Changed("travel"), travel)
			mealV := optionalAmount(flags.Changed("meal"), meal)
			return editStage(cmd, app, t, func(ed *budget.Editor) error {
				d := ed.State().Phase(ph).Defaults
				if flags.Changed("days") {
					d.Days = days
				}
				if flags.Changed("weeks") {
					d.Weeks = weeks
				}
				if travelV != nil {
					d.TravelAllowance = *travelV
				}
				if mealV != nil {
					d.MealAllowancePerPerson = *mealV
				}
				return refused(ed.SetDefaults(ph, d), "set %s defaults", ph)
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Shooting days")
	cmd.Flags().IntVar(&weeks, "weeks", 0, "Weeks")
	cmd.Flags().StringVar(&travel, "travel", "", "Travel allowance per labor row")
	cmd.Flags().StringVar(&meal, "meal", "", "Meal allowance per person per day")
	return cmd
}

func newPhaseApplyCmd(app *App, t *stageTarget, phase *string) *cobra.Command {
	return &cobra.Command{
		Use:       "apply days|weeks|travel|catering",
		Short:     "Copy a phase default onto its rows",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"days", "weeks", "travel", "catering"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := parsePhase(*phase)
			if err != nil {
				return err
			}
			var apply func(*budget.Editor) bool
			switch args[0] {
			case "days":
				apply = func(ed *budget.Editor) bool { return ed.ApplyDays(ph) }
			case "weeks":
				apply = func(ed *budget.Editor) bool { return ed.ApplyWeeks(ph) }
			case "travel":
				apply = func(ed *budget.Editor) bool { return ed.ApplyTravelAllowance(ph) }
			case "catering":
				apply = func(ed *budget.Editor) bool { return ed.ApplyCatering(ph) }
			default:
				return fmt.Errorf("unknown default %q (want days, weeks, travel or catering)", args[0])
			}
			err = editStage(cmd, app, t, func(ed *budget.Editor) error {
				return refused(apply(ed), "apply %s to %s", args[0], ph)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %s to %s\n", args[0], ph)
			return nil
		},
	}
}

func newPhaseNotesCmd(app *App, t *stageTarget, phase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "notes TEXT",
		Short: "Set the notes of a phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := parsePhase(*phase)
			if err != nil {
				return err
			}
			return editStage(cmd, app, t, func(ed *budget.Editor) error {
				return refused(ed.SetNotes(ph, args[0]), "set %s notes", ph)
			})
		},
	}
}

func newPhaseMarkupCmd(app *App, t *stageTarget, phase *string) *cobra.Command {
	var contingency, crt, margin string

	cmd := &cobra.Command{
		Use:   "markup",
		Short: "Set the contingency, CRT and agency margin percentages",
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := parsePhase(*phase)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			contV := optionalAmount(flags.Changed("contingency"), contingency)
			crtV := optionalAmount(flags.Changed("crt"), crt)
			marginV := optionalAmount(flags.Changed("margin"), margin)
			return editStage(cmd, app, t, func(ed *budget.Editor) error {
				m := ed.State().Phase(ph).MiniTables
				if contV != nil {
					m.Contingency = *contV
				}
				if crtV != nil {
					m.CRT = *crtV
				}
				if marginV != nil {
					m.AgencyMargin = *marginV
				}
				return refused(ed.SetMiniTables(ph, m), "set %s markup", ph)
			})
		},
	}
	cmd.Flags().StringVar(&contingency, "contingency", "", "Contingency percent")
	cmd.Flags().StringVar(&crt, "crt", "", "CRT percent")
	cmd.Flags().StringVar(&margin, "margin", "", "Agency margin percent")
	return cmd
}
