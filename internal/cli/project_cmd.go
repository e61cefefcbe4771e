package cli

import (
	"fmt"

	"github.com/alexanderramin/claquete/internal/cli/formatter"
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectRemoveCmd(app),
	)
	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var jobID, name, agency, client, unit, ratesTable string
	var duration int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Project{
				JobID:        jobID,
				Name:         name,
				Agency:       agency,
				Client:       client,
				Duration:     duration,
				DurationUnit: unit,
				CacheTableID: ratesTable,
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.JobID)
			return nil
		},
	}

	cmd.Flags().StringVar(&jobID, "job", "", "Job ID (uppercase letters, digits and dashes, e.g. JOB-014)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&agency, "agency", "", "Agency")
	cmd.Flags().StringVar(&client, "client", "", "Client")
	cmd.Flags().IntVar(&duration, "duration", 0, "Film duration")
	cmd.Flags().StringVar(&unit, "unit", "s", "Duration unit")
	cmd.Flags().StringVar(&ratesTable, "rates-table", "", "Rate table reference")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects, app.now()))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	var stage string

	cmd := &cobra.Command{
		Use:   "show REF",
		Short: "Show a project and its budget summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatProjectShow(p))
			if stage == "" {
				return nil
			}
			st, err := parseEstimateStage(stage)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatStage(st, p.Stage(st), p.Status.Of(st)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&stage, "stage", "s", "", "Also print the rows of an estimate stage")
	return cmd
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, agency, client, unit, ratesTable string
	var duration int

	cmd := &cobra.Command{
		Use:   "update REF",
		Short: "Update the project header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			var patch service.HeaderPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("agency") {
				patch.Agency = &agency
			}
			if flags.Changed("client") {
				patch.Client = &client
			}
			if flags.Changed("duration") {
				patch.Duration = &duration
			}
			if flags.Changed("unit") {
				patch.DurationUnit = &unit
			}
			if flags.Changed("rates-table") {
				patch.CacheTableID = &ratesTable
			}
			updated, err := app.Projects.UpdateHeader(ctx, p.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s [%s]\n", updated.Name, updated.DisplayID())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&agency, "agency", "", "Agency")
	cmd.Flags().StringVar(&client, "client", "", "Client")
	cmd.Flags().IntVar(&duration, "duration", 0, "Film duration")
	cmd.Flags().StringVar(&unit, "unit", "", "Duration unit")
	cmd.Flags().StringVar(&ratesTable, "rates-table", "", "Rate table reference")
	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm REF",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := confirm(app, yes, fmt.Sprintf("Delete %s?", p.DisplayID()), "All stages and closing data are removed.")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := app.Projects.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", p.DisplayID())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
