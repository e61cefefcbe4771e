package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/claquete/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Globals are the flags shared by every command.
type Globals struct {
	ConfigPath string
	DBPath     string
}

// App holds references to all services used by CLI commands.
type App struct {
	Projects service.ProjectService
	Rates    service.RateService

	// NewWorkspace starts an editing session. Each command opens its own.
	NewWorkspace func() *service.Workspace

	// DefaultSavingPercent seeds "savings set" when --percent is omitted.
	DefaultSavingPercent decimal.Decimal

	IsInteractive func() bool
	Confirm       func(title, description string) (bool, error)
	Now           func() time.Time

	// Setup wires the services from the global flags before any command
	// runs. Tests leave it nil and fill the services directly.
	Setup func(ctx context.Context, g Globals) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

// NewRootCmd creates the top-level "claquete" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var g Globals

	root := &cobra.Command{
		Use:           "claquete",
		Short:         "Film production budgets: estimates, locks and closing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Setup == nil {
				return nil
			}
			return app.Setup(cmd.Context(), g)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "", "Configuration file path")
	root.PersistentFlags().StringVar(&g.DBPath, "db", "", "SQLite database path (overrides config)")

	root.AddCommand(
		newProjectCmd(app),
		newRowCmd(app),
		newCompCmd(app),
		newVerbaCmd(app),
		newPhaseCmd(app),
		newStageCmd(app),
		newClosingCmd(app),
		newExpenseCmd(app),
		newSavingsCmd(app),
		newRateCmd(app),
	)
	return root
}
