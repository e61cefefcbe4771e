package cli

import (
	"fmt"

	"github.com/alexanderramin/claquete/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Manage the role rate table used to prefill new rows",
	}

	set := &cobra.Command{
		Use:   "set ROLE RATE",
		Short: "Set the daily rate of a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := parseMoney("rate", args[1])
			if err != nil {
				return err
			}
			if err := app.Rates.Set(cmd.Context(), args[0], rate); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rate for %s set to %s\n", args[0], formatter.Money(rate))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List role rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			rates, err := app.Rates.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRates(rates))
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm ROLE",
		Short: "Remove a role rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Rates.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed rate for %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(set, list, rm)
	return cmd
}
