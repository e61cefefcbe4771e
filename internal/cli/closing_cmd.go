package cli

import (
	"fmt"

	"github.com/alexanderramin/claquete/internal/cli/formatter"
	"github.com/alexanderramin/claquete/internal/closing"
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// lineAction resolves a closing line id prefix and runs fn on it.
func lineAction(cmd *cobra.Command, app *App, project *string, ref string, fn func(ws *service.Workspace, lineID string) error) error {
	return withProject(cmd, app, *project, true, func(ws *service.Workspace) error {
		p, err := ws.Project()
		if err != nil {
			return err
		}
		id, err := matchID("closing line", ref, lineIDs(p))
		if err != nil {
			return err
		}
		return fn(ws, id)
	})
}

func newClosingCmd(app *App) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "closing",
		Short: "Reconcile what is owed once the final estimate is locked",
	}
	cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project job ID or ID")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show closing lines and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, app, project, false, func(ws *service.Workspace) error {
				report, err := ws.ClosingReport()
				if err != nil {
					return err
				}
				p, err := ws.Project()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatClosing(report, p.Status.Closing))
				return nil
			})
		},
	}

	expand := &cobra.Command{
		Use:   "expand LINE_ID",
		Short: "Open the per-day diary of a weekly line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return lineAction(cmd, app, &project, args[0], func(ws *service.Workspace, id string) error {
				return ws.ExpandWeekly(id)
			})
		},
	}

	pay := &cobra.Command{
		Use:   "pay LINE_ID paid|pending",
		Short: "Mark a closing line paid or pending",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parsePayStatus(args[1])
			if err != nil {
				return err
			}
			return lineAction(cmd, app, &project, args[0], func(ws *service.Workspace, id string) error {
				return ws.SetPayStatus(id, status)
			})
		},
	}

	invoice := &cobra.Command{
		Use:   "invoice LINE_ID NUMBER",
		Short: "Record the invoice number of a closing line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return lineAction(cmd, app, &project, args[0], func(ws *service.Workspace, id string) error {
				return ws.SetInvoice(id, args[1])
			})
		},
	}

	notes := &cobra.Command{
		Use:   "notes LINE_ID TEXT",
		Short: "Set the notes of a closing line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return lineAction(cmd, app, &project, args[0], func(ws *service.Workspace, id string) error {
				return ws.SetLineNotes(id, args[1])
			})
		},
	}

	cmd.AddCommand(show, newDiaryCmd(app, &project), expand, newExtraCmd(app, &project), pay, invoice, notes)
	return cmd
}

func newDiaryCmd(app *App, project *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diary",
		Short: "Edit the day-by-day diary of a labor line",
	}

	show := &cobra.Command{
		Use:   "show LINE_ID",
		Short: "Show the diary of a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, app, *project, false, func(ws *service.Workspace) error {
				report, err := ws.ClosingReport()
				if err != nil {
					return err
				}
				ids := make([]string, 0, len(report.Lines))
				for _, l := range report.Lines {
					ids = append(ids, l.ID)
				}
				id, err := matchID("closing line", args[0], ids)
				if err != nil {
					return err
				}
				for _, l := range report.Lines {
					if l.ID == id {
						fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDiary(l))
					}
				}
				return nil
			})
		},
	}

	add := &cobra.Command{
		Use:   "add LINE_ID",
		Short: "Add a regular day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return lineAction(cmd, app, project, args[0], func(ws *service.Workspace, id string) error {
				return ws.AddDiaryEntry(id)
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm LINE_ID DAY",
		Short: "Remove a diary day (the last day is kept)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseDay(args[1])
			if err != nil {
				return err
			}
			return lineAction(cmd, app, project, args[0], func(ws *service.Workspace, id string) error {
				return ws.RemoveDiaryEntry(id, idx)
			})
		},
	}

	var hours, additional, overtime string
	set := &cobra.Command{
		Use:   "set LINE_ID DAY",
		Short: "Set hours, additional percent and overtime of a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseDay(args[1])
			if err != nil {
				return err
			}
			h := parseAmount(hours)
			a := parseAmount(additional)
			o := parseAmount(overtime)
			entry := domain.DiaryEntry{DailyHours: h, AdditionalPercent: a, OvertimeHours: o}
			return lineAction(cmd, app, project, args[0], func(ws *service.Workspace, id string) error {
				return ws.SetDiaryEntry(id, idx, entry)
			})
		},
	}
	set.Flags().StringVar(&hours, "hours", fmt.Sprint(domain.DefaultDailyHours), "Regular hours of the day")
	set.Flags().StringVar(&additional, "additional", "0", "Overtime additional percent")
	set.Flags().StringVar(&overtime, "overtime", "0", "Overtime hours")

	cmd.AddCommand(show, add, rm, set)
	return cmd
}

func newExtraCmd(app *App, project *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extra",
		Short: "Manage ad-hoc closing lines",
	}

	var dept, phase, name, supplier, cost, qty, parent string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an ad-hoc line",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDepartment(dept)
			if err != nil {
				return err
			}
			ph, err := parsePhase(phase)
			if err != nil {
				return err
			}
			c := parseAmount(cost)
			q := parseAmount(qty)
			seed := closing.ExtraSeed{Department: d, Phase: ph, ItemName: name, Supplier: supplier, UnitCost: c, Quantity: q}
			var id string
			err = withProject(cmd, app, *project, true, func(ws *service.Workspace) error {
				if parent != "" {
					p, err := ws.Project()
					if err != nil {
						return err
					}
					if seed.ParentLineID, err = matchID("closing line", parent, lineIDs(p)); err != nil {
						return err
					}
				}
				id, err = ws.AddExtra(seed)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added extra line %s\n", id)
			return nil
		},
	}
	add.Flags().StringVar(&dept, "dept", "", "Department")
	add.Flags().StringVar(&phase, "phase", string(domain.PhaseProduction), "Phase")
	add.Flags().StringVar(&name, "name", "", "Item name")
	add.Flags().StringVar(&supplier, "supplier", "", "Supplier")
	add.Flags().StringVar(&cost, "cost", "0", "Unit cost")
	add.Flags().StringVar(&qty, "qty", "1", "Quantity")
	add.Flags().StringVar(&parent, "parent", "", "Line this extra belongs to")
	_ = add.MarkFlagRequired("dept")
	_ = add.MarkFlagRequired("name")

	rm := &cobra.Command{
		Use:   "rm LINE_ID",
		Short: "Remove an ad-hoc line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return lineAction(cmd, app, project, args[0], func(ws *service.Workspace, id string) error {
				return ws.RemoveExtra(id)
			})
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

func newExpenseCmd(app *App) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record accounting entries and department caps",
	}
	cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project job ID or ID")

	var dept, name, desc, value, invoice, date, supplier, typ string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an expense",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDepartment(dept)
			if err != nil {
				return err
			}
			v := parseAmount(value)
			when, err := parseDate(date)
			if err != nil {
				return err
			}
			seed := closing.ExpenseSeed{
				Department: d, Name: name, Description: desc, Value: v,
				InvoiceNumber: invoice, Date: when, Supplier: supplier, ExpenseType: typ,
			}
			var id string
			err = withProject(cmd, app, project, true, func(ws *service.Workspace) error {
				var err error
				id, err = ws.AddExpense(seed)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added expense %s\n", id)
			return nil
		},
	}
	add.Flags().StringVar(&dept, "dept", "", "Department")
	add.Flags().StringVar(&name, "name", "", "Name")
	add.Flags().StringVar(&desc, "desc", "", "Description")
	add.Flags().StringVar(&value, "value", "", "Value")
	add.Flags().StringVar(&invoice, "invoice", "", "Invoice number")
	add.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	add.Flags().StringVar(&supplier, "supplier", "", "Supplier")
	add.Flags().StringVar(&typ, "type", "", "Expense type")
	_ = add.MarkFlagRequired("dept")
	_ = add.MarkFlagRequired("value")

	expenseAction := func(cmd *cobra.Command, ref string, fn func(ws *service.Workspace, id string) error) error {
		return withProject(cmd, app, project, true, func(ws *service.Workspace) error {
			p, err := ws.Project()
			if err != nil {
				return err
			}
			id, err := matchID("expense", ref, expenseIDs(p))
			if err != nil {
				return err
			}
			return fn(ws, id)
		})
	}

	rm := &cobra.Command{
		Use:   "rm EXPENSE_ID",
		Short: "Remove an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return expenseAction(cmd, args[0], func(ws *service.Workspace, id string) error {
				return ws.RemoveExpense(id)
			})
		},
	}

	pay := &cobra.Command{
		Use:   "pay EXPENSE_ID paid|pending",
		Short: "Mark an expense paid or pending",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parsePayStatus(args[1])
			if err != nil {
				return err
			}
			return expenseAction(cmd, args[0], func(ws *service.Workspace, id string) error {
				return ws.SetExpensePayStatus(id, status)
			})
		},
	}

	capCmd := &cobra.Command{
		Use:   "cap DEPT LIMIT",
		Short: "Set the spending cap of a department (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDepartment(args[0])
			if err != nil {
				return err
			}
			limit := parseAmount(args[1])
			return withProject(cmd, app, project, true, func(ws *service.Workspace) error {
				return ws.SetExpenseCap(d, limit)
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List expenses and department caps",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, app, project, false, func(ws *service.Workspace) error {
				report, err := ws.ClosingReport()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExpenses(report.Expenses, report.ExpenseCaps))
				return nil
			})
		},
	}

	cmd.AddCommand(add, rm, pay, capCmd, list)
	return cmd
}

func newSavingsCmd(app *App) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Split the economy between the initial and final estimates",
	}
	cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project job ID or ID")

	catalog := &cobra.Command{
		Use:   "catalog",
		Short: "List the items that can be selected",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, app, project, false, func(ws *service.Workspace) error {
				keys, err := ws.SavingsCatalog()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCatalog(keys))
				return nil
			})
		},
	}

	var items []string
	var percent, responsible string
	set := &cobra.Command{
		Use:   "set",
		Short: "Select items, percentage and the line credited with the bonus",
		RunE: func(cmd *cobra.Command, args []string) error {
			pct := app.DefaultSavingPercent
			if cmd.Flags().Changed("percent") {
				v, err := decimal.NewFromString(percent)
				if err != nil {
					return fmt.Errorf("invalid percent %q", percent)
				}
				pct = v
			}
			return withProject(cmd, app, project, true, func(ws *service.Workspace) error {
				cfg := domain.SavingConfig{SelectedItemKeys: items, Percent: pct}
				if responsible != "" {
					p, err := ws.Project()
					if err != nil {
						return err
					}
					if cfg.ResponsibleLineID, err = matchID("closing line", responsible, lineIDs(p)); err != nil {
						return err
					}
				}
				if err := ws.SetSaving(cfg); err != nil {
					return err
				}
				res, err := ws.Savings()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSavings(res))
				return nil
			})
		},
	}
	set.Flags().StringSliceVar(&items, "items", nil, "Item keys, e.g. cost:equipment,verba:transport")
	set.Flags().StringVar(&percent, "percent", "", "Share of the economy paid out (5-25)")
	set.Flags().StringVar(&responsible, "responsible", "", "Closing line credited with the payout")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current savings split",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, app, project, false, func(ws *service.Workspace) error {
				res, err := ws.Savings()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSavings(res))
				return nil
			})
		},
	}

	cmd.AddCommand(catalog, set, show)
	return cmd
}
