package cli

import (
	"fmt"

	"github.com/alexanderramin/claquete/internal/budget"
	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/spf13/cobra"
)

func newRowCmd(app *App) *cobra.Command {
	t := &stageTarget{}
	cmd := &cobra.Command{
		Use:   "row",
		Short: "Edit budget rows of an estimate",
	}
	t.bind(cmd)
	cmd.AddCommand(
		newRowAddCmd(app, t),
		newRowSetCmd(app, t),
		newRowRemoveCmd(app, t),
	)
	return cmd
}

func newRowAddCmd(app *App, t *stageTarget) *cobra.Command {
	var phase, dept, kind, name, role, basis, unit string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a row to a department",
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := parsePhase(phase)
			if err != nil {
				return err
			}
			d, err := parseDepartment(dept)
			if err != nil {
				return err
			}
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			seed := budget.RowSeed{ItemName: name, RoleFunction: role}
			if basis != "" {
				if seed.PayBasis, err = parsePayBasis(basis); err != nil {
					return err
				}
			}
			if unit != "" {
				if seed.UnitType, err = parseUnitType(unit); err != nil {
					return err
				}
			}

			var id string
			err = editStage(cmd, app, t, func(ed *budget.Editor) error {
				var ok bool
				id, ok = ed.AddRow(ph, d, k, seed)
				return refused(ok, "add %s row to %s", k, d)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s row %s to %s/%s\n", k, id, ph, d)
			return nil
		},
	}
	cmd.Flags().StringVar(&phase, "phase", "", "Phase (pre, production, post)")
	cmd.Flags().StringVar(&dept, "dept", "", "Department")
	cmd.Flags().StringVar(&kind, "kind", string(domain.KindLabor), "Row kind (people, labor, cost)")
	cmd.Flags().StringVar(&name, "name", "", "Item or person name")
	cmd.Flags().StringVar(&role, "role", "", "Role, or supplier for cost rows")
	cmd.Flags().StringVar(&basis, "basis", "", "Pay basis of labor rows (daily, weekly, flat)")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit type of cost rows (cache, verba, extra)")
	_ = cmd.MarkFlagRequired("phase")
	_ = cmd.MarkFlagRequired("dept")
	return cmd
}

func newRowSetCmd(app *App, t *stageTarget) *cobra.Command {
	var name, role, basis, unit, cost, extra, qty string

	cmd := &cobra.Command{
		Use:   "set ROW_ID",
		Short: "Change fields of a row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch budget.RowPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.ItemName = &name
			}
			if flags.Changed("role") {
				patch.RoleFunction = &role
			}
			if flags.Changed("basis") {
				b, err := parsePayBasis(basis)
				if err != nil {
					return err
				}
				patch.PayBasis = &b
			}
			if flags.Changed("unit") {
				u, err := parseUnitType(unit)
				if err != nil {
					return err
				}
				patch.UnitType = &u
			}
			if flags.Changed("cost") {
				v := parseAmount(cost)
				patch.UnitCost = &v
			}
			if flags.Changed("extra") {
				v := parseAmount(extra)
				patch.ExtraCost = &v
			}
			if flags.Changed("qty") {
				v := parseAmount(qty)
				patch.Quantity = &v
			}

			var id string
			err := editStage(cmd, app, t, func(ed *budget.Editor) error {
				var err error
				if id, err = matchID("row", args[0], rowIDs(ed.State())); err != nil {
					return err
				}
				return refused(ed.UpdateRow(id, patch), "update row %s", id)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated row %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Item or person name")
	cmd.Flags().StringVar(&role, "role", "", "Role, or supplier for cost rows")
	cmd.Flags().StringVar(&basis, "basis", "", "Pay basis (daily, weekly, flat)")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit type (cache, verba, extra)")
	cmd.Flags().StringVar(&cost, "cost", "", "Unit cost")
	cmd.Flags().StringVar(&extra, "extra", "", "Extra cost per unit (labor)")
	cmd.Flags().StringVar(&qty, "qty", "", "Quantity")
	return cmd
}

func newRowRemoveCmd(app *App, t *stageTarget) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ROW_ID",
		Short: "Remove a row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			err := editStage(cmd, app, t, func(ed *budget.Editor) error {
				var err error
				if id, err = matchID("row", args[0], rowIDs(ed.State())); err != nil {
					return err
				}
				return refused(ed.RemoveRow(id), "remove row %s", id)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed row %s\n", id)
			return nil
		},
	}
}

func newCompCmd(app *App) *cobra.Command {
	t := &stageTarget{}
	cmd := &cobra.Command{
		Use:   "comp",
		Short: "Edit complementary lines of labor rows",
	}
	t.bind(cmd)

	var typ, desc, value string
	add := &cobra.Command{
		Use:   "add ROW_ID",
		Short: "Attach a complementary line to a labor row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := parseAmount(value)
			if !domain.ValidComplementaryTypes[typ] {
				return fmt.Errorf("invalid complementary type %q", typ)
			}
			line := domain.ComplementaryLine{Description: desc, Type: domain.ComplementaryType(typ), Value: v}
			var id string
			err := editStage(cmd, app, t, func(ed *budget.Editor) error {
				rowID, err := matchID("row", args[0], rowIDs(ed.State()))
				if err != nil {
					return err
				}
				var ok bool
				id, ok = ed.AddComplementary(rowID, line)
				return refused(ok, "add complementary line to %s (labor rows only)", rowID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added complementary line %s\n", id)
			return nil
		},
	}
	add.Flags().StringVar(&typ, "type", string(domain.CompOther), "Type (pickup, delivery, check, setup, strike, pre_call_day, pre_light, scout, other)")
	add.Flags().StringVar(&desc, "desc", "", "Description")
	add.Flags().StringVar(&value, "value", "", "Value")
	_ = add.MarkFlagRequired("value")

	rm := &cobra.Command{
		Use:   "rm ROW_ID LINE_ID",
		Short: "Remove a complementary line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editStage(cmd, app, t, func(ed *budget.Editor) error {
				rowID, err := matchID("row", args[0], rowIDs(ed.State()))
				if err != nil {
					return err
				}
				return refused(ed.RemoveComplementary(rowID, args[1]), "remove complementary line %s", args[1])
			})
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

func newVerbaCmd(app *App) *cobra.Command {
	t := &stageTarget{}
	cmd := &cobra.Command{
		Use:   "verba",
		Short: "Edit lump-sum allowance rows",
	}
	t.bind(cmd)

	var phase, dept string
	var vf verbaFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a verba row to a department",
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := parsePhase(phase)
			if err != nil {
				return err
			}
			d, err := parseDepartment(dept)
			if err != nil {
				return err
			}
			patch := vf.patch(cmd)
			var id string
			err = editStage(cmd, app, t, func(ed *budget.Editor) error {
				var ok bool
				if id, ok = ed.AddVerbaRow(ph, d); !ok {
					return refused(false, "add verba row to %s", d)
				}
				return refused(ed.UpdateVerbaRow(id, patch), "update verba row %s", id)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added verba row %s to %s/%s\n", id, ph, d)
			return nil
		},
	}
	add.Flags().StringVar(&phase, "phase", "", "Phase (pre, production, post)")
	add.Flags().StringVar(&dept, "dept", "", "Department")
	vf.bind(add)
	_ = add.MarkFlagRequired("phase")
	_ = add.MarkFlagRequired("dept")

	var sf verbaFlags
	set := &cobra.Command{
		Use:   "set VERBA_ID",
		Short: "Change a verba row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := sf.patch(cmd)
			return editStage(cmd, app, t, func(ed *budget.Editor) error {
				id, err := matchID("verba row", args[0], verbaIDs(ed.State()))
				if err != nil {
					return err
				}
				return refused(ed.UpdateVerbaRow(id, patch), "update verba row %s", id)
			})
		},
	}
	sf.bind(set)

	rm := &cobra.Command{
		Use:   "rm VERBA_ID",
		Short: "Remove a verba row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editStage(cmd, app, t, func(ed *budget.Editor) error {
				id, err := matchID("verba row", args[0], verbaIDs(ed.State()))
				if err != nil {
					return err
				}
				return refused(ed.RemoveVerbaRow(id), "remove verba row %s", id)
			})
		},
	}

	cmd.AddCommand(add, set, rm)
	return cmd
}

type verbaFlags struct {
	name, cost, qty string
}

func (f *verbaFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Item name")
	cmd.Flags().StringVar(&f.cost, "cost", "", "Unit cost")
	cmd.Flags().StringVar(&f.qty, "qty", "", "Quantity")
}

func (f *verbaFlags) patch(cmd *cobra.Command) budget.VerbaPatch {
	var p budget.VerbaPatch
	flags := cmd.Flags()
	if flags.Changed("name") {
		p.ItemName = &f.name
	}
	if flags.Changed("cost") {
		v := parseAmount(f.cost)
		p.UnitCost = &v
	}
	if flags.Changed("qty") {
		v := parseAmount(f.qty)
		p.Quantity = &v
	}
	return p
}
