package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"energy-cost-backend/internal/appliance"
	"energy-cost-backend/internal/category"
	"energy-cost-backend/internal/parse"
)

func categoryName(id string) string {
	if c, ok := category.Find(id); ok {
		return c.DisplayName
	}
	return id
}

func printAppliances(w io.Writer, items []appliance.Appliance) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPOWER (W)\tHOURS/DAY\tDAYS/MONTH\tTARIFF\tKWH/MONTH\tCOST/MONTH")
	for _, a := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%g\t%g\t%g\t%.2f\t%.2f\n",
			a.ID, a.Name, categoryName(a.CategoryID),
			a.PowerWatts, a.HoursPerDay, a.DaysPerMonth, a.TariffPerKWh,
			a.MonthlyConsumption(), a.MonthlyCost())
	}
	return tw.Flush()
}

func listCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered appliances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := e.registry.List()
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No appliances registered.")
				return nil
			}
			return printAppliances(cmd.OutOrStdout(), items)
		},
	}
}

// quantityFlags holds the raw human-entered values of the numeric flags.
type quantityFlags struct {
	name     string
	category string
	power    string
	hours    string
	days     string
	tariff   string
}

func (q *quantityFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&q.category, "category", "otros", "category id (see 'energyctl categories')")
	cmd.Flags().StringVar(&q.power, "power", "0", "power draw, e.g. 150W or 1.5kW")
	cmd.Flags().StringVar(&q.hours, "hours", "0", "daily usage, e.g. 8h or 90min")
	cmd.Flags().StringVar(&q.days, "days", "30", "usage days per month")
	cmd.Flags().StringVar(&q.tariff, "tariff", "0", "price per kWh, e.g. 0.12")
}

func addCmd(e *env) *cobra.Command {
	var q quantityFlags
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Register an appliance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := appliance.Fields{Name: args[0], CategoryID: q.category}
			var err error
			if f.PowerWatts, err = parse.Power(q.power); err != nil {
				return err
			}
			if f.HoursPerDay, err = parse.Hours(q.hours); err != nil {
				return err
			}
			if f.DaysPerMonth, err = parse.Days(q.days); err != nil {
				return err
			}
			if f.TariffPerKWh, err = parse.Tariff(q.tariff); err != nil {
				return err
			}

			a, err := e.registry.Add(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s): %.2f kWh, %.2f per month\n",
				a.Name, a.ID, a.MonthlyConsumption(), a.MonthlyCost())
			return nil
		},
	}
	q.register(cmd)
	return cmd
}

func updateCmd(e *env) *cobra.Command {
	var q quantityFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of an appliance",
		Long: "Change fields of an appliance. Only the flags given are applied; " +
			"under the default update policy zero values and empty strings are ignored.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u appliance.PartialUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				u.Name = &q.name
			}
			if flags.Changed("category") {
				u.CategoryID = &q.category
			}
			parsers := []struct {
				flag  string
				raw   string
				parse func(string) (float64, error)
				dst   **float64
			}{
				{"power", q.power, parse.Power, &u.PowerWatts},
				{"hours", q.hours, parse.Hours, &u.HoursPerDay},
				{"days", q.days, parse.Days, &u.DaysPerMonth},
				{"tariff", q.tariff, parse.Tariff, &u.TariffPerKWh},
			}
			for _, p := range parsers {
				if !flags.Changed(p.flag) {
					continue
				}
				v, err := p.parse(p.raw)
				if err != nil {
					return err
				}
				*p.dst = &v
			}

			a, ok, err := e.registry.Update(cmd.Context(), args[0], u)
			if !ok {
				return fmt.Errorf("appliance %q not found", args[0])
			}
			if err != nil {
				return err
			}
			return printAppliances(cmd.OutOrStdout(), []appliance.Appliance{a})
		},
	}
	q.register(cmd)
	cmd.Flags().StringVar(&q.name, "name", "", "new display name")
	return cmd
}

func removeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Remove an appliance",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := e.registry.Remove(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("appliance %q not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func seedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add example appliances when none are registered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seeded, err := e.registry.SeedDefaults(cmd.Context())
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "Appliances already registered; nothing to seed.")
				return nil
			}
			return printAppliances(cmd.OutOrStdout(), e.registry.List())
		},
	}
}
