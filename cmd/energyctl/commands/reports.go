package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"energy-cost-backend/internal/category"
)

func summaryCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show monthly totals and consumption per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := e.registry.Summary()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Appliances:        %d\n", s.Count)
			fmt.Fprintf(out, "Monthly energy:    %.2f kWh\n", s.TotalConsumptionKWh)
			fmt.Fprintf(out, "Monthly cost:      %.2f\n\n", s.TotalCost)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tKWH/MONTH")
			for _, c := range append(category.List(), category.Unknown) {
				v, ok := s.ConsumptionByCategory[c.ID]
				if !ok {
					continue
				}
				fmt.Fprintf(tw, "%s\t%.2f\n", c.DisplayName, v)
			}
			return tw.Flush()
		},
	}
}

func chartCmd(e *env) *cobra.Command {
	const width = 40
	return &cobra.Command{
		Use:   "chart",
		Short: "Show the share of consumption per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := e.registry.ChartData()
			if len(data.Values) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No consumption to chart.")
				return nil
			}

			var total float64
			for _, v := range data.Values {
				total += v
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i, v := range data.Values {
				share := v / total
				bar := strings.Repeat("#", int(share*width+0.5))
				fmt.Fprintf(tw, "%s\t%.2f kWh\t%5.1f%%\t%s\n", data.Labels[i], v, share*100, bar)
			}
			return tw.Flush()
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List appliance categories",
		Args:  cobra.NoArgs,
		// Reference data only; no storage needed.
		PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tICON")
			for _, c := range category.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.DisplayName, c.Color, c.Icon)
			}
			return tw.Flush()
		},
	}
}
