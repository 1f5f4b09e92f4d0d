package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LeonardoBeccarini/smartagri/internal/services/analytics"
)

func init() {
	rootCmd.AddCommand(analyticsCmd)
	analyticsCmd.AddCommand(analyticsRenderCmd, analyticsShowCmd)

	analyticsRenderCmd.Flags().StringP("out", "o", "charts", "Directory the PNG files are written to")
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Work with the historical analytics figures",
}

var analyticsRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render every analytics chart to PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("out")

		paths, err := analytics.RenderAll(dir, analytics.DefaultDatasets())
		if err != nil {
			return err
		}
		for _, p := range paths {
			a.logger.Info("chart written", "path", p)
		}
		return nil
	},
}

var analyticsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the KPI cards and insights",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds := analytics.DefaultDatasets()
		out := cmd.OutOrStdout()
		for _, k := range ds.KPIs {
			fmt.Fprintf(out, "%-20s %-10s %s\n", k.Title, k.Value, k.Change)
		}
		fmt.Fprintln(out)
		for _, in := range ds.Insights {
			fmt.Fprintf(out, "%s: %s\n", in.Title, in.Body)
		}
		return nil
	},
}
