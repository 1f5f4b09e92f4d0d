package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/LeonardoBeccarini/smartagri/internal/config"
	"github.com/LeonardoBeccarini/smartagri/internal/services/detection"
)

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().Duration(config.KeyAnalysisDelay, detection.DefaultDelay, "Simulated analysis time")
	detectCmd.Flags().Bool("json", false, "Print the diagnosis as JSON")
	v.BindPFlag(config.KeyAnalysisDelay, detectCmd.Flags().Lookup(config.KeyAnalysisDelay))
}

var detectCmd = &cobra.Command{
	Use:   "detect <image>",
	Short: "Run the mock disease classifier on a crop photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		name, data, err := detection.ReadImageFile(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		start := time.Now()
		res, err := a.newClassifier().Classify(ctx, name, data)
		if err != nil {
			return fmt.Errorf("detect %s: %w", name, err)
		}
		a.logger.Debug("detection finished", "elapsed", time.Since(start))
		a.logMetrics()

		out := cmd.OutOrStdout()
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return json.NewEncoder(out).Encode(res)
		}
		fmt.Fprintln(out, detection.Notice(res))
		fmt.Fprintf(out, "Severity:   %s\n", res.Severity)
		fmt.Fprintf(out, "Treatment:  %s\n", res.Treatment)
		fmt.Fprintf(out, "Prevention: %s\n", res.Prevention)
		return nil
	},
}
