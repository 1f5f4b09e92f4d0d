package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/LeonardoBeccarini/smartagri/internal/config"
	"github.com/LeonardoBeccarini/smartagri/internal/model"
)

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().Int(config.KeySensors, 4, "Number of simulated sensors")
	monitorCmd.Flags().Duration(config.KeyTickInterval, 10*time.Second, "Interval between sensor ticks")
	monitorCmd.Flags().Bool(config.KeyClamp, false, "Keep perturbed values within physical limits")
	monitorCmd.Flags().Duration("duration", 0, "Stop after this long; 0 runs until interrupted")
	monitorCmd.Flags().Bool("json", false, "Print one JSON document per update")

	for _, k := range []string{config.KeySensors, config.KeyTickInterval, config.KeyClamp, "duration", "json"} {
		v.BindPFlag(k, monitorCmd.Flags().Lookup(k))
	}
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Stream simulated sensor readings to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if d := v.GetDuration("duration"); d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}

		updates := make(chan model.FeedUpdate, 8)
		feed := a.newFeed()
		feed.OnUpdate(func(u model.FeedUpdate) {
			select {
			case updates <- u:
			default:
				a.logger.Warn("output too slow, update skipped", "update_id", u.ID)
			}
		})
		feed.Start()
		defer feed.Stop()

		asJSON := v.GetBool("json")
		out := cmd.OutOrStdout()
		for {
			select {
			case <-ctx.Done():
				feed.Stop()
				a.logMetrics()
				return nil
			case u := <-updates:
				if err := printUpdate(out, u, asJSON); err != nil {
					return err
				}
			}
		}
	},
}

func printUpdate(w io.Writer, u model.FeedUpdate, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(u)
	}
	fmt.Fprintf(w, "%s  %-10s  avg %.1f°C  %.1f%%  soil %.1f%%  online %d/%d\n",
		u.Timestamp.Format(time.TimeOnly), u.Reason,
		u.Summary.AvgTemperature, u.Summary.AvgHumidity, u.Summary.AvgSoilMoisture,
		u.Summary.Online, u.Summary.Total)
	for _, r := range u.Readings {
		fmt.Fprintf(w, "  %-9s %-16s %-7s %5.1f°C %5.1f%% soil %5.1f%% light %5.1f%% battery %5.1f%%\n",
			r.Name, r.Location, r.Status, r.Temperature, r.Humidity, r.SoilMoisture, r.LightLevel, r.BatteryLevel)
	}
	for _, al := range u.Alerts {
		fmt.Fprintf(w, "  ! %s: %s\n", al.Title, al.Detail)
	}
	return nil
}
