package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/LeonardoBeccarini/smartagri/internal/config"
	"github.com/LeonardoBeccarini/smartagri/internal/logging"
	simulator "github.com/LeonardoBeccarini/smartagri/internal/sensor-simulator"
	"github.com/LeonardoBeccarini/smartagri/internal/services/detection"
	"github.com/LeonardoBeccarini/smartagri/pkg/schedule"
	"github.com/LeonardoBeccarini/smartagri/pkg/version"
)

var v = config.New()

var rootCmd = &cobra.Command{
	Use:   version.BinaryName,
	Short: "Smart agriculture demo: crop disease detection, sensor monitoring and analytics",
	Long: `A self-contained smart agriculture demo.

The sensor feed, the disease classifier and the analytics figures are all
simulated in process: nothing is read from real devices and no model is
consulted.`,
	Version:       version.VersionString(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP(config.KeyConfig, "c", "", "Optional YAML config file")
	flags.BoolP(config.KeyVerbose, "v", false, "Boolean flag to enable verbose logging")
	flags.Bool(config.KeyNoColor, false, "Disable coloured log output")
	flags.Uint64(config.KeySeed, 0, "Random seed; 0 seeds from the clock")

	for _, k := range []string{config.KeyConfig, config.KeyVerbose, config.KeyNoColor, config.KeySeed} {
		v.BindPFlag(k, flags.Lookup(k))
	}
}

// Execute is the main entry point for our cobra commands
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds what every command needs once config is resolved.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	sched   *schedule.Scheduler
	metrics *prometheus.Registry
}

func newApp() (*app, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		logger:  logging.New(os.Stderr, cfg.Verbose, cfg.NoColor),
		sched:   schedule.New(clockwork.NewRealClock()),
		metrics: prometheus.NewRegistry(),
	}, nil
}

func (a *app) newFeed() *simulator.SensorSimulator {
	gen := simulator.NewDataGenerator(simulator.NewRandomSource(a.cfg.Seed), a.sched.Clock())
	return simulator.NewSensorSimulator(a.cfg.Feed(), gen, a.sched,
		simulator.WithLogger(a.logger),
		simulator.WithMetrics(simulator.NewMetrics(a.metrics)))
}

// logMetrics dumps the collected metrics at debug level; there is no HTTP
// endpoint to scrape them from.
func (a *app) logMetrics() {
	families, err := a.metrics.Gather()
	if err != nil {
		a.logger.Warn("gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			attrs := []any{"name", mf.GetName()}
			for _, l := range m.GetLabel() {
				attrs = append(attrs, l.GetName(), l.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				attrs = append(attrs, "value", m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				attrs = append(attrs, "value", m.GetGauge().GetValue())
			}
			a.logger.Debug("metric", attrs...)
		}
	}
}

func (a *app) newClassifier() *detection.Classifier {
	return detection.NewClassifier(a.cfg.Detection(), detection.NewPicker(a.cfg.Seed), a.sched,
		detection.WithLogger(a.logger),
		detection.WithMetrics(detection.NewMetrics(a.metrics)))
}
