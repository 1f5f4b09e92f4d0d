package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/LeonardoBeccarini/smartagri/internal/config"
	"github.com/LeonardoBeccarini/smartagri/internal/logging"
	"github.com/LeonardoBeccarini/smartagri/internal/services/analytics"
	"github.com/LeonardoBeccarini/smartagri/internal/services/dashboard"
	"github.com/LeonardoBeccarini/smartagri/internal/services/router"
)

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().String("log-file", "", "Write logs to this file while the dashboard is open")
	dashboardCmd.Flags().String(config.KeyTimeRange, "30d", "Initial analytics time range (7d, 30d, 90d, 1y)")
	v.BindPFlag("log-file", dashboardCmd.Flags().Lookup("log-file"))
	v.BindPFlag(config.KeyTimeRange, dashboardCmd.Flags().Lookup(config.KeyTimeRange))
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		// the terminal belongs to the UI; logs go to a file or nowhere
		a.logger = logging.Discard()
		if path := v.GetString("log-file"); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			a.logger = logging.New(f, a.cfg.Verbose, true)
		}

		panel := analytics.NewPanel(nil)
		if err := panel.SetTimeRange(a.cfg.TimeRange); err != nil {
			return err
		}

		feed := a.newFeed()
		defer feed.Stop()

		m := dashboard.New(dashboard.Deps{
			Router:     router.New(a.logger),
			Feed:       feed,
			Classifier: a.newClassifier(),
			Analytics:  panel,
			Logger:     a.logger,
		})
		if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		a.logMetrics()
		return nil
	},
}
