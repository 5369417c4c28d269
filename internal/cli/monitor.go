package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/fetch"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/rileyhilliard/sysdash/internal/monitor"
	"github.com/rileyhilliard/sysdash/internal/poller"
	"github.com/rileyhilliard/sysdash/internal/store"
	"github.com/spf13/cobra"
)

var (
	monitorRangeFlag    string
	monitorIntervalFlag string
)

// monitorCmd starts the TUI dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live system metrics dashboard (default command)",
	Long: `Start an interactive dashboard showing CPU, temperature, memory, disk,
network, and the process table for the configured endpoint.

Status refreshes every poll.interval; the process list refreshes on start
and on demand. If the endpoint fails, synthetic data is shown with a banner
explaining why.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Refresh status and processes now
  t / 1-4     Change chart range (hour, day, week, month)
  s           Cycle process sort (CPU, MEM, PID, name)
  up/k down/j Scroll processes
  ?           Show help

Examples:
  sysdash
  sysdash monitor --range day
  sysdash monitor --api http://nas.local:7800/api --interval 2s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		if err := applyMonitorFlags(cfg, monitorRangeFlag, monitorIntervalFlag); err != nil {
			return err
		}
		return monitorCommand(cfg, path)
	},
}

func init() {
	monitorCmd.Flags().StringVar(&monitorRangeFlag, "range", "", "initial chart range: hour, day, week, or month")
	monitorCmd.Flags().StringVar(&monitorIntervalFlag, "interval", "", "status refresh interval (e.g., 2s, 5s, 1m)")
	rootCmd.Flags().AddFlagSet(monitorCmd.Flags())
	rootCmd.AddCommand(monitorCmd)
}

// applyMonitorFlags layers --range and --interval over cfg.
func applyMonitorFlags(cfg *config.Config, rangeFlag, intervalFlag string) error {
	if rangeFlag != "" {
		if _, err := metrics.ParseTimeRange(rangeFlag); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid range: %s", rangeFlag),
				"Use hour, day, week, or month")
		}
		cfg.Monitor.TimeRange = rangeFlag
	}

	if intervalFlag != "" {
		parsed, err := time.ParseDuration(intervalFlag)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid interval: %s", intervalFlag),
				"Use a valid duration like 2s, 5s, or 1m")
		}
		if parsed < config.MinInterval {
			return errors.New(errors.ErrConfig,
				"Interval too short",
				fmt.Sprintf("Minimum interval is %v to avoid overwhelming the endpoint", config.MinInterval))
		}
		cfg.Poll.Interval = parsed
		if cfg.API.Timeout >= parsed {
			cfg.API.Timeout = parsed * 4 / 5
		}
	}
	return nil
}

// thresholdsFrom converts config thresholds for the dashboard.
func thresholdsFrom(cfg *config.Config) monitor.Thresholds {
	t := cfg.Monitor.Thresholds
	return monitor.Thresholds{
		CPUWarning:          t.CPU.Warning,
		CPUCritical:         t.CPU.Critical,
		TemperatureWarning:  t.Temperature.Warning,
		TemperatureCritical: t.Temperature.Critical,
	}
}

// monitorCommand wires fetcher, store, and poller together and runs the TUI
// until the user quits.
func monitorCommand(cfg *config.Config, path string) error {
	// stderr belongs to the alternate screen, so logs go to a file or nowhere.
	log, closer, err := logger.NewFileLogger(cfg.Log.File, "monitor", cfg.Log.Debug)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't open log file %s", cfg.Log.File),
			"Check log.file in your config, or leave it empty to discard logs")
	}
	defer closer.Close()

	if path == "" {
		path = "defaults"
	}
	log.Info("starting dashboard (config: %s, endpoint: %s, interval: %v)", path, cfg.API.BaseURL, cfg.Poll.Interval)

	timeRange, _ := metrics.ParseTimeRange(cfg.Monitor.TimeRange)

	client := fetch.New(fetch.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  log,
	})
	st := store.New(cfg.History.Capacity)
	p := poller.New(poller.Options{
		Fetcher:      client,
		Store:        st,
		Interval:     cfg.Poll.Interval,
		ProcessCount: cfg.Poll.ProcessCount,
		Logger:       log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	defer p.Stop()

	model := monitor.NewModel(monitor.Options{
		Store:      st,
		Refresher:  p,
		Endpoint:   client.BaseURL(),
		TimeRange:  timeRange,
		Thresholds: thresholdsFrom(cfg),
		Logger:     log,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return dashboardError(err)
	}
	log.Info("dashboard closed")
	return nil
}

// dashboardError wraps a failure of the terminal program itself.
func dashboardError(err error) error {
	return errors.WrapWithCode(err, errors.ErrTerminal,
		"Dashboard exited unexpectedly",
		"Check that the terminal supports the alternate screen, or try 'sysdash status'")
}
