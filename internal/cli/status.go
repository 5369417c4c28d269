package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/muesli/termenv"
	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/fetch"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/rileyhilliard/sysdash/internal/monitor"
	"github.com/rileyhilliard/sysdash/internal/poller"
	"github.com/rileyhilliard/sysdash/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	statusJSON      bool
	statusProcesses int
)

// statusCmd prints one live reading and exits
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Fetch one reading from the endpoint and print it",
	Long: `Fetch the current status (and optionally the top processes) once and print
them. Unlike the dashboard there is no synthetic fallback: if the endpoint
can't be reached or returns bad data, the error is printed and the exit
code is non-zero.

Examples:
  sysdash status
  sysdash status --processes 10
  sysdash status --json | jq .data.status.cpu`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			if statusJSON {
				_ = WriteJSONFromError(cmd.OutOrStdout(), err)
			}
			return err
		}

		if termenv.EnvNoColor() {
			ui.DisableColors()
		}

		return statusCommand(cmd.Context(), cfg, StatusOptions{
			JSON:        statusJSON,
			Processes:   statusProcesses,
			Out:         cmd.OutOrStdout(),
			Interactive: term.IsTerminal(int(os.Stdout.Fd())),
		})
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	statusCmd.Flags().IntVar(&statusProcesses, "processes", 0, "also list the top N processes by CPU")
	rootCmd.AddCommand(statusCmd)
}

// StatusOptions controls one-shot status output.
type StatusOptions struct {
	JSON        bool
	Processes   int
	Out         io.Writer
	Interactive bool // show a spinner while fetching
}

// statusCommand fetches live data once. Fetch errors are returned as-is so
// the exit code reflects them.
func statusCommand(ctx context.Context, cfg *config.Config, opts StatusOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Processes < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("--processes can't be negative (got %d)", opts.Processes),
			"Pass 0 to skip the process list")
	}

	client := fetch.New(fetch.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  logger.Default(),
	})

	var spinner *ui.Spinner
	if opts.Interactive && !opts.JSON {
		spinner = ui.NewSpinner("Fetching "+client.BaseURL(), os.Stderr)
		spinner.Start()
	}

	snap, err := fetchOnce(ctx, client, opts.Processes)
	if spinner != nil {
		if err != nil {
			spinner.Fail()
		} else {
			spinner.Success()
		}
	}
	if err != nil {
		if opts.JSON {
			_ = WriteJSONFromError(opts.Out, err)
		}
		return err
	}

	if opts.JSON {
		return WriteJSONSuccess(opts.Out, snap)
	}
	_, err = io.WriteString(opts.Out, renderStatusReport(client.BaseURL(), snap, cfg.Monitor.Thresholds))
	return err
}

// fetchOnce reads the status, then the top processes when wanted.
func fetchOnce(ctx context.Context, f poller.Fetcher, processes int) (metrics.Snapshot, error) {
	status, err := f.FetchStatus(ctx)
	if err != nil {
		return metrics.Snapshot{}, err
	}
	snap := metrics.Snapshot{
		Status:     status,
		CapturedAt: time.Now(),
		Source:     metrics.SourceLive,
	}

	if processes == 0 {
		return snap, nil
	}

	ps, err := f.FetchProcesses(ctx)
	if err != nil {
		return metrics.Snapshot{}, err
	}
	ps = metrics.SortProcesses(ps, metrics.SortByCPU)
	if len(ps) > processes {
		ps = ps[:processes]
	}
	snap.Processes = ps
	snap.ProcessesAt = time.Now()
	snap.ProcessesSource = metrics.SourceLive
	return snap, nil
}

// renderStatusReport formats a snapshot as aligned key/value lines followed
// by the process table, if any.
func renderStatusReport(endpoint string, snap metrics.Snapshot, th config.ThresholdConfig) string {
	s := snap.Status
	cpu := metrics.ClampPercent(s.CPU.UsagePercent)

	temp := ui.MutedStyle().Render("n/a")
	if c := s.CPU.TemperatureC; c > 0 {
		temp = ui.LevelStyle(c, float64(th.Temperature.Warning), float64(th.Temperature.Critical)).
			Render(fmt.Sprintf("%.1f°C", c))
	}

	usage := func(u metrics.Usage) string {
		pct := metrics.ClampPercent(u.UsagePercent)
		return ui.LevelStyle(pct, monitor.WarningThreshold, monitor.CriticalThreshold).Render(metrics.FormatPercent(pct)) + "  " +
			ui.MutedStyle().Render(metrics.FormatBytes(u.UsedBytes)+" / "+metrics.FormatBytes(u.TotalBytes))
	}

	network := ui.MutedStyle().Render("no interfaces")
	if iface, ok := s.PrimaryInterface(); ok {
		network = iface.Name + "  " + ui.MutedStyle().Render(
			"rx "+metrics.FormatBytes(iface.BytesRecv)+" · tx "+metrics.FormatBytes(iface.BytesSent))
	}

	out := ui.RenderKeyValues([]ui.KeyValue{
		{Key: "Endpoint", Value: endpoint},
		{Key: "CPU", Value: ui.LevelStyle(cpu, float64(th.CPU.Warning), float64(th.CPU.Critical)).Render(metrics.FormatPercent(cpu))},
		{Key: "Temperature", Value: temp},
		{Key: "Memory", Value: usage(s.Memory)},
		{Key: "Disk", Value: usage(s.Disk)},
		{Key: "Network", Value: network},
	})

	if len(snap.Processes) == 0 {
		return out
	}

	rows := make([][]string, len(snap.Processes))
	for i, p := range snap.Processes {
		rows[i] = []string{
			strconv.FormatUint(uint64(p.PID), 10),
			p.Name,
			fmt.Sprintf("%.1f", p.CPUPercent),
			fmt.Sprintf("%.1f", p.MemPercent),
			p.Status.Label(),
		}
	}
	return out + "\n" + ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "PID", Width: 8},
		{Title: "Name", Width: 24},
		{Title: "CPU %", Width: 8},
		{Title: "MEM %", Width: 8},
		{Title: "Status", Width: 10},
	}, rows) + "\n"
}
