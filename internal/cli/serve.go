package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rileyhilliard/sysdash/internal/agent"
	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/spf13/cobra"
)

var serveAddrFlag string

// serveCmd runs the bundled metrics agent
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve this host's metrics over HTTP",
	Long: `Run the metrics agent: a small HTTP server exposing this host's CPU,
temperature, memory, disk, network, and process information in the format
the dashboard consumes.

Routes:
  GET /api/system/status
  GET /api/system/processes
  GET /api/health

Stops cleanly on Ctrl+C or SIGTERM.

Examples:
  sysdash serve
  sysdash serve --addr 0.0.0.0:7800`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddrFlag != "" {
			cfg.Serve.Addr = serveAddrFlag
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serveCommand(ctx, cfg, logger.New(os.Stderr, "agent", cfg.Log.Debug))
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", "", "listen address (overrides serve.addr)")
	rootCmd.AddCommand(serveCmd)
}

// serveCommand runs the agent until ctx is cancelled.
func serveCommand(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	srv := agent.New(agent.Options{
		Collector:      agent.NewHostCollector(cfg.Serve.DiskPath),
		Addr:           cfg.Serve.Addr,
		AllowedOrigins: cfg.Serve.AllowedOrigins,
		Version:        GetVersion(),
		Logger:         log,
		Debug:          cfg.Log.Debug,
	})

	log.Info("serving metrics on http://%s/api (disk: %s)", cfg.Serve.Addr, cfg.Serve.DiskPath)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Info("agent stopped")
	return nil
}
