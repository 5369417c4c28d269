package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile   string
	apiFlag   string
	debugFlag bool
	noColor   bool
)

// rootCmd is the base command. With no subcommand it starts the dashboard.
var rootCmd = &cobra.Command{
	Use:   "sysdash",
	Short: "Terminal dashboard for a single host's system metrics",
	Long: `sysdash polls a metrics endpoint and renders CPU, temperature, memory,
disk, network, and process information as a live terminal dashboard.

When the endpoint is unreachable the dashboard keeps running on synthetic
data and says so, then switches back as soon as the endpoint recovers.

Run 'sysdash serve' on the host you want to watch to expose the endpoint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.DisableColors()
		}
		configureLogging(os.Stderr, debugFlag)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.sysdash.yaml, then ~/.config/sysdash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiFlag, "api", "", "metrics API base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// configureLogging installs the default logger used by one-shot commands.
// --debug or SYSDASH_DEBUG enables debug output.
func configureLogging(w io.Writer, debug bool) {
	logger.SetDefault(logger.New(w, "sysdash", debug || os.Getenv(logger.DebugEnv) != ""))
}

// formatError renders structured errors in full and anything else on one line.
func formatError(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Error()
	}
	return fmt.Sprintf("✗ %v\n", err)
}

// loadConfig resolves config and applies the global flag overrides.
func loadConfig() (*config.Config, string, error) {
	if err := validateOverride(apiFlag); err != nil {
		return nil, "", err
	}
	cfg, path, err := config.Resolve(cfgFile)
	if err != nil {
		return nil, path, err
	}
	return applyOverrides(cfg, apiFlag, debugFlag), path, nil
}

// applyOverrides copies flag values over cfg. Empty and false leave it alone.
func applyOverrides(cfg *config.Config, api string, debug bool) *config.Config {
	if api != "" {
		cfg.API.BaseURL = api
	}
	if debug {
		cfg.Log.Debug = true
	}
	return cfg
}

func validateOverride(api string) error {
	if api == "" {
		return nil
	}
	if err := config.ValidateBaseURL(api); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("--api '%s' isn't usable", api),
			"Pass an absolute URL such as "+config.DefaultBaseURL)
	}
	return nil
}
