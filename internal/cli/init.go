package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/ui"
	"github.com/spf13/cobra"
)

var (
	initForce          bool
	initNonInteractive bool
	initGlobal         bool
)

// initCmd creates a new .sysdash.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .sysdash.yaml configuration",
	Long: `Create a config file with sensible defaults.

Asks for the metrics endpoint, refresh interval, and initial chart range.
With --non-interactive the defaults (or --api) are written without prompts.

Examples:
  sysdash init
  sysdash init --api http://nas.local:7800/api --non-interactive
  sysdash init --global --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(".", config.ConfigFileName)
		if initGlobal {
			path = config.GlobalConfigPath()
			if path == "" {
				return errors.New(errors.ErrConfig,
					"Can't find your home directory",
					"Run 'sysdash init' without --global to write ./.sysdash.yaml instead")
			}
		}
		return Init(InitOptions{
			Path:           path,
			BaseURL:        apiFlag,
			Overwrite:      initForce,
			NonInteractive: initNonInteractive,
			Out:            cmd.OutOrStdout(),
		})
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "skip prompts and write defaults")
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "write ~/.config/sysdash/config.yaml instead")
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Where to write the config
	BaseURL        string // Pre-specified endpoint
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
	Out            io.Writer
}

// Init writes a new config file.
func Init(opts InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	// Check for existing config
	if _, err := os.Stat(opts.Path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", opts.Path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", opts.Path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if opts.BaseURL != "" {
		cfg.API.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}

	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := config.Save(opts.Path, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", opts.Path),
			"Check directory permissions")
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolSuccess, opts.Path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  sysdash serve    - Expose this host's metrics")
	fmt.Fprintln(out, "  sysdash status   - Check the endpoint answers")
	fmt.Fprintln(out, "  sysdash          - Open the dashboard")
	return nil
}

// promptConfig asks for the values most people change and writes them into cfg.
func promptConfig(cfg *config.Config) error {
	baseURL := cfg.API.BaseURL
	interval := cfg.Poll.Interval.String()
	timeRange := cfg.Monitor.TimeRange

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Metrics endpoint").
				Description("Base URL serving /system/status and /system/processes").
				Placeholder(config.DefaultBaseURL).
				Value(&baseURL).
				Validate(config.ValidateBaseURL),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Refresh interval").
				Description("How often status is fetched (e.g., 2s, 5s, 1m)").
				Placeholder(config.DefaultInterval.String()).
				Value(&interval).
				Validate(validateIntervalInput),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Initial chart range").
				Options(
					huh.NewOption("Last hour", "hour"),
					huh.NewOption("Last 24 hours", "day"),
					huh.NewOption("Last 7 days", "week"),
					huh.NewOption("Last 30 days", "month"),
				).
				Value(&timeRange),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive flag")
	}

	parsed, _ := time.ParseDuration(interval)
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	cfg.Poll.Interval = parsed
	if cfg.API.Timeout >= parsed {
		cfg.API.Timeout = parsed * 4 / 5
	}
	cfg.Monitor.TimeRange = timeRange
	return nil
}

// validateIntervalInput checks a typed refresh interval.
func validateIntervalInput(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("'%s' isn't a duration - try 5s", s)
	}
	if d < config.MinInterval {
		return fmt.Errorf("use at least %v", config.MinInterval)
	}
	return nil
}
