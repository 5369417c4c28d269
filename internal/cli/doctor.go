package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/doctor"
	"github.com/rileyhilliard/sysdash/internal/fetch"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/ui"
	"github.com/spf13/cobra"
)

var doctorJSON bool

// errChecksFailed makes 'sysdash doctor' exit non-zero after printing its report.
var errChecksFailed = stderrors.New("one or more checks failed")

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, endpoint, and agent problems",
	Long: `Run diagnostic checks and print a report:

  CONFIG    which config file is in effect and whether it validates
  ENDPOINT  whether the metrics API answers, how fast, and with what
  AGENT     whether 'sysdash serve' could run on this machine

Warnings don't affect the exit code; failures do.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			// The CONFIG checks report the problem; check the endpoint on defaults.
			cfg = applyOverrides(config.DefaultConfig(), "", debugFlag)
			if validateOverride(apiFlag) == nil {
				cfg = applyOverrides(cfg, apiFlag, false)
			}
		}
		if path == "" {
			path = cfgFile
		}
		return doctorCommand(cmd.Context(), collectChecks(path, cfg), DoctorOptions{
			JSON: doctorJSON,
			Out:  cmd.OutOrStdout(),
		})
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOptions controls report output.
type DoctorOptions struct {
	JSON bool
	Out  io.Writer
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

// collectChecks gathers every check for the config at cfgPath and the
// effective cfg.
func collectChecks(cfgPath string, cfg *config.Config) []doctor.Check {
	client := fetch.New(fetch.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  logger.Default(),
	})

	var checks []doctor.Check
	checks = append(checks, doctor.NewConfigChecks(cfgPath)...)
	checks = append(checks, doctor.NewEndpointChecks(client, client.BaseURL(), cfg.API.Timeout)...)
	checks = append(checks, doctor.NewAgentChecks(cfg.Serve)...)
	return checks
}

// doctorCommand runs checks and reports them. It returns errChecksFailed
// when any check failed.
func doctorCommand(ctx context.Context, checks []doctor.Check, opts DoctorOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := doctor.RunAll(ctx, checks)

	var err error
	if opts.JSON {
		err = outputDoctorJSON(opts.Out, checks, results)
	} else {
		_, err = io.WriteString(opts.Out, renderDoctorText(checks, results))
	}
	if err != nil {
		return err
	}

	if doctor.HasFailures(results) {
		return errChecksFailed
	}
	return nil
}

// buildDoctorOutput groups results by category in report order.
func buildDoctorOutput(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	grouped := doctor.GroupByCategory(checks)

	output := DoctorOutput{Categories: make([]CategoryOutput, 0, len(grouped))}
	for _, cat := range doctor.Categories {
		indices := grouped[cat]
		if len(indices) == 0 {
			continue
		}
		co := CategoryOutput{Name: cat, Results: make([]doctor.CheckResult, 0, len(indices))}
		for _, idx := range indices {
			co.Results = append(co.Results, results[idx])
		}
		output.Categories = append(output.Categories, co)
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		AllClear: !doctor.HasIssues(results),
	}
	return output
}

func outputDoctorJSON(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildDoctorOutput(checks, results))
}

// renderDoctorText renders the human-readable report.
func renderDoctorText(checks []doctor.Check, results []doctor.CheckResult) string {
	headerStyle := lipgloss.NewStyle().Bold(true)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("sysdash Diagnostic Report"))
	b.WriteString("\n\n")

	for _, category := range buildDoctorOutput(checks, results).Categories {
		b.WriteString(headerStyle.Render(category.Name))
		b.WriteString("\n")
		for _, result := range category.Results {
			renderCheckResult(&b, result)
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("━", 60))
	b.WriteString("\n\n")

	summary := doctor.Summary(results)
	switch {
	case doctor.HasFailures(results):
		fmt.Fprintf(&b, "%s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), summary)
	case doctor.HasIssues(results):
		fmt.Fprintf(&b, "%s %s\n", ui.WarningStyle().Render(ui.SymbolWarning), summary)
	default:
		fmt.Fprintf(&b, "%s %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), summary)
	}
	b.WriteString("\n")
	return b.String()
}

// renderCheckResult renders a single check result.
func renderCheckResult(b *strings.Builder, result doctor.CheckResult) {
	var symbol string
	var style lipgloss.Style

	switch result.Status {
	case doctor.StatusPass:
		symbol, style = ui.SymbolSuccess, ui.SuccessStyle()
	case doctor.StatusWarn:
		symbol, style = ui.SymbolWarning, ui.WarningStyle()
	default:
		symbol, style = ui.SymbolFail, ui.ErrorStyle()
	}

	fmt.Fprintf(b, "  %s %s\n", style.Render(symbol), result.Message)

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(b, "    %s\n", ui.MutedStyle().Render(line))
		}
	}
}
