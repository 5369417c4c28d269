package doctor

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/sysdash/internal/config"
)

// NewConfigChecks returns the config checks for an explicit path, or the
// normal search order when path is empty.
func NewConfigChecks(path string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: path},
		&ConfigSchemaCheck{ConfigPath: path},
	}
}

// ConfigFileCheck reports which config file is in effect.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(ctx context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %v", summarize(err)),
			Suggestion: "Check the --config path, or run 'sysdash init' to create a config",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, running on defaults",
			Suggestion: "Run 'sysdash init' to create a .sysdash.yaml config file",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", path),
	}
}

// ConfigSchemaCheck loads and validates the config in effect.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return CategoryConfig }

func (c *ConfigSchemaCheck) Run(ctx context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		// ConfigFileCheck reports this
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot validate schema: config file unavailable",
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load config: %s", summarize(err)),
			Suggestion: "Check the YAML syntax in your config file",
		}
	}

	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Schema error: %s", summarize(err)),
			Suggestion: "Fix the configuration errors in your config file",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Schema valid (endpoint %s, every %v)", cfg.API.BaseURL, cfg.Poll.Interval),
	}
}
