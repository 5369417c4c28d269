package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but sysdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade sysdash or lower the version field.")
	}

	if err := validateAPI(cfg.API, cfg.Poll); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'api' and 'poll' sections in your .sysdash.yaml.")
	}

	if err := validatePoll(cfg.Poll); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'poll' section in your .sysdash.yaml.")
	}

	if cfg.History.Capacity < MinCapacity {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history.capacity is %d, but the month view needs at least %d samples", cfg.History.Capacity, MinCapacity),
			fmt.Sprintf("Set history.capacity to %d or more (default %d).", MinCapacity, DefaultCapacity))
	}

	if err := validateMonitor(cfg.Monitor); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'monitor' section in your .sysdash.yaml.")
	}

	if err := validateServe(cfg.Serve); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'serve' section in your .sysdash.yaml.")
	}

	return nil
}

// ValidateBaseURL checks that s is an absolute http(s) URL.
func ValidateBaseURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("api.base_url is empty - point it at the metrics API, e.g. %s", DefaultBaseURL)
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("api.base_url '%s' isn't a valid URL: %v", s, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url '%s' needs an http:// or https:// scheme", s)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url '%s' is missing a host", s)
	}
	return nil
}

func validateAPI(api APIConfig, poll PollConfig) error {
	if err := ValidateBaseURL(api.BaseURL); err != nil {
		return err
	}
	if api.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive (got %v)", api.Timeout)
	}
	if poll.Interval > 0 && api.Timeout >= poll.Interval {
		return fmt.Errorf("api.timeout (%v) must be shorter than poll.interval (%v) - otherwise fetches pile up behind each other", api.Timeout, poll.Interval)
	}
	return nil
}

func validatePoll(poll PollConfig) error {
	if poll.Interval < MinInterval {
		return fmt.Errorf("poll.interval %v is too short - use at least %v", poll.Interval, MinInterval)
	}
	if poll.ProcessCount < 0 {
		return fmt.Errorf("poll.process_count can't be negative (got %d)", poll.ProcessCount)
	}
	return nil
}

func validateMonitor(monitor MonitorConfig) error {
	if _, err := metrics.ParseTimeRange(monitor.TimeRange); err != nil {
		return fmt.Errorf("monitor.time_range: %v", err)
	}
	if err := validateThresholds("cpu", monitor.Thresholds.CPU, 100); err != nil {
		return err
	}
	if err := validateThresholds("temperature", monitor.Thresholds.Temperature, 150); err != nil {
		return err
	}
	return nil
}

// validateThresholds checks a threshold configuration for a single metric type.
func validateThresholds(name string, thresh ThresholdValues, max int) error {
	if thresh.Warning < 0 || thresh.Warning > max {
		return fmt.Errorf("monitor.thresholds.%s.warning needs to be 0-%d (got %d)", name, max, thresh.Warning)
	}
	if thresh.Critical < 0 || thresh.Critical > max {
		return fmt.Errorf("monitor.thresholds.%s.critical needs to be 0-%d (got %d)", name, max, thresh.Critical)
	}
	if thresh.Warning >= thresh.Critical {
		return fmt.Errorf("monitor.thresholds.%s.warning (%d) is not below critical (%d) - should be the other way around", name, thresh.Warning, thresh.Critical)
	}
	return nil
}

func validateServe(serve ServeConfig) error {
	if strings.TrimSpace(serve.Addr) == "" {
		return fmt.Errorf("serve.addr is empty - try %s", DefaultServeAddr)
	}
	if strings.TrimSpace(serve.DiskPath) == "" {
		return fmt.Errorf("serve.disk_path is empty - use '/' for the root volume")
	}
	for _, origin := range serve.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			return fmt.Errorf("serve.allowed_origins has an empty entry - remove it")
		}
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("serve.allowed_origins entry '%s' must be \"*\" or start with http:// or https://", origin)
		}
	}
	return nil
}
