package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".sysdash.yaml"
	// GlobalConfigDir is the directory for global config, relative to home.
	GlobalConfigDir = ".config/sysdash"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides: api.base_url -> SYSDASH_API_BASE_URL.
	EnvPrefix = "SYSDASH"
)

// Load reads config from path, layered over defaults and environment
// overrides. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Run 'sysdash init' to create a config file, or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .sysdash.yaml in current directory
// 3. ~/.config/sysdash/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if global := GlobalConfigPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// Resolve finds, loads, and validates config. It returns the config and the
// path it came from ("" when running on defaults).
func Resolve(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}

	if err := Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// newViper returns a viper instance with defaults and environment binding.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		where := "your environment"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+where)
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	cfg.Log.File = resolveLogFile(cfg.Log.File, path)

	return cfg, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout.String())
	v.SetDefault("poll.interval", d.Poll.Interval.String())
	v.SetDefault("poll.process_count", d.Poll.ProcessCount)
	v.SetDefault("history.capacity", d.History.Capacity)
	v.SetDefault("monitor.time_range", d.Monitor.TimeRange)
	v.SetDefault("monitor.thresholds.cpu.warning", d.Monitor.Thresholds.CPU.Warning)
	v.SetDefault("monitor.thresholds.cpu.critical", d.Monitor.Thresholds.CPU.Critical)
	v.SetDefault("monitor.thresholds.temperature.warning", d.Monitor.Thresholds.Temperature.Warning)
	v.SetDefault("monitor.thresholds.temperature.critical", d.Monitor.Thresholds.Temperature.Critical)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("serve.disk_path", d.Serve.DiskPath)
	v.SetDefault("serve.allowed_origins", d.Serve.AllowedOrigins)
	v.SetDefault("log.file", "")
	v.SetDefault("log.debug", false)
}
