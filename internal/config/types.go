package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .sysdash.yaml configuration file.
type Config struct {
	Version int           `yaml:"version" mapstructure:"version"`
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Poll    PollConfig    `yaml:"poll" mapstructure:"poll"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Monitor MonitorConfig `yaml:"monitor" mapstructure:"monitor"`
	Serve   ServeConfig   `yaml:"serve" mapstructure:"serve"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// APIConfig locates the metrics endpoint.
type APIConfig struct {
	// BaseURL is the API root; /system/status and /system/processes hang off it.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds each request. Must be shorter than poll.interval.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// PollConfig controls the automatic refresh loop.
type PollConfig struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// ProcessCount is how many synthetic processes to generate when the
	// process endpoint is down.
	ProcessCount int `yaml:"process_count" mapstructure:"process_count"`
}

// HistoryConfig sizes the in-memory status history used for charts.
type HistoryConfig struct {
	Capacity int `yaml:"capacity" mapstructure:"capacity"`
}

// MonitorConfig controls the TUI dashboard.
type MonitorConfig struct {
	// TimeRange is the initial chart range: hour, day, week, or month.
	TimeRange string `yaml:"time_range" mapstructure:"time_range"`

	Thresholds ThresholdConfig `yaml:"thresholds" mapstructure:"thresholds"`
}

// ThresholdConfig holds warning/critical levels for colored metrics.
type ThresholdConfig struct {
	// CPU thresholds are percentages.
	CPU ThresholdValues `yaml:"cpu" mapstructure:"cpu"`

	// Temperature thresholds are degrees Celsius.
	Temperature ThresholdValues `yaml:"temperature" mapstructure:"temperature"`
}

// ThresholdValues defines warning and critical levels for a metric.
type ThresholdValues struct {
	Warning  int `yaml:"warning" mapstructure:"warning"`
	Critical int `yaml:"critical" mapstructure:"critical"`
}

// ServeConfig controls the bundled metrics agent (sysdash serve).
type ServeConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`

	// DiskPath is the mount point whose usage is reported as "disk".
	DiskPath string `yaml:"disk_path" mapstructure:"disk_path"`

	// AllowedOrigins feeds the CORS middleware. "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// File receives logs while the TUI owns the terminal. Empty discards them.
	File string `yaml:"file" mapstructure:"file"`

	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// Defaults shared with other packages.
const (
	DefaultBaseURL      = "http://127.0.0.1:7800/api"
	DefaultServeAddr    = "127.0.0.1:7800"
	DefaultTimeout      = 4 * time.Second
	DefaultInterval     = 5 * time.Second
	MinInterval         = 500 * time.Millisecond
	DefaultProcessCount = 20
	DefaultCapacity     = 720
	MinCapacity         = 30
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Poll: PollConfig{
			Interval:     DefaultInterval,
			ProcessCount: DefaultProcessCount,
		},
		History: HistoryConfig{
			Capacity: DefaultCapacity,
		},
		Monitor: MonitorConfig{
			TimeRange: "hour",
			Thresholds: ThresholdConfig{
				CPU:         ThresholdValues{Warning: 70, Critical: 90},
				Temperature: ThresholdValues{Warning: 50, Critical: 70},
			},
		},
		Serve: ServeConfig{
			Addr:           DefaultServeAddr,
			DiskPath:       "/",
			AllowedOrigins: []string{"*"},
		},
	}
}
