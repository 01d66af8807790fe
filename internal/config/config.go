package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete sprintpack configuration
type Config struct {
	Schedule ScheduleConfig `mapstructure:"schedule" yaml:"schedule"`
	Period   PeriodConfig   `mapstructure:"period" yaml:"period"`
	Intake   IntakeConfig   `mapstructure:"intake" yaml:"intake"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// ScheduleConfig controls lane packing
type ScheduleConfig struct {
	// Lanes is the number of parallel lanes (default: 10)
	Lanes int `mapstructure:"lanes" yaml:"lanes"`
	// MinGapTolerance is the gap tolerance each pass starts from (default: 0)
	MinGapTolerance float64 `mapstructure:"min_gap_tolerance" yaml:"min_gap_tolerance"`
	// MaxStalledPasses is how many consecutive passes may place nothing
	// before the run fails (default: 100)
	MaxStalledPasses int `mapstructure:"max_stalled_passes" yaml:"max_stalled_passes"`
	// FillGaps lets a task start after idle time in its lane instead of
	// waiting for a lane that ends exactly where its dependencies end
	FillGaps bool `mapstructure:"fill_gaps" yaml:"fill_gaps"`
}

// PeriodConfig controls sprint labeling
type PeriodConfig struct {
	// Size is the weight covered by one period (default: 6)
	Size float64 `mapstructure:"size" yaml:"size"`
	// MaxPeriods bounds the number of periods labeled (default: 100)
	MaxPeriods int `mapstructure:"max_periods" yaml:"max_periods"`
}

// IntakeConfig controls how input files are read
type IntakeConfig struct {
	// ExcludeStatuses lists record statuses dropped before scheduling,
	// compared case-insensitively (default: closed, done)
	ExcludeStatuses []string `mapstructure:"exclude_statuses" yaml:"exclude_statuses"`
	// SkipSchema disables JSON Schema validation of JSON input
	SkipSchema bool `mapstructure:"skip_schema" yaml:"skip_schema"`
}

// OutputConfig controls how schedules are printed
type OutputConfig struct {
	// Format is one of: table, csv, json, yaml (default: table)
	Format string `mapstructure:"format" yaml:"format"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, error (default: info)
	Level string `mapstructure:"level" yaml:"level"`
	// Format is "console" for human-readable lines on stderr or "json"
	Format string `mapstructure:"format" yaml:"format"`
	// Dir, when set, writes JSON logs to {dir}/sprintpack.log
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// ResolveDir expands a leading ~ in the log directory.
func (l *LoggingConfig) ResolveDir() string {
	path := l.Dir
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			Lanes:            10,
			MinGapTolerance:  0,
			MaxStalledPasses: 100,
			FillGaps:         false,
		},
		Period: PeriodConfig{
			Size:       6,
			MaxPeriods: 100,
		},
		Intake: IntakeConfig{
			ExcludeStatuses: []string{"closed", "done"},
			SkipSchema:      false,
		},
		Output: OutputConfig{
			Format: "table",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Dir:    "",
		},
	}
}

// SetDefaultsOn registers default values with the given viper instance
func SetDefaultsOn(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("schedule.lanes", defaults.Schedule.Lanes)
	v.SetDefault("schedule.min_gap_tolerance", defaults.Schedule.MinGapTolerance)
	v.SetDefault("schedule.max_stalled_passes", defaults.Schedule.MaxStalledPasses)
	v.SetDefault("schedule.fill_gaps", defaults.Schedule.FillGaps)

	v.SetDefault("period.size", defaults.Period.Size)
	v.SetDefault("period.max_periods", defaults.Period.MaxPeriods)

	v.SetDefault("intake.exclude_statuses", defaults.Intake.ExcludeStatuses)
	v.SetDefault("intake.skip_schema", defaults.Intake.SkipSchema)

	v.SetDefault("output.format", defaults.Output.Format)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.dir", defaults.Logging.Dir)
}

// LoadFrom reads and validates the configuration held by v
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sprintpack")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sprintpack"
	}
	return filepath.Join(home, ".config", "sprintpack")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
