package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Schedule.Lanes != 10 {
		t.Errorf("Schedule.Lanes = %d, want 10", cfg.Schedule.Lanes)
	}
	if cfg.Schedule.MinGapTolerance != 0 {
		t.Errorf("Schedule.MinGapTolerance = %v, want 0", cfg.Schedule.MinGapTolerance)
	}
	if cfg.Schedule.MaxStalledPasses != 100 {
		t.Errorf("Schedule.MaxStalledPasses = %d, want 100", cfg.Schedule.MaxStalledPasses)
	}
	if cfg.Schedule.FillGaps {
		t.Error("Schedule.FillGaps should be false by default")
	}

	if cfg.Period.Size != 6 {
		t.Errorf("Period.Size = %v, want 6", cfg.Period.Size)
	}
	if cfg.Period.MaxPeriods != 100 {
		t.Errorf("Period.MaxPeriods = %d, want 100", cfg.Period.MaxPeriods)
	}

	if !slices.Equal(cfg.Intake.ExcludeStatuses, []string{"closed", "done"}) {
		t.Errorf("Intake.ExcludeStatuses = %v, want [closed done]", cfg.Intake.ExcludeStatuses)
	}
	if cfg.Output.Format != "table" {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, "table")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want level info, format console", cfg.Logging)
	}

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default() config is invalid: %v", errs)
	}
}

func TestLoadFrom_DefaultsAndOverrides(t *testing.T) {
	v := viper.New()
	SetDefaultsOn(v)
	v.Set("schedule.lanes", 4)
	v.Set("schedule.fill_gaps", true)
	v.Set("period.size", 2.5)

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Schedule.Lanes != 4 {
		t.Errorf("Schedule.Lanes = %d, want 4", cfg.Schedule.Lanes)
	}
	if !cfg.Schedule.FillGaps {
		t.Error("Schedule.FillGaps = false, want true")
	}
	if cfg.Period.Size != 2.5 {
		t.Errorf("Period.Size = %v, want 2.5", cfg.Period.Size)
	}
	if cfg.Schedule.MaxStalledPasses != 100 {
		t.Errorf("Schedule.MaxStalledPasses = %d, want default 100", cfg.Schedule.MaxStalledPasses)
	}
}

func TestLoadFrom_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `schedule:
  lanes: 3
period:
  size: 8
intake:
  exclude_statuses: [closed, wontfix]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	v := viper.New()
	SetDefaultsOn(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Schedule.Lanes != 3 || cfg.Period.Size != 8 {
		t.Errorf("lanes=%d size=%v, want 3 and 8", cfg.Schedule.Lanes, cfg.Period.Size)
	}
	if !slices.Equal(cfg.Intake.ExcludeStatuses, []string{"closed", "wontfix"}) {
		t.Errorf("ExcludeStatuses = %v", cfg.Intake.ExcludeStatuses)
	}
	if cfg.Output.Format != "table" {
		t.Errorf("Output.Format = %q, want default table", cfg.Output.Format)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	v := viper.New()
	SetDefaultsOn(v)
	v.Set("schedule.lanes", 0)

	_, err := LoadFrom(v)
	if err == nil {
		t.Fatal("LoadFrom() error = nil, want validation error")
	}
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("LoadFrom() error = %T, want ValidationErrors", err)
	}
	if len(errs) != 1 || errs[0].Field != "schedule.lanes" {
		t.Errorf("errors = %v, want one for schedule.lanes", errs)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)

		if got, want := ConfigDir(), filepath.Join(xdg, "sprintpack"); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
		if got, want := ConfigFile(), filepath.Join(xdg, "sprintpack", "config.yaml"); got != want {
			t.Errorf("ConfigFile() = %q, want %q", got, want)
		}
	})

	t.Run("falls back to home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", home)

		if got, want := ConfigDir(), filepath.Join(home, ".config", "sprintpack"); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestLoggingConfig_ResolveDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		dir  string
		want string
	}{
		{"", ""},
		{"/var/log/sprintpack", "/var/log/sprintpack"},
		{"~", home},
		{"~/logs", filepath.Join(home, "logs")},
		{"relative/logs", "relative/logs"},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			l := LoggingConfig{Dir: tt.dir}
			if got := l.ResolveDir(); got != tt.want {
				t.Errorf("ResolveDir() = %q, want %q", got, tt.want)
			}
		})
	}
}
