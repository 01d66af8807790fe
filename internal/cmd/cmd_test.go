package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Iron-Ham/sprintpack/internal/errors"
	"github.com/Iron-Ham/sprintpack/internal/export"
	"github.com/Iron-Ham/sprintpack/internal/testutil"
)

const threeTasks = `[
  {"key": "A", "points": 3, "summary": "first"},
  {"key": "B", "points": 2, "dependencies": ["A"]},
  {"key": "C", "points": 1}
]`

// executeCommand runs a fresh command tree with args and returns captured
// stdout and stderr.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

// setupTestEnvironment isolates the user config directory and returns a
// temporary directory for input files.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	testutil.IsolateConfig(t)
	return t.TempDir()
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	return testutil.WriteFile(t, dir, name, content)
}

func TestRootCommand(t *testing.T) {
	root := NewRootCmd()
	if root.Use != "sprintpack" {
		t.Errorf("root.Use = %q, want %q", root.Use, "sprintpack")
	}

	cmdMap := make(map[string]bool)
	for _, c := range root.Commands() {
		cmdMap[c.Name()] = true
	}
	for _, expected := range []string{"schedule", "validate", "config"} {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestScheduleCommand_CSV(t *testing.T) {
	dir := setupTestEnvironment(t)
	path := writeInput(t, dir, "issues.json", threeTasks)

	out, _, err := executeCommand(t, "schedule", path, "--lanes", "3", "--period-size", "2", "--format", "csv")
	if err != nil {
		t.Fatalf("schedule error = %v", err)
	}

	want := "Sprint 1,Sprint 2\nC,B\nA,\n"
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
}

func TestScheduleCommand_JSON(t *testing.T) {
	dir := setupTestEnvironment(t)
	path := writeInput(t, dir, "issues.json", threeTasks)

	out, _, err := executeCommand(t, "schedule", path, "--lanes", "3", "--period-size", "2", "-f", "json")
	if err != nil {
		t.Fatalf("schedule error = %v", err)
	}

	var doc export.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if doc.Lanes != 3 || doc.Span != 5 || doc.Periods != 2 {
		t.Errorf("Document = %+v", doc)
	}
}

func TestScheduleCommand_Table(t *testing.T) {
	dir := setupTestEnvironment(t)
	path := writeInput(t, dir, "issues.json", threeTasks)

	out, _, err := executeCommand(t, "schedule", path, "--lanes", "3", "--period-size", "2")
	if err != nil {
		t.Fatalf("schedule error = %v", err)
	}

	for _, want := range []string{"Schedule", "Sprint 1", "Sprint 2", "first", "Lanes", "A → B"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Warnings") {
		t.Errorf("output has warnings section for clean input:\n%s", out)
	}
}

func TestScheduleCommand_TableWarnings(t *testing.T) {
	dir := setupTestEnvironment(t)
	path := writeInput(t, dir, "issues.yaml", "- key: A\n- key: B\n  dependencies: A\n")

	out, _, err := executeCommand(t, "schedule", path, "--lanes", "2")
	if err != nil {
		t.Fatalf("schedule error = %v", err)
	}
	if !strings.Contains(out, "Warnings (2)") || !strings.Contains(out, "default_effort") {
		t.Errorf("output missing default effort warnings:\n%s", out)
	}
}

func TestScheduleCommand_ConfigSources(t *testing.T) {
	want := "Sprint 1,Sprint 2\nC,B\nA,\n"

	t.Run("environment", func(t *testing.T) {
		dir := setupTestEnvironment(t)
		path := writeInput(t, dir, "issues.json", threeTasks)
		t.Setenv("SPRINTPACK_SCHEDULE_LANES", "3")
		t.Setenv("SPRINTPACK_PERIOD_SIZE", "2")
		t.Setenv("SPRINTPACK_OUTPUT_FORMAT", "csv")

		out, _, err := executeCommand(t, "schedule", path)
		if err != nil {
			t.Fatalf("schedule error = %v", err)
		}
		if out != want {
			t.Errorf("output =\n%s\nwant\n%s", out, want)
		}
	})

	t.Run("config file", func(t *testing.T) {
		dir := setupTestEnvironment(t)
		path := writeInput(t, dir, "issues.json", threeTasks)
		cfgPath := writeInput(t, dir, "sprintpack.yaml",
			"schedule:\n  lanes: 3\nperiod:\n  size: 2\noutput:\n  format: csv\n")

		out, _, err := executeCommand(t, "--config", cfgPath, "schedule", path)
		if err != nil {
			t.Fatalf("schedule error = %v", err)
		}
		if out != want {
			t.Errorf("output =\n%s\nwant\n%s", out, want)
		}
	})

	t.Run("flag overrides config file", func(t *testing.T) {
		dir := setupTestEnvironment(t)
		path := writeInput(t, dir, "issues.json", threeTasks)
		cfgPath := writeInput(t, dir, "sprintpack.yaml", "schedule:\n  lanes: 1\noutput:\n  format: csv\n")

		out, _, err := executeCommand(t, "--config", cfgPath, "schedule", path, "--lanes", "3", "--period-size", "2")
		if err != nil {
			t.Fatalf("schedule error = %v", err)
		}
		if out != want {
			t.Errorf("output =\n%s\nwant\n%s", out, want)
		}
	})
}

func TestScheduleCommand_InputFormat(t *testing.T) {
	dir := setupTestEnvironment(t)
	path := writeInput(t, dir, "issues.txt", "- key: A\n  points: 1\n- key: B\n  points: 1\n")

	if _, _, err := executeCommand(t, "schedule", path); !errors.Is(err, errors.ErrUnsupportedFormat) {
		t.Errorf("schedule without --input-format error = %v, want ErrUnsupportedFormat", err)
	}

	out, _, err := executeCommand(t, "schedule", path, "--input-format", "yaml", "-f", "csv")
	if err != nil {
		t.Fatalf("schedule error = %v", err)
	}
	// Both tasks start at 0; B lands in the lower lane and is listed first.
	if out != "Sprint 1\nB\nA\n" {
		t.Errorf("output = %q", out)
	}
}

func TestScheduleCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "unresolved dependency",
			input:   `[{"key": "A", "dependencies": "MISSING"}]`,
			wantErr: errors.ErrUnresolvedDependency,
		},
		{
			name:    "circular dependency",
			input:   `[{"key": "A", "dependencies": "B"}, {"key": "B", "dependencies": "A"}]`,
			wantErr: errors.ErrCircularDependency,
		},
		{
			name:    "schema violation",
			input:   `[{"summary": "no key"}]`,
			wantErr: errors.ErrInvalidInput,
		},
		{
			name:    "invalid lane count",
			input:   threeTasks,
			args:    []string{"--lanes", "0"},
			wantMsg: "schedule.lanes",
		},
		{
			name:    "invalid output format",
			input:   threeTasks,
			args:    []string{"--format", "xml"},
			wantMsg: "output.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupTestEnvironment(t)
			path := writeInput(t, dir, "issues.json", tt.input)

			args := append([]string{"schedule", path}, tt.args...)
			_, _, err := executeCommand(t, args...)
			if err == nil {
				t.Fatal("schedule error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("schedule error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("schedule error = %v, want mention of %s", err, tt.wantMsg)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	dir := setupTestEnvironment(t)
	path := writeInput(t, dir, "issues.json", `[
  {"key": "E1", "type": "Epic"},
  {"key": "A", "points": 1, "epic": "E1"},
  {"key": "B", "dependencies": "E1"}
]`)

	out, _, err := executeCommand(t, "validate", path)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "3 tasks, 1 epics") {
		t.Errorf("output missing task counts:\n%s", out)
	}
	if !strings.Contains(out, "default_effort") {
		t.Errorf("output missing default effort warning for B:\n%s", out)
	}
}

func TestValidateCommand_AllFormats(t *testing.T) {
	for _, format := range []string{"json", "yaml", "toml", "csv"} {
		t.Run(format, func(t *testing.T) {
			testutil.IsolateConfig(t)
			path := testutil.WriteIssues(t, format)

			out, _, err := executeCommand(t, "validate", path)
			if err != nil {
				t.Fatalf("validate error = %v", err)
			}
			if !strings.Contains(out, "8 tasks, 2 epics") {
				t.Errorf("output = %q, want 8 tasks and 2 epics", out)
			}
		})
	}
}

func TestValidateCommand_JSON(t *testing.T) {
	type report struct {
		Valid       bool   `json:"valid"`
		Tasks       int    `json:"tasks"`
		Error       string `json:"error"`
		Diagnostics []struct {
			Severity string `json:"severity"`
			Code     string `json:"code"`
			TaskKey  string `json:"task_key"`
		} `json:"diagnostics"`
	}

	t.Run("valid with warning", func(t *testing.T) {
		dir := setupTestEnvironment(t)
		path := writeInput(t, dir, "issues.json", `[{"key": "A"}]`)

		out, _, err := executeCommand(t, "validate", path, "--json")
		if err != nil {
			t.Fatalf("validate error = %v", err)
		}
		var r report
		if err := json.Unmarshal([]byte(out), &r); err != nil {
			t.Fatalf("output is not valid JSON: %v\n%s", err, out)
		}
		if !r.Valid || r.Tasks != 1 || len(r.Diagnostics) != 1 {
			t.Fatalf("report = %+v", r)
		}
		if d := r.Diagnostics[0]; d.Severity != "warning" || d.Code != "default_effort" || d.TaskKey != "A" {
			t.Errorf("diagnostic = %+v", d)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		dir := setupTestEnvironment(t)
		path := writeInput(t, dir, "issues.json", `[{"key": "A", "points": 1, "dependencies": "A"}]`)

		out, _, err := executeCommand(t, "validate", path, "--json")
		if !errors.Is(err, errors.ErrSelfDependency) {
			t.Fatalf("validate error = %v, want ErrSelfDependency", err)
		}
		var r report
		if err := json.Unmarshal([]byte(out), &r); err != nil {
			t.Fatalf("output is not valid JSON: %v\n%s", err, out)
		}
		if r.Valid || r.Error == "" || r.Diagnostics == nil {
			t.Errorf("report = %+v, want invalid with error and empty diagnostics", r)
		}
	})
}

func TestConfigCommand_InitAndShow(t *testing.T) {
	setupTestEnvironment(t)

	out, _, err := executeCommand(t, "config", "init")
	if err != nil {
		t.Fatalf("config init error = %v", err)
	}
	configFile := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "sprintpack", "config.yaml")
	if !strings.Contains(out, configFile) {
		t.Errorf("init output = %q, want path %s", out, configFile)
	}
	if _, err := os.Stat(configFile); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	if _, _, err := executeCommand(t, "config", "init"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init error = %v, want already exists", err)
	}
	if _, _, err := executeCommand(t, "config", "init", "--force"); err != nil {
		t.Errorf("init --force error = %v", err)
	}

	out, _, err = executeCommand(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"# Config file: " + configFile, "lanes: 10", "size: 6", "- closed"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCommand_Set(t *testing.T) {
	setupTestEnvironment(t)
	configFile := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "sprintpack", "config.yaml")

	if _, _, err := executeCommand(t, "config", "set", "schedule.lanes", "4"); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	if _, _, err := executeCommand(t, "config", "set", "intake.exclude_statuses", "closed, wontfix"); err != nil {
		t.Fatalf("config set error = %v", err)
	}

	out, _, err := executeCommand(t, "config")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	for _, want := range []string{"lanes: 4", "- wontfix"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "schedule.speed", "1"},
		{"not an integer", "schedule.lanes", "many"},
		{"not a bool", "schedule.fill_gaps", "maybe"},
		{"fails validation", "period.size", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := os.ReadFile(configFile)
			if err != nil {
				t.Fatalf("failed to read config: %v", err)
			}
			if _, _, err := executeCommand(t, "config", "set", tt.key, tt.value); err == nil {
				t.Errorf("config set %s %s error = nil, want error", tt.key, tt.value)
			}
			after, err := os.ReadFile(configFile)
			if err != nil {
				t.Fatalf("failed to read config: %v", err)
			}
			if !bytes.Equal(before, after) {
				t.Error("config file changed after a rejected set")
			}
		})
	}
}

func TestConfigCommand_Path(t *testing.T) {
	setupTestEnvironment(t)

	out, _, err := executeCommand(t, "config", "path")
	if err != nil {
		t.Fatalf("config path error = %v", err)
	}
	configFile := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "sprintpack", "config.yaml")
	if !strings.Contains(out, "Default path: "+configFile) {
		t.Errorf("path output = %q", out)
	}
	if !strings.Contains(out, "SPRINTPACK_") {
		t.Errorf("path output missing environment hint: %q", out)
	}
}
