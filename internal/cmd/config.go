package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/sprintpack/internal/config"
)

// settableKeys maps the keys accepted by "config set" to their value type.
var settableKeys = map[string]string{
	"schedule.lanes":              "int",
	"schedule.min_gap_tolerance":  "float",
	"schedule.max_stalled_passes": "int",
	"schedule.fill_gaps":          "bool",
	"period.size":                 "float",
	"period.max_periods":          "int",
	"intake.exclude_statuses":     "list",
	"intake.skip_schema":          "bool",
	"output.format":               "string",
	"logging.level":               "string",
	"logging.format":              "string",
	"logging.dir":                 "string",
}

func newConfigCmd(a *app) *cobra.Command {
	var force bool

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or modify sprintpack configuration",
		Long: `View or modify sprintpack configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, a)
		},
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, a)
		},
	}

	configSetCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  sprintpack config set schedule.lanes 4
  sprintpack config set period.size 10
  sprintpack config set intake.exclude_statuses closed,done,wontfix

Valid keys:
  ` + strings.Join(sortedSettableKeys(), "\n  "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, a, args[0], args[1])
		},
	}

	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		Long:  `Create a default config file at $XDG_CONFIG_HOME/sprintpack/config.yaml with all available options.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, force)
		},
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigPath(cmd, a)
		},
	}

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	return configCmd
}

func runConfigShow(cmd *cobra.Command, a *app) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if used := a.v.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, a *app, key, value string) error {
	keyType, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'sprintpack config set --help' to see valid keys", key)
	}

	var typedValue any
	switch keyType {
	case "string":
		typedValue = value
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = b
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = n
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected number", key)
		}
		typedValue = f
	case "list":
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		typedValue = items
	}

	a.v.Set(key, typedValue)
	if _, err := a.config(); err != nil {
		return err
	}

	configFile := a.v.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := a.v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)
	return nil
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	configFile := config.ConfigFile()

	if _, err := os.Stat(configFile); err == nil && !force {
		return fmt.Errorf("config file already exists at %s\nUse --force to overwrite it or 'sprintpack config set' to modify values", configFile)
	}
	if err := os.MkdirAll(config.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content, err := defaultConfigYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func defaultConfigYAML() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# sprintpack configuration\n")
	buf.WriteString("# Every key can also be set with a SPRINTPACK_ environment variable,\n")
	buf.WriteString("# e.g. SPRINTPACK_SCHEDULE_LANES for schedule.lanes.\n\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(config.Default()); err != nil {
		return nil, fmt.Errorf("failed to encode default config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode default config: %w", err)
	}
	return buf.Bytes(), nil
}

func runConfigPath(cmd *cobra.Command, a *app) error {
	out := cmd.OutOrStdout()

	if used := a.v.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", config.ConfigFile())
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintln(out, "\nEnvironment variables: SPRINTPACK_* (e.g., SPRINTPACK_SCHEDULE_LANES)")
	return nil
}

func sortedSettableKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
