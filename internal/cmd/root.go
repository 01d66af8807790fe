package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/sprintpack/internal/config"
	"github.com/Iron-Ham/sprintpack/internal/errors"
	"github.com/Iron-Ham/sprintpack/internal/logging"
)

// app holds state shared by every command of one root command tree.
type app struct {
	v       *viper.Viper
	cfgFile string
}

// NewRootCmd builds the sprintpack command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "sprintpack",
		Short: "Pack dependent tasks into parallel lanes and sprints",
		Long: `Sprintpack reads a list of tasks with effort estimates, priorities and
dependencies, packs them into a fixed number of parallel lanes so that
no task starts before everything it depends on has finished, and groups
the result into fixed-size sprints.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/sprintpack/config.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-dir", "", "write JSON logs to this directory")
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.dir", flags.Lookup("log-dir"))

	rootCmd.AddCommand(newScheduleCmd(a))
	rootCmd.AddCommand(newValidateCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) initConfig() error {
	// Set defaults first so they're available even without a config file
	config.SetDefaultsOn(a.v)

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(config.ConfigDir())
		a.v.AddConfigPath(".")
	}

	a.v.SetEnvPrefix("SPRINTPACK")
	// e.g. SPRINTPACK_SCHEDULE_LANES for schedule.lanes
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func (a *app) config() (*config.Config, error) {
	cfg, err := config.LoadFrom(a.v)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// logger returns a JSON file logger when a log directory is configured,
// a JSON stderr logger for the json format, and a console logger on w
// otherwise.
func (a *app) logger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	if dir := cfg.Logging.ResolveDir(); dir != "" {
		return logging.NewLogger(dir, cfg.Logging.Level)
	}
	if strings.EqualFold(cfg.Logging.Format, "json") {
		return logging.NewLogger("", cfg.Logging.Level)
	}
	return logging.NewConsoleLogger(w, cfg.Logging.Level), nil
}
