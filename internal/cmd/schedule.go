package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/sprintpack/internal/config"
	"github.com/Iron-Ham/sprintpack/internal/errors"
	"github.com/Iron-Ham/sprintpack/internal/intake"
	"github.com/Iron-Ham/sprintpack/internal/schedule"
	"github.com/Iron-Ham/sprintpack/internal/task"
	"github.com/Iron-Ham/sprintpack/internal/watch"
)

type scheduleOptions struct {
	watch       bool
	inputFormat string
}

func newScheduleCmd(a *app) *cobra.Command {
	opts := &scheduleOptions{}
	defaults := config.Default()

	scheduleCmd := &cobra.Command{
		Use:   "schedule <file>",
		Short: "Pack tasks into lanes and sprints",
		Long: `Read tasks from a JSON, YAML, TOML or CSV file and print a schedule.

Tasks are packed into --lanes parallel lanes. A task never starts before
every task it depends on, directly or through an epic, has finished.
Placements are then grouped into sprints of --period-size effort points.

Output formats:
  table - styled summary (default)
  csv   - one "Sprint N" column per sprint, task keys listed down each column
  json  - lanes, span, sprint count and every placement
  yaml  - same as json

With --watch the schedule is printed again every time the file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd, a, opts, args[0])
		},
	}

	flags := scheduleCmd.Flags()
	flags.Int("lanes", defaults.Schedule.Lanes, "number of parallel lanes")
	flags.Float64("period-size", defaults.Period.Size, "effort points per sprint")
	flags.Int("max-periods", defaults.Period.MaxPeriods, "maximum number of sprints")
	flags.StringP("format", "f", defaults.Output.Format, "output format: table, csv, json, yaml")
	flags.Bool("fill-gaps", defaults.Schedule.FillGaps, "let tasks start after idle time in a lane")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "re-run when the input file changes")
	flags.StringVar(&opts.inputFormat, "input-format", "", "input format: json, yaml, toml, csv (default: from file extension)")

	_ = a.v.BindPFlag("schedule.lanes", flags.Lookup("lanes"))
	_ = a.v.BindPFlag("period.size", flags.Lookup("period-size"))
	_ = a.v.BindPFlag("period.max_periods", flags.Lookup("max-periods"))
	_ = a.v.BindPFlag("output.format", flags.Lookup("format"))
	_ = a.v.BindPFlag("schedule.fill_gaps", flags.Lookup("fill-gaps"))

	return scheduleCmd
}

func runSchedule(cmd *cobra.Command, a *app, opts *scheduleOptions, path string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}

	logger, err := a.logger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Close() }()

	planner := schedule.NewPlanner(schedule.OptionsFromConfig(cfg), logger)
	input := inputSource{
		path:   path,
		format: opts.inputFormat,
		opts:   schedule.IntakeOptionsFromConfig(cfg),
	}

	run := func(ctx context.Context) error {
		descs, err := input.load()
		if err != nil {
			return err
		}
		res, err := planner.Run(ctx, descs)
		if err != nil {
			return err
		}
		return writeResult(cmd.OutOrStdout(), res, cfg.Output.Format, cfg.Period.Size)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if !opts.watch {
		return run(ctx)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(path, run, logger)
	if err != nil {
		return err
	}
	if err := run(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(FormatError(err)))
	}
	fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render(fmt.Sprintf("Watching %s for changes (ctrl-c to stop)", path)))

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// inputSource reads task descriptors from a file, using an explicit format
// when one was given and the file extension otherwise.
type inputSource struct {
	path   string
	format string
	opts   intake.Options
}

func (s inputSource) load() ([]task.Descriptor, error) {
	if s.format == "" {
		return intake.Load(s.path, s.opts)
	}

	format, err := intake.ParseFormat(s.format)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open input")
	}
	defer f.Close()

	descs, err := intake.Decode(f, format, s.opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", s.path)
	}
	return descs, nil
}
