// Package schedule runs the full planning pipeline: build the task graph,
// pack its ordinary tasks into lanes and label the placements with periods.
package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/sprintpack/internal/bucket"
	"github.com/Iron-Ham/sprintpack/internal/config"
	"github.com/Iron-Ham/sprintpack/internal/graph"
	"github.com/Iron-Ham/sprintpack/internal/intake"
	"github.com/Iron-Ham/sprintpack/internal/logging"
	"github.com/Iron-Ham/sprintpack/internal/period"
	"github.com/Iron-Ham/sprintpack/internal/task"
)

// Options configures a Planner.
type Options struct {
	Fill       bucket.Options
	PeriodSize float64
	MaxPeriods int
}

// DefaultOptions mirrors config.Default.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig extracts planner options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Fill: bucket.Options{
			Lanes:            cfg.Schedule.Lanes,
			MinGapTolerance:  cfg.Schedule.MinGapTolerance,
			MaxStalledPasses: cfg.Schedule.MaxStalledPasses,
			FillGaps:         cfg.Schedule.FillGaps,
		},
		PeriodSize: cfg.Period.Size,
		MaxPeriods: cfg.Period.MaxPeriods,
	}
}

// IntakeOptionsFromConfig extracts input decoding options from a loaded
// configuration.
func IntakeOptionsFromConfig(cfg *config.Config) intake.Options {
	return intake.Options{
		ExcludeStatuses: cfg.Intake.ExcludeStatuses,
		SkipSchema:      cfg.Intake.SkipSchema,
	}
}

// Result holds the output of one planning run.
type Result struct {
	RunID       string
	Graph       *graph.Graph
	Diagnostics *graph.Diagnostics
	Schedule    *bucket.Schedule
	Periods     int
	Duration    time.Duration
}

// Planner runs the pipeline. A Planner holds no state between runs and may
// be used from multiple goroutines.
type Planner struct {
	opts   Options
	logger *logging.Logger
	newID  func() string
}

// NewPlanner creates a Planner. A nil logger discards output.
func NewPlanner(opts Options, logger *logging.Logger) *Planner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Planner{
		opts:   opts,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Options returns the planner's options.
func (p *Planner) Options() Options {
	return p.opts
}

// Run plans descs.
//
// When a phase fails, Run returns the error together with a Result holding
// whatever earlier phases produced: a graph error leaves only RunID and
// Diagnostics set, a packing error adds Graph, and a labeling error adds
// Schedule with its first MaxPeriods periods labeled.
func (p *Planner) Run(ctx context.Context, descs []task.Descriptor) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: p.newID()}
	log := p.logger.WithRun(res.RunID)
	log.Debug("planning started", "tasks", len(descs), "lanes", p.opts.Fill.Lanes)

	if err := ctx.Err(); err != nil {
		return res, err
	}

	g, diags, err := p.build(log, descs)
	res.Diagnostics = diags
	if err != nil {
		return res, err
	}
	res.Graph = g

	if err := ctx.Err(); err != nil {
		return res, err
	}

	fillLog := log.WithPhase("fill")
	sched, err := bucket.Fill(g, p.opts.Fill)
	if err != nil {
		fillLog.Error("packing failed", "error", err)
		return res, err
	}
	res.Schedule = sched
	fillLog.Debug("packing finished", "passes", sched.Passes, "span", sched.Span())

	if err := ctx.Err(); err != nil {
		return res, err
	}

	labelLog := log.WithPhase("label")
	n, err := period.Label(sched.Placements(), p.opts.PeriodSize, p.opts.MaxPeriods)
	res.Periods = n
	if err != nil {
		labelLog.Error("labeling failed", "periods", n, "error", err)
		return res, err
	}
	labelLog.Debug("labeling finished", "periods", n, "unlabeled", len(period.Unlabeled(sched.Placements())))

	res.Duration = time.Since(start)
	log.Info("planning finished",
		"placements", len(sched.Placements()),
		"periods", n,
		"span", sched.Span(),
		"duration", res.Duration,
	)
	return res, nil
}

// Check builds and validates the graph for descs without scheduling it.
func (p *Planner) Check(descs []task.Descriptor) (*graph.Graph, *graph.Diagnostics, error) {
	log := p.logger.WithRun(p.newID())
	return p.build(log, descs)
}

func (p *Planner) build(log *logging.Logger, descs []task.Descriptor) (*graph.Graph, *graph.Diagnostics, error) {
	buildLog := log.WithPhase("build")

	g, diags, err := graph.Build(descs)
	for _, d := range diags.All() {
		buildLog.Warn(d.Message, "code", d.Code, "task", d.TaskKey, "related", d.RelatedKey)
	}
	if err != nil {
		buildLog.Error("graph build failed", "error", err)
		return nil, diags, err
	}

	buildLog.Debug("graph built",
		"tasks", g.Len(),
		"ordinary", len(g.Ordinary()),
		"groups", len(g.Groups()),
		"diagnostics", diags.Len(),
	)
	return g, diags, nil
}
