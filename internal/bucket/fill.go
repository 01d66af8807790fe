package bucket

import (
	"fmt"
	"math"
	"slices"

	"github.com/Iron-Ham/sprintpack/internal/errors"
	"github.com/Iron-Ham/sprintpack/internal/graph"
	"github.com/Iron-Ham/sprintpack/internal/task"
)

// instantAddMaximumGapTolerance bounds the weight a lane may reach when a
// task is added to it for free, without extending the schedule.
const instantAddMaximumGapTolerance = 0

// Options controls a Fill run.
type Options struct {
	// Lanes is the number of parallel lanes. Must be at least 1.
	Lanes int

	// MinGapTolerance is the gap tolerance of the first pass. A pass that
	// places a task resets the tolerance so the next pass runs at
	// MinGapTolerance+1.
	MinGapTolerance float64

	// MaxStalledPasses is the number of consecutive passes that may place
	// nothing before Fill gives up.
	MaxStalledPasses int

	// FillGaps allows a task to start later than the current end of its lane
	// when its dependencies finish after that point. Without it such a task
	// is deferred until a lane reaches its dependencies' end, which may
	// never happen. With it, a pass that places nothing raises the tolerance
	// straight to the smallest gap that held a ready task back.
	FillGaps bool
}

// DefaultOptions returns a single-lane configuration.
func DefaultOptions() Options {
	return Options{
		Lanes:            1,
		MinGapTolerance:  0,
		MaxStalledPasses: 100,
	}
}

// Fill places every ordinary task of g into opts.Lanes lanes.
//
// Each pass sorts the remaining tasks with CompareTasks and places at most one
// of them. A pass that places nothing raises the gap tolerance by at least
// one; a pass that places a task resets it. When more than opts.MaxStalledPasses passes in
// a row place nothing, Fill returns a *errors.SchedulingError wrapping
// errors.ErrNotConverged and no schedule.
func Fill(g *graph.Graph, opts Options) (*Schedule, error) {
	if g == nil {
		return nil, errors.NewValidationError("graph is required").WithField("graph")
	}
	if opts.Lanes < 1 {
		return nil, errors.NewValidationError("lane count must be at least 1").
			WithField("lanes").
			WithValue(opts.Lanes)
	}

	f := &filler{
		graph:  g,
		opts:   opts,
		lanes:  make([]*Lane, opts.Lanes),
		placed: make([]*Placement, g.Len()),
	}
	for i := range f.lanes {
		f.lanes[i] = &Lane{Index: i}
	}

	remaining := g.Ordinary()
	compare := CompareTasks(g)
	tolerance := opts.MinGapTolerance
	stalled := 0
	passes := 0

	for len(remaining) > 0 {
		passes++
		slices.SortStableFunc(remaining, compare)

		placedAt := -1
		smallestGap := math.Inf(1)
		for i, t := range remaining {
			placed, gap := f.tryPlace(t, tolerance)
			if placed {
				placedAt = i
				break
			}
			smallestGap = min(smallestGap, gap)
		}

		if placedAt >= 0 {
			remaining = slices.Delete(remaining, placedAt, placedAt+1)
			tolerance = opts.MinGapTolerance + 1
			stalled = 0
			continue
		}

		stalled++
		tolerance++
		if opts.FillGaps && !math.IsInf(smallestGap, 1) {
			tolerance = max(tolerance, smallestGap)
		}
		if stalled > opts.MaxStalledPasses {
			return nil, errors.NewSchedulingError(
				fmt.Sprintf("no task placed in %d consecutive passes", stalled),
				errors.ErrNotConverged,
			).WithPass(passes).WithRemaining(taskKeys(remaining))
		}
	}

	return &Schedule{Lanes: f.lanes, Passes: passes}, nil
}

type filler struct {
	graph  *graph.Graph
	opts   Options
	lanes  []*Lane
	placed []*Placement // by task ID
}

// tryPlace places t if it is ready and a lane can take it within tolerance.
// When t is ready but held back by the gap check, it also returns that gap;
// otherwise the gap is +Inf.
func (f *filler) tryPlace(t *task.Task, tolerance float64) (bool, float64) {
	minimum, ready := f.minimumNextWeight(t)
	if !ready {
		return false, math.Inf(1)
	}

	lane := f.chooseLane(t, minimum)

	if gap := minimum - lane.Weight; gap > tolerance {
		return false, gap
	}
	if lane.Weight < minimum && !f.opts.FillGaps {
		return false, math.Inf(1)
	}

	f.placed[t.ID] = lane.place(t, max(lane.Weight, minimum))
	return true, 0
}

// minimumNextWeight returns the earliest weight t may start at, and whether
// all of t's nested dependencies have been placed.
func (f *filler) minimumNextWeight(t *task.Task) (float64, bool) {
	deps := f.graph.NestedDependencyIDs(t)
	if len(deps) == 0 {
		return Lightest(f.lanes).Weight, true
	}

	minimum := 0.0
	for _, id := range deps {
		p := f.placed[id]
		if p == nil {
			return 0, false
		}
		minimum = max(minimum, p.WeightAfter)
	}
	return minimum, true
}

func (f *filler) chooseLane(t *task.Task, minimum float64) *Lane {
	instant := filter(f.lanes, func(l *Lane) bool {
		return l.Weight >= minimum && l.Weight+t.Effort <= instantAddMaximumGapTolerance
	})
	if l := Lightest(instant); l != nil {
		return l
	}

	below := filter(f.lanes, func(l *Lane) bool {
		return l.Weight <= minimum
	})
	if l := Heaviest(below); l != nil {
		return l
	}

	if l := Lightest(f.lanes); l != nil {
		return l
	}
	return f.lanes[0]
}

func taskKeys(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Key
	}
	return out
}
