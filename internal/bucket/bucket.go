// Package bucket packs the tasks of a dependency graph into a fixed number of
// lanes.
//
// Each lane is a sequence of placements on a cumulative weight axis. A task is
// placed only after every task it transitively depends on has been placed,
// and never starts before the latest of those dependencies ends.
package bucket

import (
	"github.com/Iron-Ham/sprintpack/internal/task"
)

// Placement records where a task landed.
type Placement struct {
	Task *task.Task `json:"-" yaml:"-"`

	Lane         int     `json:"lane" yaml:"lane"`
	WeightBefore float64 `json:"weight_before" yaml:"weight_before"`
	WeightAfter  float64 `json:"weight_after" yaml:"weight_after"`

	// Period is the 1-based period label, or 0 when unlabeled.
	Period int `json:"period" yaml:"period"`
}

// Key returns the key of the placed task.
func (p *Placement) Key() string {
	if p == nil || p.Task == nil {
		return ""
	}
	return p.Task.Key
}

// Lane is one parallel track of work.
type Lane struct {
	Index      int
	Weight     float64
	Placements []*Placement
}

// place appends t to the lane starting at start and advances the lane weight.
func (l *Lane) place(t *task.Task, start float64) *Placement {
	p := &Placement{
		Task:         t,
		Lane:         l.Index,
		WeightBefore: start,
		WeightAfter:  start + t.Effort,
	}
	l.Placements = append(l.Placements, p)
	l.Weight = p.WeightAfter
	return p
}

// Schedule is the result of a successful Fill.
type Schedule struct {
	Lanes []*Lane

	// Passes is the number of scheduling passes run, including stalled ones.
	Passes int
}

// Placements returns every placement, lane by lane, each lane in assignment
// order.
func (s *Schedule) Placements() []*Placement {
	if s == nil {
		return nil
	}
	var out []*Placement
	for _, l := range s.Lanes {
		out = append(out, l.Placements...)
	}
	return out
}

// Placement returns the placement of the task with the given key.
func (s *Schedule) Placement(key string) (*Placement, bool) {
	if s == nil {
		return nil, false
	}
	for _, l := range s.Lanes {
		for _, p := range l.Placements {
			if p.Key() == key {
				return p, true
			}
		}
	}
	return nil, false
}

// Span returns the weight of the heaviest lane.
func (s *Schedule) Span() float64 {
	if s == nil {
		return 0
	}
	if l := Heaviest(s.Lanes); l != nil {
		return l.Weight
	}
	return 0
}

// Lightest returns the lane with the smallest weight. Ties go to the later
// lane. It returns nil for an empty slice.
func Lightest(lanes []*Lane) *Lane {
	var best *Lane
	for _, l := range lanes {
		if best == nil || l.Weight <= best.Weight {
			best = l
		}
	}
	return best
}

// Heaviest returns the lane with the largest weight. Ties go to the later
// lane. It returns nil for an empty slice.
func Heaviest(lanes []*Lane) *Lane {
	var best *Lane
	for _, l := range lanes {
		if best == nil || l.Weight >= best.Weight {
			best = l
		}
	}
	return best
}

func filter(lanes []*Lane, keep func(*Lane) bool) []*Lane {
	var out []*Lane
	for _, l := range lanes {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}
