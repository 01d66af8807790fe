package bucket

import (
	"cmp"

	"github.com/Iron-Ham/sprintpack/internal/graph"
	"github.com/Iron-Ham/sprintpack/internal/task"
)

// CompareTasks returns the ordering used to pick the next task to place.
//
// Tasks that unblock more work come first, then higher priority, then smaller
// effort. Tasks equal on all three compare as 0 so a stable sort keeps their
// previous relative order.
func CompareTasks(g *graph.Graph) func(a, b *task.Task) int {
	return func(a, b *task.Task) int {
		if c := cmp.Compare(g.NestedDependentCount(b), g.NestedDependentCount(a)); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Priority.Weight(), a.Priority.Weight()); c != 0 {
			return c
		}
		return cmp.Compare(a.Effort, b.Effort)
	}
}
