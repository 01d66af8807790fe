package graph

import (
	"fmt"

	"github.com/Iron-Ham/sprintpack/internal/errors"
)

// Validate re-checks the structural invariants of a built graph: keys are
// present and indexed under themselves, group references resolve to group
// tasks, and no task can reach itself through its dependencies.
func (g *Graph) Validate() error {
	if err := g.validateStructure(); err != nil {
		return err
	}
	return g.validateAcyclic()
}

func (g *Graph) validateStructure() error {
	if len(g.byKey) > len(g.tasks) {
		return errors.NewGraphError(errors.ErrKeyMismatch).
			WithMessage(fmt.Sprintf("%d keys indexed for %d tasks", len(g.byKey), len(g.tasks)))
	}

	for id, t := range g.tasks {
		if t.Key == "" {
			return errors.NewGraphError(errors.ErrMissingTaskKey).
				WithMessage(fmt.Sprintf("record %d", id+1))
		}
		if indexed, ok := g.byKey[t.Key]; !ok || indexed != id || t.ID != id {
			return errors.NewGraphError(errors.ErrKeyMismatch).WithTaskKey(t.Key)
		}
		if t.GroupKey == t.Key {
			return errors.NewGraphError(errors.ErrOwnGroup).WithTaskKey(t.Key)
		}
	}

	for _, t := range g.tasks {
		if !t.HasGroup() {
			continue
		}
		groupID, ok := g.byKey[t.GroupKey]
		if !ok {
			return errors.NewGraphError(errors.ErrMissingGroup).
				WithTaskKey(t.Key).
				WithRelatedKey(t.GroupKey)
		}
		if _, indexed := g.group[t.GroupKey]; !indexed || !g.tasks[groupID].IsGroup() {
			return errors.NewGraphError(errors.ErrMissingGroup).
				WithTaskKey(t.Key).
				WithRelatedKey(t.GroupKey).
				WithMessage("referenced task is not a group")
		}
	}

	return nil
}

// validateAcyclic walks the dependency edges from every task and fails on the
// first task that can reach itself.
func (g *Graph) validateAcyclic() error {
	visited := make([]bool, len(g.tasks))
	stack := make([]int, 0, len(g.tasks))

	for start := range g.tasks {
		clear(visited)
		stack = append(stack[:0], g.deps[start]...)

		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if n == start {
				return errors.NewGraphError(errors.ErrCircularDependency).WithTaskKey(g.tasks[start].Key)
			}
			if visited[n] {
				continue
			}
			visited[n] = true
			stack = append(stack, g.deps[n]...)
		}
	}
	return nil
}
