package graph

import (
	"slices"

	"github.com/Iron-Ham/sprintpack/internal/errors"
	"github.com/Iron-Ham/sprintpack/internal/task"
)

// Build parses descriptors into tasks and returns a validated graph.
//
// Build rejects:
//   - a record that lists its own key as a dependency
//   - empty or repeated keys
//   - a task that is its own group, or names a group that does not exist
//   - a dependency key that matches no task
//   - any dependency cycle, including one created by group expansion
//
// Diagnostics are returned even when the build fails, so callers can report
// warnings recorded before the failure.
func Build(descs []task.Descriptor) (*Graph, *Diagnostics, error) {
	diags := &Diagnostics{}
	g := newGraph(len(descs))

	for _, d := range descs {
		t := task.FromDescriptor(d)

		if t.Key != "" && slices.Contains(t.DependencyKeys, t.Key) {
			return nil, diags, errors.NewGraphError(errors.ErrSelfDependency).WithTaskKey(t.Key)
		}
		if t.Key != "" {
			if _, dup := g.byKey[t.Key]; dup {
				return nil, diags, errors.NewGraphError(errors.ErrDuplicateTask).WithTaskKey(t.Key)
			}
		}
		if t.DefaultedEffort && !t.IsGroup() {
			diags.warn(DiagDefaultEffort, t.Key, "",
				"effort %q is missing or invalid, using %v", d.Effort, task.DefaultEffort)
		}

		g.add(t)
	}

	g.indexGroups()

	if err := g.validateStructure(); err != nil {
		return nil, diags, err
	}
	if err := g.resolveEdges(diags); err != nil {
		return nil, diags, err
	}
	if err := g.validateAcyclic(); err != nil {
		return nil, diags, err
	}
	if err := g.computeClosures(); err != nil {
		return nil, diags, err
	}

	return g, diags, nil
}

// resolveEdges turns declared dependency keys into direct edges. A dependency
// on a group becomes one edge per member of the group.
func (g *Graph) resolveEdges(diags *Diagnostics) error {
	seen := make(map[[2]int]struct{})
	link := func(from, to int) {
		edge := [2]int{from, to}
		if _, ok := seen[edge]; ok {
			return
		}
		seen[edge] = struct{}{}
		g.deps[from] = append(g.deps[from], to)
		g.dependents[to] = append(g.dependents[to], from)
	}

	for id, t := range g.tasks {
		for _, key := range t.DependencyKeys {
			depID, ok := g.byKey[key]
			if !ok {
				return errors.NewGraphError(errors.ErrUnresolvedDependency).
					WithTaskKey(t.Key).
					WithRelatedKey(key)
			}
			if depID == id {
				return errors.NewGraphError(errors.ErrSelfDependency).WithTaskKey(t.Key)
			}

			dep := g.tasks[depID]
			if !dep.IsGroup() {
				link(id, depID)
				continue
			}

			members := g.group[dep.Key]
			if len(members) == 0 {
				diags.warn(DiagEmptyGroup, t.Key, dep.Key,
					"group %s has no members, dependency ignored", dep.Key)
				continue
			}
			for _, member := range members {
				if member == id {
					return errors.NewGraphError(errors.ErrCircularDependency).
						WithTaskKey(t.Key).
						WithRelatedKey(dep.Key).
						WithMessage("task depends on its own group")
				}
				link(id, member)
			}
		}
	}
	return nil
}
