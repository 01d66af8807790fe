package graph

import (
	"slices"

	"github.com/Iron-Ham/sprintpack/internal/task"
)

// Graph is a validated task dependency graph.
//
// It is safe for concurrent read access once Build has returned it.
type Graph struct {
	tasks []*task.Task     // arena, indexed by task.ID
	byKey map[string]int   // key -> ID
	group map[string][]int // group key -> ordinary member IDs, arena order

	deps             [][]int // direct dependencies, insertion order
	dependents       [][]int // direct reverse edges
	nestedDeps       [][]int // transitive closure of deps
	nestedDependents [][]int // mirror of nestedDeps
}

func newGraph(capacity int) *Graph {
	return &Graph{
		tasks: make([]*task.Task, 0, capacity),
		byKey: make(map[string]int, capacity),
		group: make(map[string][]int),
	}
}

// add appends t to the arena and assigns its ID.
func (g *Graph) add(t *task.Task) {
	t.ID = len(g.tasks)
	g.tasks = append(g.tasks, t)
	if t.Key != "" {
		g.byKey[t.Key] = t.ID
	}
	g.deps = append(g.deps, nil)
	g.dependents = append(g.dependents, nil)
	g.nestedDeps = append(g.nestedDeps, nil)
	g.nestedDependents = append(g.nestedDependents, nil)
}

// indexGroups records, for every group task, the ordinary tasks that name it.
func (g *Graph) indexGroups() {
	for _, t := range g.tasks {
		if t.IsGroup() {
			g.group[t.Key] = nil
		}
	}
	for _, t := range g.tasks {
		if t.IsGroup() || !t.HasGroup() {
			continue
		}
		if _, ok := g.group[t.GroupKey]; ok {
			g.group[t.GroupKey] = append(g.group[t.GroupKey], t.ID)
		}
	}
}

// Len returns the number of tasks, groups included.
func (g *Graph) Len() int {
	return len(g.tasks)
}

// Task returns the task with the given key.
func (g *Graph) Task(key string) (*task.Task, bool) {
	id, ok := g.byKey[key]
	if !ok {
		return nil, false
	}
	return g.tasks[id], true
}

// Tasks returns every task in input order.
func (g *Graph) Tasks() []*task.Task {
	out := make([]*task.Task, len(g.tasks))
	copy(out, g.tasks)
	return out
}

// Ordinary returns the non-group tasks in input order. These are the tasks
// the lane packer places.
func (g *Graph) Ordinary() []*task.Task {
	out := make([]*task.Task, 0, len(g.tasks))
	for _, t := range g.tasks {
		if !t.IsGroup() {
			out = append(out, t)
		}
	}
	return out
}

// Groups returns the keys of all group tasks, sorted.
func (g *Graph) Groups() []string {
	keys := make([]string, 0, len(g.group))
	for k := range g.group {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Members returns the ordinary tasks belonging to a group.
func (g *Graph) Members(groupKey string) []*task.Task {
	return g.resolve(g.group[groupKey])
}

// Dependencies returns t's direct dependencies.
func (g *Graph) Dependencies(t *task.Task) []*task.Task {
	return g.resolve(g.relation(g.deps, t))
}

// Dependents returns the tasks that directly depend on t.
func (g *Graph) Dependents(t *task.Task) []*task.Task {
	return g.resolve(g.relation(g.dependents, t))
}

// NestedDependencies returns every task t transitively depends on.
func (g *Graph) NestedDependencies(t *task.Task) []*task.Task {
	return g.resolve(g.relation(g.nestedDeps, t))
}

// NestedDependents returns every task that transitively depends on t.
func (g *Graph) NestedDependents(t *task.Task) []*task.Task {
	return g.resolve(g.relation(g.nestedDependents, t))
}

// NestedDependencyIDs returns the arena IDs of t's transitive dependencies.
// The returned slice must not be modified.
func (g *Graph) NestedDependencyIDs(t *task.Task) []int {
	return g.relation(g.nestedDeps, t)
}

// NestedDependentCount returns how many tasks transitively depend on t.
func (g *Graph) NestedDependentCount(t *task.Task) int {
	return len(g.relation(g.nestedDependents, t))
}

// DependsOn reports whether t transitively depends on dep.
func (g *Graph) DependsOn(t, dep *task.Task) bool {
	if dep == nil || !g.owns(dep) {
		return false
	}
	return slices.Contains(g.relation(g.nestedDeps, t), dep.ID)
}

func (g *Graph) owns(t *task.Task) bool {
	return t != nil && t.ID >= 0 && t.ID < len(g.tasks) && g.tasks[t.ID] == t
}

func (g *Graph) relation(rel [][]int, t *task.Task) []int {
	if !g.owns(t) {
		return nil
	}
	return rel[t.ID]
}

func (g *Graph) resolve(ids []int) []*task.Task {
	if len(ids) == 0 {
		return nil
	}
	out := make([]*task.Task, len(ids))
	for i, id := range ids {
		out[i] = g.tasks[id]
	}
	return out
}
