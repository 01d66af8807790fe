package graph

import (
	"github.com/Iron-Ham/sprintpack/internal/errors"
)

// computeClosures fills nestedDeps and nestedDependents from the finished
// direct edge set. It must run after validateAcyclic; meeting the start node
// again means the graph changed underneath us.
func (g *Graph) computeClosures() error {
	visited := make([]bool, len(g.tasks))
	stack := make([]int, 0, len(g.tasks))

	for start := range g.tasks {
		clear(visited)
		stack = stack[:0]
		pushReversed(&stack, g.deps[start])

		var closure []int
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if n == start {
				return errors.NewGraphError(errors.ErrInvariantViolation).
					WithTaskKey(g.tasks[start].Key).
					WithMessage("cycle reached during closure computation")
			}
			if visited[n] {
				continue
			}
			visited[n] = true
			closure = append(closure, n)
			pushReversed(&stack, g.deps[n])
		}

		g.nestedDeps[start] = closure
		for _, dep := range closure {
			g.nestedDependents[dep] = append(g.nestedDependents[dep], start)
		}
	}
	return nil
}

// pushReversed pushes ids so that they pop in their listed order.
func pushReversed(stack *[]int, ids []int) {
	for i := len(ids) - 1; i >= 0; i-- {
		*stack = append(*stack, ids[i])
	}
}
