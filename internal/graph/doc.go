// Package graph builds and validates the task dependency graph.
//
// A [Graph] is an arena of [task.Task] records indexed by integer ID, with
// adjacency lists for direct dependencies, direct dependents, and their
// transitive closures. It is built once by [Build] and is read-only afterwards.
//
// # Build Phases
//
//	descriptors → parse (effort defaults, self-dependency check)
//	            → index (keys, group membership)
//	            → structural validation (keys, groups)
//	            → edge resolution (group dependencies expand to members)
//	            → acyclicity check
//	            → closure computation (iterative, over the finished edge set)
//
// Every phase after parsing works on integer IDs, so no phase observes a
// partially resolved neighbour. Structural failures abort the build with a
// [errors.GraphError]; recoverable problems (defaulted effort, empty groups)
// are collected as [Diagnostics] and returned alongside the graph.
//
// # Groups
//
// A group task ("epic") never becomes a dependency target. Declaring a
// dependency on a group adds one edge to every ordinary task whose GroupKey
// names that group.
package graph
