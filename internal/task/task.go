// Package task defines the value types shared by the graph builder and the
// lane packer: priorities, task kinds, raw descriptors as they arrive from an
// input file, and parsed tasks.
//
// These are pure data types. Relations between tasks (dependencies and their
// transitive closures) are owned by the graph package, not by Task.
package task

import (
	"math"
	"strconv"
	"strings"
)

// DefaultEffort is substituted when a record has no usable effort value.
const DefaultEffort = 0.5

// -----------------------------------------------------------------------------
// Priority
// -----------------------------------------------------------------------------

// Priority is the declared urgency of a task.
//
// Priorities are ordered Low < Medium < High < Critical. Any label outside
// that closed set parses to PriorityUnknown, which sorts below Low.
type Priority string

const (
	PriorityUnknown  Priority = ""
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// ParsePriority maps a label to a Priority, ignoring case and surrounding space.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow
	case "medium":
		return PriorityMedium
	case "high":
		return PriorityHigh
	case "critical":
		return PriorityCritical
	default:
		return PriorityUnknown
	}
}

// Weight returns the numeric rank used for ordering: Critical 4, High 3,
// Medium 2, Low 1, anything else 0.
func (p Priority) Weight() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// String returns the label, or "Unknown" for PriorityUnknown.
func (p Priority) String() string {
	if p == PriorityUnknown {
		return "Unknown"
	}
	return string(p)
}

// -----------------------------------------------------------------------------
// Kind
// -----------------------------------------------------------------------------

// Kind distinguishes ordinary tasks from groups (epics).
type Kind string

const (
	// KindTask is a schedulable unit of work.
	KindTask Kind = "Task"
	// KindGroup is a collection of tasks. A dependency on a group expands to
	// a dependency on every member; groups are never placed in a lane.
	KindGroup Kind = "Group"
)

// ParseKind maps a record type label to a Kind. "Epic" and "Group" are
// groups; everything else ("Story", "Task", "Bug", empty) is ordinary.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "epic", "group":
		return KindGroup
	default:
		return KindTask
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// -----------------------------------------------------------------------------
// Descriptor
// -----------------------------------------------------------------------------

// Descriptor is one raw record as delivered by an input adapter. All fields
// are strings exactly as they appeared in the source; nothing is validated.
type Descriptor struct {
	Key          string `json:"key" yaml:"key" toml:"key"`
	Summary      string `json:"summary,omitempty" yaml:"summary,omitempty" toml:"summary"`
	Effort       string `json:"points,omitempty" yaml:"points,omitempty" toml:"points"`
	Priority     string `json:"priority,omitempty" yaml:"priority,omitempty" toml:"priority"`
	Kind         string `json:"type,omitempty" yaml:"type,omitempty" toml:"type"`
	GroupKey     string `json:"epic,omitempty" yaml:"epic,omitempty" toml:"epic"`
	Dependencies string `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies"`
	Status       string `json:"status,omitempty" yaml:"status,omitempty" toml:"status"`
}

// -----------------------------------------------------------------------------
// Task
// -----------------------------------------------------------------------------

// Task is a parsed descriptor.
type Task struct {
	// ID is the task's index in its graph's arena. It is -1 until the task
	// has been added to a graph.
	ID int

	Key      string
	Summary  string
	Effort   float64
	Priority Priority
	Kind     Kind

	// GroupKey names the group this task belongs to, or is empty.
	GroupKey string

	// DependencyKeys are the declared dependency keys in source order,
	// trimmed and with empty entries dropped. They are not yet resolved.
	DependencyKeys []string

	// DefaultedEffort is set when Effort was substituted with DefaultEffort.
	DefaultedEffort bool
}

// IsGroup reports whether the task is a group rather than ordinary work.
func (t *Task) IsGroup() bool {
	return t.Kind == KindGroup
}

// HasGroup reports whether the task declares a group.
func (t *Task) HasGroup() bool {
	return t.GroupKey != ""
}

// FromDescriptor parses a raw record into a Task. It never fails: malformed
// effort is replaced by DefaultEffort and flagged via DefaultedEffort. Self
// dependencies are detected by the graph builder, which owns error reporting.
func FromDescriptor(d Descriptor) *Task {
	effort, ok := ParseEffort(d.Effort)
	return &Task{
		ID:              -1,
		Key:             strings.TrimSpace(d.Key),
		Summary:         d.Summary,
		Effort:          effort,
		Priority:        ParsePriority(d.Priority),
		Kind:            ParseKind(d.Kind),
		GroupKey:        strings.TrimSpace(d.GroupKey),
		DependencyKeys:  SplitKeys(d.Dependencies),
		DefaultedEffort: !ok,
	}
}

// ParseEffort parses an effort value. Values that are empty, unparsable,
// zero, negative, NaN or infinite yield (DefaultEffort, false).
func ParseEffort(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultEffort, false
	}
	return v, true
}

// SplitKeys splits a comma-separated key list, trimming each entry and
// dropping empties. Order is preserved.
func SplitKeys(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
