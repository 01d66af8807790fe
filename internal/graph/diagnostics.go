package graph

import (
	"fmt"

	"github.com/Iron-Ham/sprintpack/internal/errors"
)

// DiagnosticCode identifies the kind of recoverable problem found during a build.
type DiagnosticCode string

const (
	// DiagDefaultEffort marks an ordinary task whose effort was missing or
	// invalid and was replaced with task.DefaultEffort.
	DiagDefaultEffort DiagnosticCode = "default_effort"

	// DiagEmptyGroup marks a dependency on a group that has no members.
	// No edge is added for it.
	DiagEmptyGroup DiagnosticCode = "empty_group"
)

// Diagnostic is a single non-fatal finding.
type Diagnostic struct {
	Severity   errors.Severity `json:"severity"`
	Code       DiagnosticCode  `json:"code"`
	TaskKey    string          `json:"task_key"`
	RelatedKey string          `json:"related_key,omitempty"`
	Message    string          `json:"message"`
}

// String formats the diagnostic for terminal output.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, d.TaskKey, d.Message)
}

// Diagnostics collects findings in the order they were recorded.
// A nil *Diagnostics is valid and empty.
type Diagnostics struct {
	items []Diagnostic
}

func (d *Diagnostics) add(item Diagnostic) {
	d.items = append(d.items, item)
}

func (d *Diagnostics) warn(code DiagnosticCode, taskKey, relatedKey, format string, args ...any) {
	d.add(Diagnostic{
		Severity:   errors.SeverityWarning,
		Code:       code,
		TaskKey:    taskKey,
		RelatedKey: relatedKey,
		Message:    fmt.Sprintf(format, args...),
	})
}

// All returns every recorded diagnostic.
func (d *Diagnostics) All() []Diagnostic {
	if d == nil {
		return nil
	}
	out := make([]Diagnostic, len(d.items))
	copy(out, d.items)
	return out
}

// Warnings returns diagnostics with warning severity.
func (d *Diagnostics) Warnings() []Diagnostic {
	if d == nil {
		return nil
	}
	var out []Diagnostic
	for _, item := range d.items {
		if item.Severity == errors.SeverityWarning {
			out = append(out, item)
		}
	}
	return out
}

// ByCode returns diagnostics with the given code.
func (d *Diagnostics) ByCode(code DiagnosticCode) []Diagnostic {
	if d == nil {
		return nil
	}
	var out []Diagnostic
	for _, item := range d.items {
		if item.Code == code {
			out = append(out, item)
		}
	}
	return out
}

// Len returns the number of diagnostics.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

// HasWarnings reports whether any warning was recorded.
func (d *Diagnostics) HasWarnings() bool {
	return len(d.Warnings()) > 0
}
