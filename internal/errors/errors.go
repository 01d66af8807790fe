// Package errors provides centralized error definitions and error handling utilities
// for sprintpack. It defines the sentinel conditions raised while building a task
// graph or packing lanes, typed errors that carry the offending task key or
// scheduling pass, and classification helpers.
//
// # Error Types
//
// Domain-specific errors:
//   - GraphError: a structural problem in the task graph (self-dependency,
//     unresolved dependency, missing group, circular dependency, ...)
//   - SchedulingError: the packer or period labeler failed to converge
//
// Semantic errors:
//   - ValidationError: invalid input or option values
//
// # Usage
//
//	err := errors.NewGraphError(errors.ErrUnresolvedDependency).
//	    WithTaskKey("PROJ-2").WithRelatedKey("PROJ-9")
//
//	if errors.Is(err, errors.ErrUnresolvedDependency) { ... }
//
//	var graphErr *errors.GraphError
//	if errors.As(err, &graphErr) {
//	    fmt.Println(graphErr.TaskKey)
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error or diagnostic.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for conditions that were recovered from locally.
	SeverityWarning
	// SeverityError is for errors that abort the current build or run.
	SeverityError
	// SeverityCritical is for broken internal invariants.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity as its name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Graph construction sentinel errors
var (
	// ErrMissingTaskKey indicates a task record has an empty key.
	ErrMissingTaskKey = New("missing task key")
	// ErrKeyMismatch indicates a task is indexed under a key other than its own.
	ErrKeyMismatch = New("task key does not match index key")
	// ErrDuplicateTask indicates two records share the same key.
	ErrDuplicateTask = New("duplicate task key")
	// ErrOwnGroup indicates a task names itself as its group.
	ErrOwnGroup = New("task is its own group")
	// ErrMissingGroup indicates a task references a group that does not exist.
	ErrMissingGroup = New("group not found")
	// ErrUnresolvedDependency indicates a dependency key matches no task.
	ErrUnresolvedDependency = New("unresolved dependency")
	// ErrSelfDependency indicates a task lists its own key as a dependency.
	ErrSelfDependency = New("task depends on itself")
	// ErrCircularDependency indicates a task can reach itself through its dependencies.
	ErrCircularDependency = New("circular dependency")
	// ErrInvariantViolation indicates a traversal met a cycle after validation passed.
	ErrInvariantViolation = New("graph invariant violated")
)

// Scheduling sentinel errors
var (
	// ErrNotConverged indicates the packer or labeler exceeded its pass ceiling.
	ErrNotConverged = New("scheduling did not converge")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrUnsupportedFormat indicates an input or output format is not recognized.
	ErrUnsupportedFormat = New("unsupported format")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// PackError is the base interface for all sprintpack errors.
type PackError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// GraphError represents a structural problem found while building or
// validating a task graph. The cause is always one of the graph sentinels.
//
// Example:
//
//	err := errors.NewGraphError(errors.ErrSelfDependency).WithTaskKey("PROJ-1")
//	fmt.Println(err) // "graph error [task=PROJ-1]: task depends on itself"
type GraphError struct {
	baseError
	TaskKey    string
	RelatedKey string
}

// NewGraphError creates a new GraphError for the given sentinel.
func NewGraphError(cause error) *GraphError {
	severity := SeverityError
	if errors.Is(cause, ErrInvariantViolation) {
		severity = SeverityCritical
	}
	return &GraphError{
		baseError: baseError{
			cause:      cause,
			severity:   severity,
			userFacing: true,
		},
	}
}

// WithTaskKey adds the offending task key to the error context.
func (e *GraphError) WithTaskKey(key string) *GraphError {
	e.TaskKey = key
	return e
}

// WithRelatedKey adds a second key (dependency, group) to the error context.
func (e *GraphError) WithRelatedKey(key string) *GraphError {
	e.RelatedKey = key
	return e
}

// WithMessage adds a detail message shown after the cause.
func (e *GraphError) WithMessage(msg string) *GraphError {
	e.message = msg
	return e
}

// Error returns the formatted error message.
func (e *GraphError) Error() string {
	var parts []string
	if e.TaskKey != "" {
		parts = append(parts, fmt.Sprintf("task=%s", e.TaskKey))
	}
	if e.RelatedKey != "" {
		parts = append(parts, fmt.Sprintf("related=%s", e.RelatedKey))
	}

	prefix := "graph error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("graph error [%s]", strings.Join(parts, ", "))
	}

	if e.message != "" {
		return fmt.Sprintf("%s: %v: %s", prefix, e.cause, e.message)
	}
	return fmt.Sprintf("%s: %v", prefix, e.cause)
}

// Is checks if this error matches the target.
func (e *GraphError) Is(target error) bool {
	if _, ok := target.(*GraphError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// SchedulingError represents a scheduling run that was abandoned.
//
// Example:
//
//	err := errors.NewSchedulingError("lane packing stalled", errors.ErrNotConverged).
//	    WithPass(212).WithRemaining([]string{"PROJ-7"})
type SchedulingError struct {
	baseError
	Pass      int
	Remaining []string
}

// NewSchedulingError creates a new SchedulingError.
func NewSchedulingError(message string, cause error) *SchedulingError {
	return &SchedulingError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Pass: -1,
	}
}

// WithPass records the pass number at which the run stopped.
func (e *SchedulingError) WithPass(pass int) *SchedulingError {
	e.Pass = pass
	return e
}

// WithRemaining records the task keys that were never placed.
func (e *SchedulingError) WithRemaining(keys []string) *SchedulingError {
	e.Remaining = keys
	return e
}

// Error returns the formatted error message.
func (e *SchedulingError) Error() string {
	var parts []string
	if e.Pass >= 0 {
		parts = append(parts, fmt.Sprintf("pass=%d", e.Pass))
	}
	if len(e.Remaining) > 0 {
		parts = append(parts, fmt.Sprintf("remaining=%s", strings.Join(e.Remaining, ",")))
	}

	prefix := "scheduling error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("scheduling error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *SchedulingError) Is(target error) bool {
	if _, ok := target.(*SchedulingError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or option values.
//
// Example:
//
//	err := errors.NewValidationError("lane count must be positive")
//	err = err.WithField("lanes").WithValue(0)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var packErr PackError
	if As(err, &packErr) {
		return packErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement PackError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var packErr PackError
	if As(err, &packErr) {
		return packErr.Severity()
	}
	return SeverityError
}

// IsGraphError returns true if the error came from graph construction or validation.
func IsGraphError(err error) bool {
	var graphErr *GraphError
	return As(err, &graphErr)
}

// IsSchedulingError returns true if the error came from lane packing or labeling.
func IsSchedulingError(err error) bool {
	var schedErr *SchedulingError
	return As(err, &schedErr)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap prefixes err with message. The result still matches err's sentinels
// and typed errors through Is and As.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
