package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
			text, err := tt.severity.MarshalText()
			if err != nil || string(text) != tt.want {
				t.Errorf("Severity.MarshalText() = %q, %v; want %q", text, err, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// GraphError Tests
// -----------------------------------------------------------------------------

func TestGraphError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *GraphError
		want string
	}{
		{
			name: "bare",
			err:  NewGraphError(ErrCircularDependency),
			want: "graph error: circular dependency",
		},
		{
			name: "task key",
			err:  NewGraphError(ErrSelfDependency).WithTaskKey("PROJ-1"),
			want: "graph error [task=PROJ-1]: task depends on itself",
		},
		{
			name: "task and related key",
			err:  NewGraphError(ErrUnresolvedDependency).WithTaskKey("PROJ-2").WithRelatedKey("PROJ-9"),
			want: "graph error [task=PROJ-2, related=PROJ-9]: unresolved dependency",
		},
		{
			name: "with message",
			err:  NewGraphError(ErrMissingGroup).WithTaskKey("PROJ-3").WithMessage("group EPIC-1 is not a group task"),
			want: "graph error [task=PROJ-3]: group not found: group EPIC-1 is not a group task",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGraphError_Is(t *testing.T) {
	err := NewGraphError(ErrUnresolvedDependency).WithTaskKey("A")

	if !errors.Is(err, ErrUnresolvedDependency) {
		t.Error("errors.Is should match the wrapped sentinel")
	}
	if errors.Is(err, ErrCircularDependency) {
		t.Error("errors.Is should not match an unrelated sentinel")
	}
	if !errors.Is(err, &GraphError{}) {
		t.Error("errors.Is should match any *GraphError target")
	}

	wrapped := fmt.Errorf("build: %w", err)
	var graphErr *GraphError
	if !errors.As(wrapped, &graphErr) {
		t.Fatal("errors.As should find the GraphError")
	}
	if graphErr.TaskKey != "A" {
		t.Errorf("TaskKey = %q, want %q", graphErr.TaskKey, "A")
	}
}

func TestGraphError_Severity(t *testing.T) {
	if got := NewGraphError(ErrOwnGroup).Severity(); got != SeverityError {
		t.Errorf("Severity() = %v, want %v", got, SeverityError)
	}
	if got := NewGraphError(ErrInvariantViolation).Severity(); got != SeverityCritical {
		t.Errorf("Severity() = %v, want %v", got, SeverityCritical)
	}
}

// -----------------------------------------------------------------------------
// SchedulingError Tests
// -----------------------------------------------------------------------------

func TestSchedulingError(t *testing.T) {
	err := NewSchedulingError("lane packing stalled", ErrNotConverged).
		WithPass(42).
		WithRemaining([]string{"B", "C"})

	want := "scheduling error [pass=42, remaining=B,C]: lane packing stalled: scheduling did not converge"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrNotConverged) {
		t.Error("errors.Is should match ErrNotConverged")
	}
	if !IsSchedulingError(fmt.Errorf("run: %w", err)) {
		t.Error("IsSchedulingError should see through wrapping")
	}
	if IsGraphError(err) {
		t.Error("IsGraphError should be false for a SchedulingError")
	}
}

func TestSchedulingError_NoContext(t *testing.T) {
	err := NewSchedulingError("stalled", nil)
	if got := err.Error(); got != "scheduling error: stalled" {
		t.Errorf("Error() = %q", got)
	}
}

// -----------------------------------------------------------------------------
// ValidationError Tests
// -----------------------------------------------------------------------------

func TestValidationError(t *testing.T) {
	err := NewValidationError("lane count must be positive").WithField("lanes").WithValue(0)

	if !strings.Contains(err.Error(), "field=lanes") {
		t.Errorf("Error() = %q, want field context", err.Error())
	}
	if !strings.Contains(err.Error(), "value=0") {
		t.Errorf("Error() = %q, want value context", err.Error())
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}

	withCause := NewValidationError("bad format").WithCause(ErrUnsupportedFormat)
	if !errors.Is(withCause, ErrUnsupportedFormat) {
		t.Error("ValidationError should match its cause")
	}
}

// -----------------------------------------------------------------------------
// Helper Tests
// -----------------------------------------------------------------------------

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"graph", NewGraphError(ErrMissingGroup), true},
		{"wrapped scheduling", Wrap(NewSchedulingError("x", ErrNotConverged), "run"), true},
		{"validation", NewValidationError("x"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	if got := GetSeverity(nil); got != SeverityDebug {
		t.Errorf("GetSeverity(nil) = %v, want %v", got, SeverityDebug)
	}
	if got := GetSeverity(errors.New("plain")); got != SeverityError {
		t.Errorf("GetSeverity(plain) = %v, want %v", got, SeverityError)
	}
	if got := GetSeverity(NewValidationError("x")); got != SeverityWarning {
		t.Errorf("GetSeverity(validation) = %v, want %v", got, SeverityWarning)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	err := Wrapf(ErrInvalidInput, "load %s", "tasks.csv")
	if err.Error() != "load tasks.csv: invalid input" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Wrapf should preserve the chain")
	}
}
