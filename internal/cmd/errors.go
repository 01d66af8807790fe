package cmd

import (
	"github.com/Iron-Ham/sprintpack/internal/errors"
)

// FormatError renders err for the terminal, followed by a hint when the
// error is one the user can act on.
func FormatError(err error) string {
	msg := "Error: " + err.Error()
	if !errors.IsUserFacing(err) {
		return msg
	}
	if hint := errorHint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// ExitCode maps err to a process exit status: 2 for broken internal
// invariants, 1 for everything else.
func ExitCode(err error) int {
	if errors.GetSeverity(err) >= errors.SeverityCritical {
		return 2
	}
	return 1
}

func errorHint(err error) string {
	switch {
	case errors.IsGraphError(err):
		return "run `sprintpack validate <file>` to list every problem in the input"
	case errors.IsSchedulingError(err) && errors.Is(err, errors.ErrNotConverged):
		var schedErr *errors.SchedulingError
		errors.As(err, &schedErr)
		// Only the packer records a pass number.
		if schedErr.Pass > 0 {
			return "some tasks cannot start where a lane ends; retry with --fill-gaps to let them wait for their dependencies"
		}
		return "the schedule needs more sprints than allowed; raise --max-periods or --period-size"
	}
	return ""
}
