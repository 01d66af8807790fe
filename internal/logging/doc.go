// Package logging provides structured logging for sprintpack runs.
//
// Two outputs are supported. [NewLogger] writes JSON lines through log/slog,
// either to {dir}/sprintpack.log or to stderr, for later filtering with tools
// like jq. [NewConsoleLogger] writes leveled, colored lines through
// charmbracelet/log for interactive use.
//
// # Context
//
// Child loggers carry persistent attributes:
//
//	logger := logging.NewConsoleLogger(os.Stderr, "info")
//	runLogger := logger.WithRun(runID).WithPhase("fill")
//	runLogger.Info("placed task", "key", "PROJ-12", "lane", 3)
//
// Children share the parent's output, so closing any of them closes the log
// file for all.
//
// # Testing
//
// Use [NopLogger] to discard output.
package logging
