package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// FileName is the name of the log file created by NewLogger.
const FileName = "sprintpack.log"

// Logger provides structured logging with persistent run context.
// It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	closer *fileCloser
}

// fileCloser is shared by a logger and all of its children so that closing
// any of them closes the file exactly once.
type fileCloser struct {
	mu   sync.Mutex
	file *os.File
}

func (c *fileCloser) close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		return nil
	}
	if err := c.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := c.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	c.file = nil
	return nil
}

// NewLogger creates a Logger that writes JSON lines to {dir}/sprintpack.log.
// If dir is empty, logs go to stderr.
//
// Unrecognized levels fall back to INFO.
func NewLogger(dir string, level string) (*Logger, error) {
	if dir == "" {
		return newJSONLogger(os.Stderr, nil, level), nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return newJSONLogger(file, &fileCloser{file: file}, level), nil
}

func newJSONLogger(w io.Writer, closer *fileCloser, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{logger: slog.New(handler), closer: closer}
}

// NewConsoleLogger creates a Logger that writes colored, human-readable lines
// to w using charmbracelet/log.
func NewConsoleLogger(w io.Writer, level string) *Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmLevel(level),
		Formatter:       charmlog.TextFormatter,
		ReportTimestamp: false,
		Prefix:          "sprintpack",
	})
	return &Logger{logger: slog.New(handler)}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch ParseLevel(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func charmLevel(level string) charmlog.Level {
	switch ParseLevel(level) {
	case LevelDebug:
		return charmlog.DebugLevel
	case LevelWarn:
		return charmlog.WarnLevel
	case LevelError:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// WithRun returns a child logger tagged with a scheduling run ID.
func (l *Logger) WithRun(runID string) *Logger {
	return l.With("run_id", runID)
}

// WithPhase returns a child logger tagged with a pipeline phase such as
// "build", "fill" or "label".
func (l *Logger) WithPhase(phase string) *Logger {
	return l.With("phase", phase)
}

// With returns a child logger with arbitrary key-value attributes.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return &Logger{logger: l.logger.With(args...), closer: l.closer}
}

// Debug logs a message at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs a message at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs a message at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs a message at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Close flushes and closes the log file. It is a no-op for loggers that
// write to stderr or to a caller-supplied writer.
func (l *Logger) Close() error {
	return l.closer.close()
}

// NopLogger returns a Logger that discards all log output.
func NopLogger() *Logger {
	return &Logger{logger: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

// ParseLevel normalizes a level string. Returns LevelInfo if the level
// string is not recognized.
func ParseLevel(level string) string {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn, "WARNING":
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevels returns the list of valid log level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
