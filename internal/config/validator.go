package config

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "schedule.lanes")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the list of valid log formats
func ValidLogFormats() []string {
	return []string{"console", "json"}
}

// ValidOutputFormats returns the list of valid schedule output formats
func ValidOutputFormats() []string {
	return []string{"table", "csv", "json", "yaml"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSchedule()...)
	errors = append(errors, c.validatePeriod()...)
	errors = append(errors, c.validateOutput()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateSchedule() []ValidationError {
	var errors []ValidationError

	if c.Schedule.Lanes < 1 {
		errors = append(errors, ValidationError{
			Field:   "schedule.lanes",
			Value:   c.Schedule.Lanes,
			Message: "must be at least 1",
		})
	}
	if c.Schedule.MinGapTolerance < 0 || math.IsNaN(c.Schedule.MinGapTolerance) {
		errors = append(errors, ValidationError{
			Field:   "schedule.min_gap_tolerance",
			Value:   c.Schedule.MinGapTolerance,
			Message: "must be non-negative",
		})
	}
	if c.Schedule.MaxStalledPasses < 0 {
		errors = append(errors, ValidationError{
			Field:   "schedule.max_stalled_passes",
			Value:   c.Schedule.MaxStalledPasses,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validatePeriod() []ValidationError {
	var errors []ValidationError

	if c.Period.Size <= 0 || math.IsNaN(c.Period.Size) || math.IsInf(c.Period.Size, 0) {
		errors = append(errors, ValidationError{
			Field:   "period.size",
			Value:   c.Period.Size,
			Message: "must be a positive number",
		})
	}
	if c.Period.MaxPeriods < 1 {
		errors = append(errors, ValidationError{
			Field:   "period.max_periods",
			Value:   c.Period.MaxPeriods,
			Message: "must be at least 1",
		})
	}

	return errors
}

func (c *Config) validateOutput() []ValidationError {
	var errors []ValidationError

	if c.Output.Format != "" && !slices.Contains(ValidOutputFormats(), strings.ToLower(c.Output.Format)) {
		errors = append(errors, ValidationError{
			Field:   "output.format",
			Value:   c.Output.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidOutputFormats(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.Format != "" && !slices.Contains(ValidLogFormats(), strings.ToLower(c.Logging.Format)) {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}

	return errors
}
