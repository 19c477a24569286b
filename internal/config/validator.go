package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "queues.default_target")
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
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// queueNameRegex validates queue names: lowercase alphanumeric with
// hyphens or underscores, starting with a letter. "ui" is reserved for
// the main context.
var queueNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all
// validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateQueues()...)
	errors = append(errors, c.validateRoutes()...)
	errors = append(errors, c.validateTUI()...)

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

// validateQueues validates the QueuesConfig
func (c *Config) validateQueues() []ValidationError {
	var errors []ValidationError

	seen := make(map[string]bool)
	for i, name := range c.Queues.Preregister {
		field := fmt.Sprintf("queues.preregister[%d]", i)

		if name == "ui" {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   name,
				Message: "\"ui\" is reserved for the main context and cannot be a queue name",
			})
			continue
		}
		if !queueNameRegex.MatchString(name) {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   name,
				Message: "must start with a lowercase letter and contain only lowercase alphanumeric characters, hyphens, or underscores",
			})
		}
		if seen[name] {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   name,
				Message: "duplicate queue name",
			})
		}
		seen[name] = true
	}

	if t := c.Queues.DefaultTarget; t != "" && t != "ui" && !queueNameRegex.MatchString(t) {
		errors = append(errors, ValidationError{
			Field:   "queues.default_target",
			Value:   t,
			Message: "must be \"ui\" or a valid queue name",
		})
	}

	return errors
}

// validateRoutes compiles every route glob so bad patterns are caught at
// load time rather than at resolution time
func (c *Config) validateRoutes() []ValidationError {
	var errors []ValidationError

	for i, route := range c.Routes {
		field := fmt.Sprintf("routes[%d]", i)

		if route.Pattern == "" {
			errors = append(errors, ValidationError{
				Field:   field + ".pattern",
				Value:   route.Pattern,
				Message: "cannot be empty",
			})
		} else if _, err := glob.Compile(route.Pattern); err != nil {
			errors = append(errors, ValidationError{
				Field:   field + ".pattern",
				Value:   route.Pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}

		if t := route.Target; t != "" && t != "ui" && !queueNameRegex.MatchString(t) {
			errors = append(errors, ValidationError{
				Field:   field + ".target",
				Value:   t,
				Message: "must be \"ui\" or a valid queue name",
			})
		}
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.MaxRows < 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.max_rows",
			Value:   c.TUI.MaxRows,
			Message: "must be non-negative (0 means unlimited)",
		})
	}

	// Reasonable upper bound to prevent memory issues
	const maxRowsLimit = 100000
	if c.TUI.MaxRows > maxRowsLimit {
		errors = append(errors, ValidationError{
			Field:   "tui.max_rows",
			Value:   c.TUI.MaxRows,
			Message: fmt.Sprintf("exceeds maximum of %d", maxRowsLimit),
		})
	}

	return errors
}
