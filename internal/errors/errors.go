// Package errors provides sentinel errors and structured error details for alloyc.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrResolution indicates a path does not have the shape of a component path.
	ErrResolution = errors.New("component resolution failed")

	// ErrRootContainer indicates the entry view has an invalid top-level element.
	ErrRootContainer = errors.New("invalid top-level element")

	// ErrStyleParse indicates a stylesheet could not be parsed.
	ErrStyleParse = errors.New("style parse error")

	// ErrMissingInput indicates a required call argument was not provided.
	ErrMissingInput = errors.New("missing input")

	// ErrValidation indicates a configuration validation failure.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a file or component was not found.
	ErrNotFound = errors.New("not found")
)

// DetailError captures structured error information for CLI output.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path and line number (optional).
	Location string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	for k, v := range e.Context {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// MissingInputError indicates that a required option was not supplied to an
// entry point. No output is produced when it is returned.
type MissingInputError struct {
	// Operation is the entry point that was called (e.g. "compile view").
	Operation string

	// Option is the name of the missing option.
	Option string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s: missing %q option", e.Operation, e.Option)
}

// Is matches ErrMissingInput.
func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
