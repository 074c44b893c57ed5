package cmd

import (
	"errors"
	"fmt"
	"io"

	oerrors "github.com/opmodel/alloyc/internal/errors"
	"github.com/opmodel/alloyc/internal/style"
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int

	// Printed is set when the command already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, oerrors.ErrValidation), errors.Is(err, oerrors.ErrMissingInput):
		return ExitValidationError
	case errors.Is(err, oerrors.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, oerrors.ErrResolution),
		errors.Is(err, oerrors.ErrRootContainer),
		errors.Is(err, oerrors.ErrStyleParse):
		return ExitCompileError
	default:
		return ExitGeneralError
	}
}

// PrintError writes err to w. Style parse errors are rendered with their
// code frame and hint.
func PrintError(w io.Writer, err error) {
	var parseErr *style.ParseError
	if errors.As(err, &parseErr) {
		fmt.Fprint(w, parseErr.Render())
		return
	}

	var detailErr *oerrors.DetailError
	if errors.As(err, &detailErr) {
		fmt.Fprint(w, detailErr.Error())
		return
	}

	fmt.Fprintln(w, "Error:", err)
}
