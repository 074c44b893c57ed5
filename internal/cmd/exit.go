// Package cmd provides command implementations for the alloyc CLI.
package cmd

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates invalid configuration or options.
	ExitValidationError = 2

	// ExitCompileError indicates a component failed to compile.
	ExitCompileError = 3

	// ExitNotFound indicates a file, widget or component was not found.
	ExitNotFound = 4
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitCompileError:
		return "Compile Error"
	case ExitNotFound:
		return "Not Found"
	default:
		return "Unknown"
	}
}
