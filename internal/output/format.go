package output

import "strings"

// OutputFormat specifies how compile results are written.
type OutputFormat string

const (
	// FormatCode writes the generated JavaScript only.
	FormatCode OutputFormat = "code"

	// FormatJSON writes the result, map included, as JSON.
	FormatJSON OutputFormat = "json"

	// FormatYAML writes the result, map included, as YAML.
	FormatYAML OutputFormat = "yaml"
)

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// Valid checks if the output format is valid.
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatCode, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// ParseOutputFormat parses a string into an OutputFormat.
// The second return value is false if the string is not a known format.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch strings.ToLower(s) {
	case "", "code", "js":
		return FormatCode, true
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	default:
		return FormatCode, false
	}
}

// ValidFormats returns a slice of valid output format strings.
func ValidFormats() []string {
	return []string{"code", "json", "yaml"}
}
