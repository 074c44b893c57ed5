package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette: named constants for all ANSI 256 colors used in the CLI.
// Never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: component identifiers, file paths.
	ColorCyan = lipgloss.Color("14")

	// colorGreen is used for the "compiled" status.
	colorGreen = lipgloss.Color("82")

	// ColorYellow is used for hints and the "skipped" status.
	ColorYellow = lipgloss.Color("220")

	// colorRed is used for code frame markers.
	colorRed = lipgloss.Color("196")

	// colorBoldRed is used for the "failed" status (matches ERROR level).
	colorBoldRed = lipgloss.Color("204")

	// colorGreenCheck is used for the completion checkmark.
	colorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders, gutters and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles map domain concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs.
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (scope prefixes, separators, gutters).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)

	// StyleHint styles actionable hints under errors.
	StyleHint = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleMarker styles the offending line marker and caret of a code frame.
	StyleMarker = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// Component compile statuses.
const (
	StatusCompiled = "compiled"
	StatusSkipped  = "skipped"
	StatusValid    = "valid"
	statusFailed   = "failed"
)

// StatusFailed is the status of a component whose compile returned an error.
const StatusFailed = statusFailed

// statusStyle returns the lipgloss style for a given status string.
// Unknown statuses return an unstyled default.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCompiled, StatusValid:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case StatusSkipped:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case statusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(colorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minComponentColumnWidth is the minimum width of the identifier column
// before the status suffix.
const minComponentColumnWidth = 40

// FormatComponentLine renders a component identifier with a right-aligned,
// color-coded status suffix.
//
// Format: c:<cacheIdentifier>  <status>
func FormatComponentLine(identifier, status string) string {
	padding := minComponentColumnWidth - len(identifier)
	if padding < 2 {
		padding = 2
	}

	return StyleDim.Render("c:") +
		StyleNoun.Render(identifier) +
		strings.Repeat(" ", padding) +
		statusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	return check + " " + msg
}

// vetLabelWidth aligns the detail column of vet check lines.
const vetLabelWidth = 28

// FormatVetCheck renders a passed validation check with an optional,
// column-aligned detail.
func FormatVetCheck(label, detail string) string {
	line := FormatCheckmark(label)
	if detail == "" {
		return line
	}
	padding := vetLabelWidth - len(label)
	if padding < 2 {
		padding = 2
	}
	return line + strings.Repeat(" ", padding) + StyleDim.Render(detail)
}

// FormatCodeFrame styles a plain code frame: lines starting with ">" and
// caret lines are highlighted, gutters are dimmed.
func FormatCodeFrame(frame string) string {
	lines := strings.Split(frame, "\n")
	for i, line := range lines {
		gutter, code, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(gutter, ">"):
			lines[i] = StyleMarker.Render(">") + StyleDim.Render(gutter[1:]+"|") + code
		case strings.TrimSpace(gutter) == "" && strings.TrimSpace(code) == "^":
			lines[i] = StyleDim.Render(gutter+"|") + StyleMarker.Render(code)
		default:
			lines[i] = StyleDim.Render(gutter+"|") + code
		}
	}
	return strings.Join(lines, "\n")
}

// FormatLocation renders file:line:column.
func FormatLocation(file string, line, column int) string {
	if line <= 0 {
		return StyleNoun.Render(file)
	}
	return StyleNoun.Render(fmt.Sprintf("%s:%d:%d", file, line, column))
}
