package style

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	oerrors "github.com/opmodel/alloyc/internal/errors"
	"github.com/opmodel/alloyc/internal/output"
)

// extraCommaHint is shown when the grammar expected another key after a comma.
const extraCommaHint = "Do you have an extra comma in your style definition?"

var extraCommaPattern = regexp.MustCompile(`Expected bare word, comment, end of line, string or whitespace but ".+?" found\.`)

// frameContext is the number of lines shown on either side of the error line.
const frameContext = 2

// ParseError is a stylesheet grammar failure.
type ParseError struct {
	// File is the stylesheet path.
	File string

	// Line and Column are 1-based positions in File. Line is 0 when the
	// failure has no position.
	Line   int
	Column int

	Message string

	// Hint is optional guidance for common mistakes.
	Hint string

	// Frame is a plain-text excerpt of File around the error.
	Frame string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("error processing style ")
	b.WriteString(strconv.Quote(e.File))
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d, column %d", e.Line, e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Hint != "" {
		b.WriteString(" (")
		b.WriteString(e.Hint)
		b.WriteString(")")
	}
	return b.String()
}

// Is matches errors.ErrStyleParse.
func (e *ParseError) Is(target error) bool {
	return target == oerrors.ErrStyleParse
}

// Render returns a terminal-styled report: location, message, code frame
// and hint.
func (e *ParseError) Render() string {
	var b strings.Builder
	b.WriteString(output.StyleMarker.Render("Error processing style"))
	b.WriteString(" ")
	b.WriteString(output.FormatLocation(e.File, e.Line, e.Column))
	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")
	if e.Frame != "" {
		b.WriteString("\n")
		b.WriteString(output.FormatCodeFrame(e.Frame))
		b.WriteString("\n")
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(output.StyleHint.Render("Hint: " + e.Hint))
		b.WriteString("\n")
	}
	return b.String()
}

// hintFor returns the hint for a grammar message, if any.
func hintFor(message string) string {
	if extraCommaPattern.MatchString(message) {
		return extraCommaHint
	}
	return ""
}

// CodeFrame renders the lines of src around a 1-based line and column:
//
//	  1 | {
//	> 2 |   "Label": {
//	    |   ^
//	  3 | }
//
// Returns "" when line is out of range.
func CodeFrame(src string, line, column int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	first := max(1, line-frameContext)
	last := min(len(lines), line+frameContext)
	width := len(strconv.Itoa(last))

	var b strings.Builder
	for n := first; n <= last; n++ {
		text := strings.TrimRight(lines[n-1], "\r")
		marker := "  "
		if n == line {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%*d |", marker, width, n)
		if text != "" {
			b.WriteString(" ")
			b.WriteString(text)
		}
		if n == line && column > 0 {
			fmt.Fprintf(&b, "\n  %s | %s^", strings.Repeat(" ", width), caretPadding(text, column))
		}
		if n < last {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// caretPadding keeps tabs so the caret lines up with the source text.
func caretPadding(text string, column int) string {
	var b strings.Builder
	for i, c := range []rune(text) {
		if i >= column-1 {
			break
		}
		if c == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
	}
	for i := len([]rune(text)); i < column-1; i++ {
		b.WriteRune(' ')
	}
	return b.String()
}
