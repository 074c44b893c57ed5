package style

import (
	"testing"

	"github.com/stretchr/testify/assert"

	oerrors "github.com/opmodel/alloyc/internal/errors"
)

func TestCodeFrame(t *testing.T) {
	src := "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nl10\nl11"

	t.Run("context window", func(t *testing.T) {
		assert.Equal(t,
			"  3 | l3\n  4 | l4\n> 5 | l5\n    |  ^\n  6 | l6\n  7 | l7",
			CodeFrame(src, 5, 2))
	})

	t.Run("gutter width follows last line", func(t *testing.T) {
		assert.Equal(t,
			"   7 | l7\n   8 | l8\n>  9 | l9\n     | ^\n  10 | l10\n  11 | l11",
			CodeFrame(src, 9, 1))
	})

	t.Run("tabs are kept in caret padding", func(t *testing.T) {
		assert.Equal(t, "> 1 | \tab\n    | \t ^", CodeFrame("\tab", 1, 3))
	})

	t.Run("out of range", func(t *testing.T) {
		assert.Equal(t, "", CodeFrame(src, 0, 1))
		assert.Equal(t, "", CodeFrame(src, 12, 1))
	})
}

func TestParseError(t *testing.T) {
	err := &ParseError{File: "app/styles/index.tss", Line: 3, Column: 1, Message: "bad", Hint: extraCommaHint}
	assert.Equal(t,
		`error processing style "app/styles/index.tss" at line 3, column 1: bad (Do you have an extra comma in your style definition?)`,
		err.Error())
	assert.ErrorIs(t, err, oerrors.ErrStyleParse)

	noPos := &ParseError{File: "a.tss", Message: "bad"}
	assert.Equal(t, `error processing style "a.tss": bad`, noPos.Error())
}

func TestHintFor(t *testing.T) {
	assert.Equal(t, extraCommaHint,
		hintFor(`Expected bare word, comment, end of line, string or whitespace but "}" found.`))
	assert.Empty(t, hintFor(`Expected ":" but "{" found.`))
}
