package controller

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// token is a significant lexer token: whitespace, line terminators and
// comments are folded into the flags of the token that follows them.
type token struct {
	tt   js.TokenType
	text string

	// start and end are byte offsets into the source.
	start, end int

	// newline reports a line break between this token and the previous one.
	newline bool

	// depth is the bracket nesting level before this token.
	depth int
}

// tokenize lexes src into significant tokens. Regular expression literals
// are told apart from division by the token preceding the slash.
func tokenize(src string) ([]token, error) {
	l := js.NewLexer(parse.NewInputString(src))

	var (
		toks    []token
		offset  int
		depth   int
		newline = true
	)
	for {
		tt, text := l.Next()
		if (tt == js.DivToken || tt == js.DivEqToken) && regexpAllowed(toks) {
			tt, text = l.RegExp()
		}
		if tt == js.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("parsing controller: %w", err)
			}
			return toks, nil
		}

		start := offset
		offset += len(text)

		switch tt {
		case js.WhitespaceToken, js.CommentToken:
			continue
		case js.LineTerminatorToken, js.CommentLineTerminatorToken:
			newline = true
			continue
		}

		toks = append(toks, token{
			tt:      tt,
			text:    string(text),
			start:   start,
			end:     offset,
			newline: newline,
			depth:   depth,
		})
		newline = false

		switch tt {
		case js.OpenBraceToken, js.OpenParenToken, js.OpenBracketToken, js.TemplateStartToken:
			depth++
		case js.CloseBraceToken, js.CloseParenToken, js.CloseBracketToken, js.TemplateEndToken:
			depth--
		}
	}
}

// regexpAllowed reports whether a slash after toks starts a regular
// expression rather than a division.
func regexpAllowed(toks []token) bool {
	if len(toks) == 0 {
		return true
	}
	switch prev := toks[len(toks)-1].tt; prev {
	case js.CloseParenToken, js.CloseBracketToken, js.CloseBraceToken,
		js.StringToken, js.TemplateToken, js.TemplateEndToken, js.RegExpToken,
		js.PrivateIdentifierToken, js.IncrToken, js.DecrToken,
		js.ThisToken, js.SuperToken, js.TrueToken, js.FalseToken, js.NullToken:
		return false
	default:
		return !js.IsNumeric(prev) && !js.IsIdentifier(prev)
	}
}

// statementStart reports whether toks[i] can begin a top-level statement.
func statementStart(toks []token, i int) bool {
	if toks[i].depth != 0 {
		return false
	}
	if i == 0 || toks[i].newline {
		return true
	}
	prev := toks[i-1].tt
	return prev == js.SemicolonToken || prev == js.CloseBraceToken
}

// continuesExpression reports whether t, starting a new line, continues the
// expression before it instead of starting a statement.
func continuesExpression(t token) bool {
	switch t.tt {
	case js.DotToken, js.OpenParenToken, js.OpenBracketToken, js.QuestionToken,
		js.ColonToken, js.CommaToken, js.ArrowToken, js.TemplateToken, js.TemplateStartToken:
		return true
	case js.IncrToken, js.DecrToken, js.NotToken, js.BitNotToken:
		return false
	}
	return js.IsOperator(t.tt) || t.tt == js.InToken || t.tt == js.InstanceofToken
}

// expectsOperand reports whether an expression cannot end at t.
func expectsOperand(t token) bool {
	switch t.tt {
	case js.IncrToken, js.DecrToken:
		return false
	case js.DotToken, js.QuestionToken, js.ColonToken, js.CommaToken, js.ArrowToken,
		js.TemplateStartToken, js.TemplateMiddleToken, js.NewToken, js.TypeofToken, js.VoidToken:
		return true
	}
	return js.IsOperator(t.tt) || t.tt == js.InToken || t.tt == js.InstanceofToken
}

// flatten returns src[start:end] on one line: comments are dropped and
// every run of whitespace becomes a single space.
func flatten(src string, start, end int) string {
	l := js.NewLexer(parse.NewInputString(src[start:end]))

	var b strings.Builder
	space := false
	for {
		tt, text := l.Next()
		switch tt {
		case js.ErrorToken:
			return strings.TrimSpace(b.String())
		case js.WhitespaceToken, js.LineTerminatorToken, js.CommentToken, js.CommentLineTerminatorToken:
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.Write(text)
	}
}
