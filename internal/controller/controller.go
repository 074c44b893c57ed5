// Package controller splits a developer's controller script into the parts
// the assembler places separately: module imports, the base controller
// declaration, and the body.
package controller

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/tdewolff/parse/v2/js"

	"github.com/opmodel/alloyc/internal/output"
)

// Code is a controller split into its parts. Extracted statements are cut
// out of Body without removing their line breaks, so line numbers keep
// matching the source file.
type Code struct {
	// Source is the controller file as written.
	Source string

	// Body is the controller code placed inside the generated controller.
	Body string

	// Pre is code hoisted into the preamble.
	Pre string

	// ModuleShim holds module import statements hoisted to the top of the
	// generated file.
	ModuleShim string

	// ParentControllerName is the expression assigned to
	// exports.baseController, or "".
	ParentControllerName string
}

// span is a byte range of the source cut out of the body.
type span struct {
	start, end int
}

// Load reads and splits the controller at path. A missing file yields an
// empty Code.
func Load(path string) (*Code, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		output.Debug("no controller", "path", path)
		return &Code{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading controller %s: %w", path, err)
	}
	code, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return code, nil
}

// Parse splits controller source. Top-level import declarations move to
// the module shim and exports.baseController assignments to the preamble.
// Dynamic import() calls, import.meta and anything inside strings, template
// literals or comments are left alone.
func Parse(src string) (*Code, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	code := &Code{Source: src}
	var (
		cut       []span
		shim, pre strings.Builder
	)
	for i := 0; i < len(toks); i++ {
		if !statementStart(toks, i) {
			continue
		}
		if end, ok := importEnd(toks, i); ok {
			s := span{toks[i].start, toks[end].end}
			shim.WriteString(flatten(src, s.start, s.end) + "\n")
			cut = append(cut, s)
			i = end
			continue
		}
		if first, last, ok := baseControllerValue(toks, i); ok {
			end := last
			if end+1 < len(toks) && toks[end+1].tt == js.SemicolonToken {
				end++
			}
			s := span{toks[i].start, toks[end].end}
			code.ParentControllerName = src[toks[first].start:toks[last].end]
			pre.WriteString(src[s.start:s.end] + "\n")
			cut = append(cut, s)
			i = end
		}
	}

	code.Body = blank(src, cut)
	code.Pre = pre.String()
	code.ModuleShim = shim.String()
	return code, nil
}

// importEnd returns the index of the last token of the import declaration
// starting at toks[i]: the module specifier string, or the semicolon after
// it.
func importEnd(toks []token, i int) (int, bool) {
	if toks[i].tt != js.ImportToken || i+1 >= len(toks) {
		return 0, false
	}
	if next := toks[i+1].tt; next == js.OpenParenToken || next == js.DotToken {
		return 0, false
	}
	for j := i + 1; j < len(toks); j++ {
		switch toks[j].tt {
		case js.SemicolonToken:
			return 0, false
		case js.StringToken:
			if j != i+1 && toks[j-1].tt != js.FromToken {
				continue
			}
			if j+1 < len(toks) && toks[j+1].tt == js.SemicolonToken {
				return j + 1, true
			}
			return j, true
		}
	}
	return 0, false
}

// baseControllerValue matches exports.baseController = <expr> at toks[i]
// and returns the first and last token of the expression.
func baseControllerValue(toks []token, i int) (first, last int, ok bool) {
	if i+4 >= len(toks) ||
		toks[i].text != "exports" ||
		toks[i+1].tt != js.DotToken ||
		toks[i+2].text != "baseController" ||
		toks[i+3].tt != js.EqToken {
		return 0, 0, false
	}

	first = i + 4
	depth := toks[i].depth
	last = first
	for j := first + 1; j < len(toks); j++ {
		t := toks[j]
		if t.depth == depth {
			if t.tt == js.SemicolonToken || t.tt == js.CloseBraceToken {
				break
			}
			if t.newline && !continuesExpression(t) && !expectsOperand(toks[j-1]) {
				break
			}
		}
		last = j
	}
	return first, last, true
}

// blank removes the cut spans from src but keeps their line breaks. Lines
// left holding only whitespace become empty.
func blank(src string, cut []span) string {
	if len(cut) == 0 {
		return src
	}

	var b strings.Builder
	touched := make(map[int]bool)
	line, pos := 0, 0
	for _, s := range cut {
		b.WriteString(src[pos:s.start])
		line += strings.Count(src[pos:s.start], "\n")
		touched[line] = true
		for _, r := range src[s.start:s.end] {
			if r == '\n' {
				b.WriteByte('\n')
				line++
				touched[line] = true
			}
		}
		pos = s.end
	}
	b.WriteString(src[pos:])

	lines := strings.Split(b.String(), "\n")
	for i := range lines {
		if touched[i] && strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
