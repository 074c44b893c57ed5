package tss

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// SyntaxError is a parse failure at a 1-based line and column.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

const expectedKey = "bare word, comment, end of line, string or whitespace"

var numberPattern = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Parser is the TSS grammar. The zero value is ready to use.
type Parser struct{}

// Parse parses one brace-delimited TSS document. The top-level keys are
// selectors; nested keys are property names.
func (Parser) Parse(src string) (*Object, error) {
	return Parse(src)
}

// Parse parses one brace-delimited TSS document.
func Parse(src string) (*Object, error) {
	p := &parser{src: []rune(src)}

	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.peek() != '{' {
		return nil, p.errorf(`"{"`)
	}
	obj, err := p.parseObject()
	if err != nil {
		return nil, err
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf("end of input")
	}
	return obj, nil
}

type parser struct {
	src []rune
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(offset int) rune {
	if p.pos+offset >= len(p.src) {
		return 0
	}
	return p.src[p.pos+offset]
}

// errorf builds an "Expected X but Y found." error at the current position.
func (p *parser) errorf(expected string) *SyntaxError {
	found := "end of input"
	if !p.eof() {
		found = strconv.Quote(string(p.peek()))
	}
	return p.errorAt(p.pos, fmt.Sprintf("Expected %s but %s found.", expected, found))
}

func (p *parser) errorAt(pos int, msg string) *SyntaxError {
	line, col := 1, 1
	for i := 0; i < pos && i < len(p.src); i++ {
		if p.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &SyntaxError{Line: line, Column: col, Message: msg}
}

// skipSpace skips whitespace, line breaks and comments.
func (p *parser) skipSpace() error {
	for !p.eof() {
		c := p.peek()
		switch {
		case unicode.IsSpace(c):
			p.pos++
		case c == '/' && p.peekAt(1) == '/':
			for !p.eof() && p.peek() != '\n' {
				p.pos++
			}
		case c == '/' && p.peekAt(1) == '*':
			start := p.pos
			p.pos += 2
			for !p.eof() && (p.peek() != '*' || p.peekAt(1) != '/') {
				p.pos++
			}
			if p.eof() {
				return p.errorAt(start, `Expected "*/" but end of input found.`)
			}
			p.pos += 2
		default:
			return nil
		}
	}
	return nil
}

func (p *parser) parseObject() (*Object, error) {
	p.pos++ // {
	obj := &Object{}
	afterComma := false

	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() == '}' && !afterComma {
			p.pos++
			return obj, nil
		}

		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() != ':' {
			return nil, p.errorf(`":"`)
		}
		p.pos++
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)

		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		switch {
		case p.peek() == ',':
			p.pos++
			afterComma = true
		case p.eof():
			return nil, p.errorf(`"," or "}"`)
		default:
			afterComma = false
		}
	}
}

func isBareKeyRune(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || strings.ContainsRune("_$.#-", c)
}

func (p *parser) parseKey() (string, error) {
	switch c := p.peek(); {
	case c == '"' || c == '\'':
		return p.parseString()
	case isBareKeyRune(c):
		start := p.pos
		for !p.eof() && isBareKeyRune(p.peek()) {
			p.pos++
		}
		if p.peek() == '[' {
			for !p.eof() && p.peek() != ']' {
				p.pos++
			}
			if p.eof() {
				return "", p.errorf(`"]"`)
			}
			p.pos++
		}
		return string(p.src[start:p.pos]), nil
	default:
		return "", p.errorf(expectedKey)
	}
}

func (p *parser) parseString() (string, error) {
	quote := p.peek()
	start := p.pos
	p.pos++

	var b strings.Builder
	for !p.eof() {
		c := p.peek()
		p.pos++
		switch c {
		case quote:
			return b.String(), nil
		case '\\':
			if p.eof() {
				break
			}
			e := p.peek()
			p.pos++
			switch e {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case 'u':
				if p.pos+4 <= len(p.src) {
					if n, err := strconv.ParseUint(string(p.src[p.pos:p.pos+4]), 16, 32); err == nil {
						b.WriteRune(rune(n))
						p.pos += 4
						continue
					}
				}
				b.WriteRune(e)
			default:
				b.WriteRune(e)
			}
		default:
			b.WriteRune(c)
		}
	}
	return "", p.errorAt(start, fmt.Sprintf("Expected %s but end of input found.", strconv.Quote(string(quote))))
}

func (p *parser) parseValue() (Value, error) {
	switch p.peek() {
	case '"', '\'':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case '{':
		return p.parseObject()
	case '[':
		return p.parseArray()
	}

	start := p.pos
	text, err := p.scanExpression()
	if err != nil {
		return nil, err
	}
	if text == "" {
		p.pos = start
		return nil, p.errorf("value")
	}
	return classify(text), nil
}

func (p *parser) parseArray() (Array, error) {
	p.pos++ // [
	arr := Array{}
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() == ']' {
			p.pos++
			return arr, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
		default:
			return nil, p.errorf(`"," or "]"`)
		}
	}
}

// scanExpression reads raw expression text up to a top-level terminator:
// a comma, a closing brace or bracket, a line break, or a line comment.
func (p *parser) scanExpression() (string, error) {
	start := p.pos
	depth := 0

	for !p.eof() {
		c := p.peek()
		switch {
		case c == '"' || c == '\'':
			if _, err := p.parseString(); err != nil {
				return "", err
			}
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			if depth == 0 {
				return strings.TrimSpace(string(p.src[start:p.pos])), nil
			}
			depth--
		case depth == 0 && (c == ',' || c == '\n'):
			return strings.TrimSpace(string(p.src[start:p.pos])), nil
		case depth == 0 && c == '/' && (p.peekAt(1) == '/' || p.peekAt(1) == '*'):
			return strings.TrimSpace(string(p.src[start:p.pos])), nil
		}
		p.pos++
	}
	if depth > 0 {
		return "", p.errorAt(start, "Expected closing bracket but end of input found.")
	}
	return strings.TrimSpace(string(p.src[start:p.pos])), nil
}

func classify(text string) Value {
	switch text {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "null":
		return Null{}
	}
	if numberPattern.MatchString(text) {
		return Number(text)
	}
	if inner, ok := unwrapExpr(text); ok {
		return Expr(inner)
	}
	return Expr(text)
}

// unwrapExpr strips an expr(...) wrapper spanning the whole text.
func unwrapExpr(text string) (string, bool) {
	if !strings.HasPrefix(text, "expr(") || !strings.HasSuffix(text, ")") {
		return "", false
	}
	inner := text[len("expr(") : len(text)-1]
	depth := 0
	for _, c := range inner {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", false
			}
		}
	}
	return strings.TrimSpace(inner), depth == 0
}
