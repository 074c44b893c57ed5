package tss

import (
	"strings"
	"unicode"
)

// Emit renders v as a JavaScript literal. Objects keep property order and
// carry a trailing comma after every property: {a:1,b:"x",}.
func Emit(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

// EmitProps renders the properties of o without the surrounding braces,
// each followed by a comma.
func EmitProps(o *Object) string {
	var b strings.Builder
	writeProps(&b, o)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch t := v.(type) {
	case String:
		b.WriteString(Quote(string(t), '"'))
	case Number:
		b.WriteString(string(t))
	case Bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Null, nil:
		b.WriteString("null")
	case Expr:
		b.WriteString(string(t))
	case Array:
		b.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeValue(b, e)
		}
		b.WriteByte(']')
	case *Object:
		b.WriteByte('{')
		writeProps(b, t)
		b.WriteByte('}')
	}
}

func writeProps(b *strings.Builder, o *Object) {
	for _, p := range o.propsOrNil() {
		b.WriteString(Key(p.Name))
		b.WriteByte(':')
		writeValue(b, p.Value)
		b.WriteByte(',')
	}
}

// Key renders an object key, bare when it is a valid identifier.
func Key(name string) string {
	if IsIdentifier(name) {
		return name
	}
	return Quote(name, '"')
}

// IsIdentifier reports whether s is a plain JavaScript identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '_' || c == '$' || unicode.IsLetter(c) {
			continue
		}
		if i > 0 && unicode.IsDigit(c) {
			continue
		}
		return false
	}
	return true
}

// Quote renders s as a JavaScript string literal using the given quote
// character.
func Quote(s string, quote rune) string {
	var b strings.Builder
	b.WriteRune(quote)
	for _, c := range s {
		switch c {
		case quote, '\\':
			b.WriteByte('\\')
			b.WriteRune(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteRune(quote)
	return b.String()
}
