package view

import (
	"regexp"
	"strings"

	"github.com/opmodel/alloyc/internal/style"
	"github.com/opmodel/alloyc/internal/tss"
)

// reservedAttrs are consumed by the compiler and never become properties.
var reservedAttrs = map[string]bool{
	"id":         true,
	"class":      true,
	"platform":   true,
	"formFactor": true,
	"if":         true,
	"ns":         true,
	"module":     true,
}

// textProperty maps elements whose text content sets a property.
var textProperty = map[string]string{
	"Ti.UI.Label":     "text",
	"Ti.UI.Button":    "title",
	"Ti.UI.TextArea":  "value",
	"Ti.UI.TextField": "value",
}

var numberPattern = regexp.MustCompile(`^-?(?:\d+\.?\d*|\.\d+)$`)

// rawPrefixes mark attribute values that are emitted as expressions.
var rawPrefixes = []string{"Ti.", "Titanium.", "Alloy.", "$.", "L("}

// attrValue converts a markup attribute string into a property value.
func attrValue(v string) tss.Value {
	switch {
	case v == "true" || v == "false":
		return tss.Bool(v == "true")
	case numberPattern.MatchString(v):
		return tss.Number(v)
	}
	for _, p := range rawPrefixes {
		if strings.HasPrefix(v, p) {
			if p == "Titanium." {
				return tss.Expr("Ti." + strings.TrimPrefix(v, p))
			}
			return tss.Expr(v)
		}
	}
	return tss.Expr(tss.Quote(v, '\''))
}

// isEventAttr reports whether name declares an event listener, e.g. onClick.
func isEventAttr(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "on") &&
		name[2] >= 'A' && name[2] <= 'Z'
}

// eventName returns the event of an on<Event> attribute, onClick -> click.
func eventName(attr string) string {
	return strings.ToLower(attr[2:3]) + attr[3:]
}

// segment is one argument of the generated creation call.
type segment struct {
	cond string
	obj  *tss.Object
}

// styleSegments folds matched rules into object literals. Consecutive
// unconditional rules share one literal; each conditional rule becomes its
// own guarded segment so later rules keep precedence.
func styleSegments(matched []style.Rule) []segment {
	var segs []segment
	for _, r := range matched {
		cond := ""
		if r.Queries.Conditional() {
			cond = r.Queries.Condition()
		}
		if cond == "" && len(segs) > 0 && segs[len(segs)-1].cond == "" {
			last := &segs[len(segs)-1]
			last.obj = last.obj.Merge(r.Style)
			continue
		}
		segs = append(segs, segment{cond: cond, obj: tss.NewObject().Merge(r.Style)})
	}
	return segs
}

// creationArgs renders the argument of a creation call: style segments,
// then attribute properties.
func creationArgs(segs []segment, attrs *tss.Object) string {
	switch {
	case len(segs) == 0:
		return tss.Emit(attrs)
	case len(segs) == 1 && segs[0].cond == "":
		return tss.Emit(segs[0].obj.Merge(attrs))
	}

	args := make([]string, 0, len(segs)+1)
	for _, s := range segs {
		if s.cond == "" {
			args = append(args, tss.Emit(s.obj))
			continue
		}
		args = append(args, s.cond+"?"+tss.Emit(s.obj)+":{}")
	}
	args = append(args, tss.Emit(attrs))
	return "_.extend(" + strings.Join(args, ",") + ")"
}

// classes splits a class attribute.
func classes(attr string) []string {
	return strings.Fields(attr)
}
