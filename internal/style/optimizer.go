package style

import (
	"regexp"
	"strings"

	"github.com/opmodel/alloyc/internal/tss"
)

// Optimizer rewrites a parsed stylesheet before it enters the cascade.
type Optimizer interface {
	Optimize(doc *tss.Object) (*tss.Object, error)
}

// PlatformOptimizer folds compile-time platform constants. OS_IOS and
// OS_ANDROID become true or false for the build platform, a ternary on a
// folded constant is reduced to the taken branch, and the Titanium.
// namespace is shortened to Ti.
type PlatformOptimizer struct {
	Platform string
}

var _ Optimizer = PlatformOptimizer{}

var (
	platformConstPattern = regexp.MustCompile(`\bOS_(IOS|ANDROID)\b`)
	titaniumPattern      = regexp.MustCompile(`\bTitanium\.`)
	ternaryPattern       = regexp.MustCompile(`^\(?\s*(true|false)\s*\)?\s*\?\s*([^?:]+?)\s*:\s*([^?:]+)$`)
)

// Optimize returns a rewritten copy of doc.
func (o PlatformOptimizer) Optimize(doc *tss.Object) (*tss.Object, error) {
	return o.object(doc), nil
}

func (o PlatformOptimizer) object(obj *tss.Object) *tss.Object {
	out := &tss.Object{Props: make([]tss.Property, 0, obj.Len())}
	for _, p := range obj.Props {
		out.Props = append(out.Props, tss.Property{Name: p.Name, Value: o.value(p.Value)})
	}
	return out
}

func (o PlatformOptimizer) value(v tss.Value) tss.Value {
	switch t := v.(type) {
	case *tss.Object:
		return o.object(t)
	case tss.Array:
		out := make(tss.Array, len(t))
		for i, e := range t {
			out[i] = o.value(e)
		}
		return out
	case tss.Expr:
		return o.expr(string(t))
	default:
		return v
	}
}

func (o PlatformOptimizer) expr(text string) tss.Value {
	text = titaniumPattern.ReplaceAllString(text, "Ti.")
	text = platformConstPattern.ReplaceAllStringFunc(text, func(m string) string {
		if strings.EqualFold(strings.TrimPrefix(m, "OS_"), o.Platform) {
			return "true"
		}
		return "false"
	})

	if m := ternaryPattern.FindStringSubmatch(text); m != nil {
		branch := m[3]
		if m[1] == "true" {
			branch = m[2]
		}
		return literal(strings.TrimSpace(branch))
	}
	return literal(text)
}

// literal reparses folded expression text so that a folded branch such as
// "10" or "'#fff'" becomes a number or string again.
func literal(text string) tss.Value {
	doc, err := tss.Parse("{v:" + text + "}")
	if err != nil || doc.Len() != 1 {
		return tss.Expr(text)
	}
	return doc.Props[0].Value
}
