// Package style implements the TSS cascade: stylesheets from the global,
// component, platform and theme layers are parsed, optimized and merged
// into one ordered rule list per component.
package style

import (
	"sort"
	"strings"

	"github.com/opmodel/alloyc/internal/core"
	"github.com/opmodel/alloyc/internal/tss"
)

// SelectorKind orders rules by specificity.
type SelectorKind int

const (
	// KindType matches an element's API name, e.g. "Label".
	KindType SelectorKind = iota

	// KindClass matches a class, e.g. ".title".
	KindClass

	// KindID matches an id, e.g. "#label".
	KindID
)

func (k SelectorKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindID:
		return "id"
	default:
		return "type"
	}
}

// Layer is the cascade layer a rule was last written by.
type Layer int

const (
	LayerGlobal Layer = iota
	LayerBase
	LayerPlatform
	LayerTheme
	LayerThemePlatform
)

func (l Layer) String() string {
	switch l {
	case LayerGlobal:
		return "global"
	case LayerBase:
		return "base"
	case LayerPlatform:
		return "platform"
	case LayerTheme:
		return "theme"
	case LayerThemePlatform:
		return "theme+platform"
	default:
		return "unknown"
	}
}

// Queries restrict where a rule applies.
type Queries struct {
	// Platform lists the platforms the rule applies to; empty means all.
	Platform []string

	// FormFactor is "handheld" or "tablet"; empty means all.
	FormFactor string

	// If is a runtime condition expression.
	If string
}

// Empty reports whether no query is set.
func (q Queries) Empty() bool {
	return len(q.Platform) == 0 && q.FormFactor == "" && q.If == ""
}

// Conditional reports whether the rule needs a runtime guard.
func (q Queries) Conditional() bool {
	return q.FormFactor != "" || q.If != ""
}

// Condition renders the runtime guard of a conditional rule,
// e.g. "Alloy.isTablet && Alloy.Globals.big".
func (q Queries) Condition() string {
	var parts []string
	if q.FormFactor != "" {
		parts = append(parts, core.FormFactorCheck(q.FormFactor))
	}
	if q.If != "" {
		parts = append(parts, q.If)
	}
	return strings.Join(parts, " && ")
}

// MatchesPlatform reports whether the rule applies to platform.
func (q Queries) MatchesPlatform(platform string) bool {
	if len(q.Platform) == 0 {
		return true
	}
	for _, p := range q.Platform {
		if p == platform {
			return true
		}
	}
	return false
}

// signature identifies the query set independent of platform order.
func (q Queries) signature() string {
	platforms := append([]string(nil), q.Platform...)
	sort.Strings(platforms)
	return strings.Join(platforms, ",") + "|" + q.FormFactor + "|" + q.If
}

// Rule is one selector block of a stylesheet.
type Rule struct {
	Selector string
	Kind     SelectorKind
	Queries  Queries
	Style    *tss.Object
	Layer    Layer
}

// Signature is the selector plus query signature. Two rules with equal
// signatures collide during Merge.
func (r Rule) Signature() string {
	return r.Selector + "|" + r.Queries.signature()
}

// Key is the selector as written, queries included.
func (r Rule) Key() string {
	return r.Selector + r.Queries.String()
}

// String renders the queries in selector form, e.g. "[platform=ios formFactor=tablet]".
func (q Queries) String() string {
	if q.Empty() {
		return ""
	}
	var parts []string
	if len(q.Platform) > 0 {
		parts = append(parts, "platform="+strings.Join(q.Platform, ","))
	}
	if q.FormFactor != "" {
		parts = append(parts, "formFactor="+q.FormFactor)
	}
	if q.If != "" {
		parts = append(parts, "if="+q.If)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ParseSelector splits a stylesheet key such as
// "#label[platform=ios,android formFactor=tablet if=Alloy.Globals.big]"
// into its selector, kind and queries. Unknown query names are ignored.
func ParseSelector(key string) (string, SelectorKind, Queries) {
	key = strings.TrimSpace(key)

	var q Queries
	selector := key
	if open := strings.IndexByte(key, '['); open >= 0 && strings.HasSuffix(key, "]") {
		selector = strings.TrimSpace(key[:open])
		for _, field := range strings.Fields(key[open+1 : len(key)-1]) {
			name, value, ok := strings.Cut(field, "=")
			if !ok {
				continue
			}
			switch name {
			case "platform":
				for _, p := range strings.Split(value, ",") {
					if p = strings.TrimSpace(p); p != "" {
						q.Platform = append(q.Platform, p)
					}
				}
			case "formFactor":
				q.FormFactor = value
			case "if":
				q.If = value
			}
		}
	}

	kind := KindType
	switch {
	case strings.HasPrefix(selector, "#"):
		kind = KindID
	case strings.HasPrefix(selector, "."):
		kind = KindClass
	}
	return selector, kind, q
}

// RulesFromDocument converts a parsed stylesheet into rules in document
// order, tagged with layer. Top-level values that are not objects are
// skipped.
func RulesFromDocument(doc *tss.Object, layer Layer) []Rule {
	rules := make([]Rule, 0, doc.Len())
	for _, p := range doc.Props {
		obj, ok := p.Value.(*tss.Object)
		if !ok {
			continue
		}
		selector, kind, queries := ParseSelector(p.Name)
		rules = append(rules, Rule{
			Selector: selector,
			Kind:     kind,
			Queries:  queries,
			Style:    obj,
			Layer:    layer,
		})
	}
	return rules
}
