package view

import (
	"strconv"
	"strings"

	"github.com/opmodel/alloyc/internal/component"
	"github.com/opmodel/alloyc/internal/core"
	"github.com/opmodel/alloyc/internal/style"
)

// Scope is the scratch state of one view compile: generated ids, binding
// registrations, teardown and post code. A Scope is created per Generate
// call and never shared.
type Scope struct {
	meta     *component.Meta
	rules    []style.Rule
	platform string

	// models are the known model names, nil when unknown.
	models []string

	autoStyle      bool
	module         string
	baseController string

	counter int

	// localModels maps model names declared with instance="true" to the
	// controller variable holding them.
	localModels map[string]string

	groups     []*bindingGroup
	groupIndex map[string]*bindingGroup

	destroy strings.Builder
	post    strings.Builder
}

func newScope(meta *component.Meta, rules []style.Rule, platform string, autoStyle bool) *Scope {
	return &Scope{
		meta:        meta,
		rules:       rules,
		platform:    platform,
		autoStyle:   autoStyle,
		localModels: make(map[string]string),
		groupIndex:  make(map[string]*bindingGroup),
	}
}

// uniqueID returns the next generated identifier, "__alloyId<n>".
func (s *Scope) uniqueID() string {
	s.counter++
	return core.GeneratedIDPrefix + strconv.Itoa(s.counter)
}

// Bindings returns the registered bindings grouped by model variable in
// first-seen order.
func (s *Scope) Bindings() []Binding {
	var out []Binding
	for _, g := range s.groups {
		out = append(out, g.bindings...)
	}
	return out
}

// parentRef describes where an element is attached.
type parentRef struct {
	// symbol is the parent's view symbol, "" at the top level.
	symbol string

	// adder is the parent method children are attached with. An empty adder
	// with a non-empty symbol means the child is attached by the parent
	// itself (passed as a creation property).
	adder string

	// cond is the guard condition in effect.
	cond string

	// formFactor is the nearest declared formFactor.
	formFactor string
}

func (p parentRef) topLevel() bool {
	return p.symbol == ""
}

// viewSymbol is the expression holding an element in generated code.
func viewSymbol(id string) string {
	return `$.__views["` + id + `"]`
}

func joinCond(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " && " + b
	}
}
