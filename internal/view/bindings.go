package view

import (
	"regexp"
	"strings"

	"github.com/opmodel/alloyc/internal/core"
	"github.com/opmodel/alloyc/internal/tss"
)

// Binding ties a view property to a model attribute. It is re-applied
// whenever the model variable fires one of core.ModelBindingEvent.
type Binding struct {
	// ModelVariable is the expression the handler subscribes to, e.g.
	// "Alloy.Models.book" or "$.book".
	ModelVariable string

	// TargetID is the id of the bound element.
	TargetID string

	// Property is the bound property name.
	Property string

	// Value is the expression assigned to the property.
	Value string

	// Condition is the guard the element was created under, "" when unconditional.
	Condition string

	// FormFactor is the nearest formFactor the element was declared under.
	FormFactor string

	// Models are the distinct model variables Value reads from.
	Models []string
}

type bindingGroup struct {
	variable string
	bindings []Binding
}

var bindingPattern = regexp.MustCompile(`\{(\$\.)?([A-Za-z_$][\w$]*)\.([A-Za-z_$][\w$.]*)\}`)

// isBinding reports whether an attribute value references a model attribute.
func isBinding(value string) bool {
	return bindingPattern.MatchString(value)
}

// modelVariable resolves a model name referenced from a binding.
func (s *Scope) modelVariable(local bool, name string) string {
	if local {
		return "$." + name
	}
	if v, ok := s.localModels[name]; ok {
		return v
	}
	return "Alloy.Models." + name
}

// bindingValue builds the assignment expression for value and returns the
// model variables it reads, in first-seen order.
func (s *Scope) bindingValue(value string) (string, []string) {
	var (
		parts  []string
		models []string
		last   int
	)
	for _, m := range bindingPattern.FindAllStringSubmatchIndex(value, -1) {
		if m[0] > last {
			parts = append(parts, tss.Quote(value[last:m[0]], '\''))
		}
		variable := s.modelVariable(m[2] >= 0, value[m[4]:m[5]])
		if !contains(models, variable) {
			models = append(models, variable)
		}
		parts = append(parts, transformRef(variable, value[m[6]:m[7]]))
		last = m[1]
	}
	if last < len(value) {
		parts = append(parts, tss.Quote(value[last:], '\''))
	}
	return strings.Join(parts, " + "), models
}

func transformRef(variable, attr string) string {
	ref := variable + ".__transform"
	for _, seg := range strings.Split(attr, ".") {
		if tss.IsIdentifier(seg) {
			ref += "." + seg
		} else {
			ref += "[" + tss.Quote(seg, '\'') + "]"
		}
	}
	return ref
}

// bind registers a binding for property on the element with id.
func (s *Scope) bind(id, property, value string, parent parentRef) {
	expr, models := s.bindingValue(value)
	b := Binding{
		ModelVariable: models[0],
		TargetID:      id,
		Property:      property,
		Value:         expr,
		Condition:     parent.cond,
		FormFactor:    parent.formFactor,
		Models:        models,
	}

	g, ok := s.groupIndex[b.ModelVariable]
	if !ok {
		g = &bindingGroup{variable: b.ModelVariable}
		s.groupIndex[b.ModelVariable] = g
		s.groups = append(s.groups, g)
	}
	g.bindings = append(g.bindings, b)
}

// weave emits one handler per model variable and accumulates the matching
// teardown into the destroy body.
func (s *Scope) weave() string {
	var code strings.Builder
	for _, g := range s.groups {
		handler := s.uniqueID()

		code.WriteString("var " + handler + " = function() {")
		var refreshed []string
		for _, b := range g.bindings {
			for _, m := range b.Models {
				if contains(refreshed, m) {
					continue
				}
				refreshed = append(refreshed, m)
				code.WriteString(m + ".__transform = _.isFunction(" + m + ".transform) ? " +
					m + ".transform() : " + m + ".toJSON();")
			}
		}

		// assignments grouped by condition, first-seen order
		var conds []string
		byCond := make(map[string][]Binding)
		for _, b := range g.bindings {
			if _, ok := byCond[b.Condition]; !ok {
				conds = append(conds, b.Condition)
			}
			byCond[b.Condition] = append(byCond[b.Condition], b)
		}
		for _, c := range conds {
			var assign strings.Builder
			for _, b := range byCond[c] {
				assign.WriteString("$." + b.TargetID + "." + b.Property + " = " + b.Value + ";")
			}
			if c == "" {
				code.WriteString(assign.String())
			} else {
				code.WriteString("if(" + c + "){" + assign.String() + "}")
			}
		}
		code.WriteString("};")
		code.WriteString(g.variable + ".on('" + core.ModelBindingEvent + "', " + handler + ");")

		s.destroy.WriteString(g.variable + " && ")
		if ff := sharedFormFactor(g.bindings); ff != "" {
			s.destroy.WriteString(core.FormFactorCheck(ff) + " && ")
		}
		s.destroy.WriteString(g.variable + ".off('" + core.ModelBindingEvent + "', " + handler + ");")
	}
	return code.String()
}

// sharedFormFactor returns the form factor common to all bindings, or "".
func sharedFormFactor(bindings []Binding) string {
	ff := bindings[0].FormFactor
	for _, b := range bindings[1:] {
		if b.FormFactor != ff {
			return ""
		}
	}
	return ff
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
