package view

import (
	"fmt"
	"strings"

	"github.com/opmodel/alloyc/internal/core"
	oerrors "github.com/opmodel/alloyc/internal/errors"
	"github.com/opmodel/alloyc/internal/markup"
	"github.com/opmodel/alloyc/internal/output"
	"github.com/opmodel/alloyc/internal/style"
	"github.com/opmodel/alloyc/internal/tss"
)

// ElementWidget is the full name of the <Widget> shorthand for a widget require.
const ElementWidget = "Alloy.Widget"

// fragment is the code generated for one element and its subtree.
type fragment struct {
	code string

	// symbol is the element's view symbol, "" for elements without one.
	symbol string
}

// elementKind generates code for one category of markup element.
type elementKind interface {
	emit(n *markup.Node, s *Scope, parent parentRef) (fragment, error)
}

type (
	uiElement         struct{}
	requireElement    struct{ widget bool }
	modelElement      struct{}
	collectionElement struct{}
)

func kindOf(n *markup.Node) elementKind {
	switch n.FullName() {
	case core.ElementRequire:
		return requireElement{widget: n.Attr("type") == "widget"}
	case ElementWidget:
		return requireElement{widget: true}
	case core.ElementModel:
		return modelElement{}
	case core.ElementCollection:
		return collectionElement{}
	default:
		return uiElement{}
	}
}

// childAdders maps containers to the method children are attached with.
var childAdders = map[string]string{
	"Ti.UI.TabGroup":       "addTab",
	"Ti.UI.ScrollableView": "addView",
}

// windowContainers receive their first child as the "window" creation
// property instead of attaching it afterwards.
var windowContainers = map[string]bool{
	"Ti.UI.NavigationWindow":     true,
	"Ti.UI.iOS.NavigationWindow": true,
}

// emitNode generates code for n unless its platform attribute excludes the
// build platform. formFactor and if attributes wrap the result in a guard.
func (s *Scope) emitNode(n *markup.Node, parent parentRef) (fragment, error) {
	if !core.MatchesPlatform(n.Attr("platform"), s.platform) {
		return fragment{}, nil
	}

	var own string
	ref := parent
	if ff := n.Attr("formFactor"); ff != "" {
		own = core.FormFactorCheck(ff)
		ref.formFactor = ff
	}
	if cond := n.Attr("if"); cond != "" {
		own = joinCond(own, cond)
	}
	ref.cond = joinCond(parent.cond, own)

	frag, err := kindOf(n).emit(n, s, ref)
	if err != nil {
		return fragment{}, err
	}
	if own != "" && frag.code != "" {
		frag.code = "if(" + own + "){\n" + frag.code + "}\n"
	}
	return frag, nil
}

// idFor returns the element id. Every top-level element without one takes
// the view name, so each form factor's root is reachable as $.<view>.
func (s *Scope) idFor(n *markup.Node, parent parentRef) string {
	if id := n.Attr("id"); id != "" {
		return id
	}
	if parent.topLevel() {
		return s.meta.ComponentName
	}
	return s.uniqueID()
}

// attach returns the statement attaching sym to its parent.
func attach(sym string, parent parentRef) string {
	switch {
	case parent.topLevel():
		return sym + " && $.addTopLevelView(" + sym + ");\n"
	case parent.adder == "":
		return ""
	default:
		return parent.symbol + "." + parent.adder + "(" + sym + ");\n"
	}
}

// listen registers an on<Event> attribute. The listener is added right away
// when the function is already defined; otherwise it is deferred to the post
// code that runs after the controller body.
func (s *Scope) listen(sym string, a markup.Attr) string {
	fn := a.Value
	evt := eventName(a.Name)
	key := "__defers['" + sym + "!" + evt + "!" + fn + "']"
	add := "$.addListener(" + sym + ",'" + evt + "'," + fn + ")"

	s.post.WriteString(key + " && " + add + ";")
	return fn + "?" + add + ":" + key + "=true;"
}

func (s *Scope) createCall(n *markup.Node) string {
	module := n.Attr("module")
	if module == "" {
		module = s.module
	}
	if module != "" && n.Namespace() == markup.DefaultNamespace {
		return "require(" + tss.Quote(module, '\'') + ").create" + n.Name()
	}
	return n.Namespace() + ".create" + n.Name()
}

func (uiElement) emit(n *markup.Node, s *Scope, parent parentRef) (fragment, error) {
	api := n.FullName()
	id := s.idFor(n, parent)
	sym := viewSymbol(id)
	target := style.Target{APIName: api, Classes: classes(n.Attr("class")), ID: id}

	attrs := tss.NewObject()
	var events []markup.Attr
	for _, a := range n.Attrs() {
		switch {
		case reservedAttrs[a.Name] || strings.Contains(a.Name, ":"):
		case isEventAttr(a.Name):
			events = append(events, a)
		case isBinding(a.Value):
			s.bind(id, a.Name, a.Value, parent)
		default:
			attrs.Set(a.Name, attrValue(a.Value))
		}
	}
	if prop, ok := textProperty[api]; ok {
		if text := n.Text(); text != "" {
			if isBinding(text) {
				s.bind(id, prop, text, parent)
			} else {
				attrs.Set(prop, tss.Expr(tss.Quote(text, '\'')))
			}
		}
	}

	var b strings.Builder
	childRef := parentRef{
		symbol:     sym,
		adder:      "add",
		cond:       parent.cond,
		formFactor: parent.formFactor,
	}
	if adder, ok := childAdders[api]; ok {
		childRef.adder = adder
	}
	children := n.Children()

	if windowContainers[api] && len(children) > 0 {
		first, err := s.emitNode(children[0], parentRef{symbol: sym, cond: parent.cond, formFactor: parent.formFactor})
		if err != nil {
			return fragment{}, err
		}
		b.WriteString(first.code)
		if first.symbol != "" {
			attrs.Set("window", tss.Expr(first.symbol))
		}
		children = children[1:]
	}

	if s.autoStyle && len(target.Classes) > 0 {
		list := make(tss.Array, len(target.Classes))
		for i, c := range target.Classes {
			list[i] = tss.String(c)
		}
		attrs.Set("classes", list)
	}
	attrs.Set("id", tss.String(id))

	args := creationArgs(styleSegments(style.Match(s.rules, target, s.platform)), attrs)
	b.WriteString(sym + " = " + s.createCall(n) + "(\n" + args + "\n);\n")
	b.WriteString(attach(sym, parent))

	for _, c := range children {
		frag, err := s.emitNode(c, childRef)
		if err != nil {
			return fragment{}, err
		}
		b.WriteString(frag.code)
	}
	for _, e := range events {
		b.WriteString(s.listen(sym, e))
	}
	return fragment{code: b.String(), symbol: sym}, nil
}

func (r requireElement) emit(n *markup.Node, s *Scope, parent parentRef) (fragment, error) {
	src := n.Attr("src")
	if src == "" {
		return fragment{}, oerrors.NewValidationError(
			fmt.Sprintf("<%s> requires a src attribute", n.Name()),
			s.meta.Files.View,
			"Set src to the controller or widget id to include.",
		)
	}

	id := s.idFor(n, parent)
	sym := viewSymbol(id)

	args := tss.NewObject()
	var events []markup.Attr
	for _, a := range n.Attrs() {
		switch {
		case reservedAttrs[a.Name] || strings.Contains(a.Name, ":"):
		case a.Name == "src" || a.Name == "type" || a.Name == "name":
		case isEventAttr(a.Name):
			events = append(events, a)
		default:
			args.Set(a.Name, attrValue(a.Value))
		}
	}
	args.Set("id", tss.String(id))
	if !parent.topLevel() {
		args.Set(core.ParentSymbolVar, tss.Expr(parent.symbol))
	}

	var call string
	switch {
	case r.widget:
		name := n.Attr("name")
		if name == "" {
			name = "widget"
		}
		call = "Alloy.createWidget(" + tss.Quote(src, '\'') + "," + tss.Quote(name, '\'') + "," + tss.Emit(args) + ")"
	case s.meta.IsWidget():
		call = core.WidgetObject + ".createController(" + tss.Quote(src, '\'') + "," + tss.Emit(args) + ")"
	default:
		call = "Alloy.createController(" + tss.Quote(src, '\'') + "," + tss.Emit(args) + ")"
	}

	var b strings.Builder
	b.WriteString(sym + " = " + call + ";\n")
	switch {
	case parent.topLevel():
		b.WriteString(attach(sym, parent))
	case parent.adder != "":
		b.WriteString(sym + ".setParent(" + parent.symbol + ");\n")
	}
	for _, e := range events {
		b.WriteString(s.listen(sym, e))
	}
	return fragment{code: b.String(), symbol: sym}, nil
}

func (modelElement) emit(n *markup.Node, s *Scope, _ parentRef) (fragment, error) {
	return s.emitData(n, "Model", "Models")
}

func (collectionElement) emit(n *markup.Node, s *Scope, _ parentRef) (fragment, error) {
	return s.emitData(n, "Collection", "Collections")
}

// emitData lowers a model or collection element. Instances are created per
// controller and stored on $; otherwise the app-wide singleton is used.
func (s *Scope) emitData(n *markup.Node, kind, registry string) (fragment, error) {
	src := n.Attr("src")
	if src == "" {
		return fragment{}, oerrors.NewValidationError(
			fmt.Sprintf("<%s> requires a src attribute", n.Name()),
			s.meta.Files.View,
			"Set src to the name of a file in the models directory.",
		)
	}
	if s.models != nil && !contains(s.models, src) {
		output.Warn("model not found", "src", src, "view", s.meta.Files.View)
	}

	id := n.Attr("id")
	if n.Attr("instance") == "true" {
		if id == "" {
			id = src
		}
		s.localModels[id] = "$." + id
		return fragment{code: "$." + id + " = Alloy.create" + kind + "(" + tss.Quote(src, '\'') + ");\n"}, nil
	}

	call := "Alloy." + registry + ".instance(" + tss.Quote(src, '\'') + ")"
	if id != "" {
		return fragment{code: "$." + id + " = " + call + ";\n"}, nil
	}
	return fragment{code: call + ";\n"}, nil
}
