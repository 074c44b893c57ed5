// Package view generates the construction code of a component's view and
// weaves model data bindings into it.
package view

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/opmodel/alloyc/internal/component"
	"github.com/opmodel/alloyc/internal/core"
	oerrors "github.com/opmodel/alloyc/internal/errors"
	"github.com/opmodel/alloyc/internal/markup"
	"github.com/opmodel/alloyc/internal/output"
	"github.com/opmodel/alloyc/internal/style"
)

// MarkupLoader loads a view document.
type MarkupLoader interface {
	Load(path string) (*markup.Document, error)
}

// Options configures a Generator.
type Options struct {
	// AppDir is the app directory; required views are looked up below it.
	AppDir string

	// Platform is the build platform.
	Platform string

	// AutoStyle adds a classes property to elements with a class attribute.
	// A view's root autoStyle attribute overrides it.
	AutoStyle bool

	// Models are the known model names. Model elements naming anything else
	// are reported with a warning. Nil disables the check.
	Models []string

	// Loader defaults to markup.FileLoader.
	Loader MarkupLoader

	// Resolver, when set, picks platform-specific variants of required views
	// and provides the widget set.
	Resolver *component.Resolver
}

// Result is the generated code of one view.
type Result struct {
	// PreCode creates the view's models and collections.
	PreCode string

	// ViewCode builds the element tree, binding handlers and exports.destroy.
	ViewCode string

	// PostCode attaches listeners deferred until the controller body has run.
	PostCode string

	// Dependencies are the view file followed by every stylesheet consulted.
	Dependencies []string

	// BaseController is the quoted baseController root attribute, or "".
	BaseController string

	// Bindings are the registered bindings in weaving order.
	Bindings []Binding
}

// Generator turns views into JavaScript. It holds only configuration and is
// safe for concurrent use; all per-view state lives in a Scope.
type Generator struct {
	opts   Options
	loader MarkupLoader
}

// NewGenerator creates a Generator.
func NewGenerator(opts Options) *Generator {
	loader := opts.Loader
	if loader == nil {
		loader = markup.FileLoader{}
	}
	return &Generator{opts: opts, loader: loader}
}

// Generate compiles meta's view against the style cascade.
func (g *Generator) Generate(meta *component.Meta, cascade *style.Cascade) (*Result, error) {
	if meta == nil || meta.Files.View == "" {
		return nil, &oerrors.MissingInputError{Operation: "generate view", Option: "file"}
	}

	doc, err := g.loader.Load(meta.Files.View)
	if err != nil {
		return nil, err
	}

	deps := []string{meta.Files.View}
	var rules []style.Rule
	if cascade != nil {
		rules = cascade.Rules
		deps = append(deps, cascade.Files...)
	}

	s := newScope(meta, rules, g.opts.Platform, g.opts.AutoStyle)
	s.models = g.opts.Models

	root := doc.Root
	if root.HasAttr(core.AttrAutoStyle) {
		s.autoStyle = root.Attr(core.AttrAutoStyle) == "true"
	}
	s.module = root.Attr(core.AttrModule)
	if bc := root.Attr(core.AttrBaseController); bc != "" {
		s.baseController = `"` + bc + `"`
	}

	if meta.IsEntry() {
		if err := g.validateRoot(root); err != nil {
			return nil, err
		}
	}

	// Models and collections first, so bindings below can refer to them.
	var pre strings.Builder
	for _, n := range root.Children() {
		if !core.IsModelElement(n.FullName()) {
			continue
		}
		if core.MatchesPlatform(n.Attr("platform"), s.platform) {
			frag, err := kindOf(n).emit(n, s, parentRef{})
			if err != nil {
				return nil, err
			}
			pre.WriteString(frag.code)
		}
		root.Remove(n)
	}

	var code strings.Builder
	for _, n := range root.Children() {
		frag, err := s.emitNode(n, parentRef{})
		if err != nil {
			return nil, err
		}
		code.WriteString(frag.code)
	}
	code.WriteString(s.weave())
	code.WriteString("exports.destroy = function () {" + s.destroy.String() + "};")

	output.Debug("generated view",
		"component", meta.CacheIdentifier,
		"bindings", len(s.Bindings()),
	)

	return &Result{
		PreCode:        pre.String(),
		ViewCode:       code.String(),
		PostCode:       s.post.String(),
		Dependencies:   deps,
		BaseController: s.baseController,
		Bindings:       s.Bindings(),
	}, nil
}

// validateRoot checks that the entry view only declares root containers at
// the top level, following requires into their views.
func (g *Generator) validateRoot(root *markup.Node) error {
	for _, n := range root.Children() {
		if !core.MatchesPlatform(n.Attr("platform"), g.opts.Platform) {
			continue
		}
		names, err := g.topLevelNames(n)
		if err != nil {
			return err
		}
		for _, name := range names {
			if !contains(AllowedRootElements, name) && !core.IsModelElement(name) {
				return &RootContainerError{Element: name, Allowed: AllowedRootElements}
			}
		}
	}
	return nil
}

func (g *Generator) topLevelNames(n *markup.Node) ([]string, error) {
	full := n.FullName()
	if full != core.ElementRequire && full != ElementWidget {
		return []string{full}, nil
	}

	path, err := g.requiredView(n, full == ElementWidget || n.Attr("type") == "widget")
	if err != nil {
		return nil, err
	}
	doc, err := g.loader.Load(path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, c := range doc.Root.Children() {
		sub, err := g.topLevelNames(c)
		if err != nil {
			return nil, err
		}
		names = append(names, sub...)
	}
	return names, nil
}

// requiredView returns the view file a require element includes.
func (g *Generator) requiredView(n *markup.Node, widget bool) (string, error) {
	src := n.Attr("src")
	base := filepath.Join(g.opts.AppDir, core.RoleView.Dir(), filepath.FromSlash(src)+"."+core.RoleView.Ext())

	if widget {
		w := g.findWidget(src)
		if w == nil {
			return "", oerrors.NewNotFoundError(
				fmt.Sprintf("widget %q not found", src),
				filepath.Join(g.opts.AppDir, core.WidgetDir),
				"Check the widget's id in its widget.json.",
			)
		}
		name := n.Attr("name")
		if name == "" {
			name = "widget"
		}
		base = filepath.Join(w.Dir, core.RoleView.Dir(), name+"."+core.RoleView.Ext())
	}

	if g.opts.Resolver != nil {
		if meta, err := g.opts.Resolver.ResolveMeta(base); err == nil && meta.Files.View != "" {
			return meta.Files.View, nil
		}
	}
	return base, nil
}

func (g *Generator) findWidget(id string) *component.Widget {
	if g.opts.Resolver == nil {
		return nil
	}
	for _, w := range g.opts.Resolver.Widgets() {
		if w.Manifest.ID == id {
			return w
		}
	}
	return nil
}
