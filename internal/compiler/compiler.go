// Package compiler turns a component's view, style and controller into a
// runtime controller module, and stylesheets into runtime style modules.
package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/opmodel/alloyc/internal/component"
	"github.com/opmodel/alloyc/internal/controller"
	"github.com/opmodel/alloyc/internal/core"
	oerrors "github.com/opmodel/alloyc/internal/errors"
	"github.com/opmodel/alloyc/internal/output"
	"github.com/opmodel/alloyc/internal/sourcemap"
	"github.com/opmodel/alloyc/internal/style"
	"github.com/opmodel/alloyc/internal/view"
)

// CompileOptions selects the file to compile.
type CompileOptions struct {
	// File is any source path of the component: its view, style or controller.
	File string
}

// Result is a compiled controller module.
type Result struct {
	Code string
	Map  *sourcemap.Map

	// Dependencies are the view and stylesheet files the code was built
	// from; empty when the component has no view.
	Dependencies []string

	Meta *component.Meta
}

// StyleResult is a compiled runtime style module.
type StyleResult struct {
	Code         string
	Dependencies []string
	Meta         *component.Meta
}

// Compiler compiles the components of one app for one platform. It holds
// configuration and caches only, so concurrent compiles are safe.
type Compiler struct {
	opts      Options
	scanner   component.Scanner
	loader    view.MarkupLoader
	resolver  *component.Resolver
	engine    *style.Engine
	generator *view.Generator
	template  *template.Template
	stages    []Stage
}

// New creates a Compiler. Widgets and models are discovered once here.
func New(opts Options, options ...Option) (*Compiler, error) {
	opts.applyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	stages, err := StagesFor(opts.Target)
	if err != nil {
		return nil, err
	}
	c := &Compiler{
		opts:    opts,
		scanner: component.DirScanner{},
		stages:  stages,
	}
	for _, o := range options {
		o(c)
	}

	widgets, err := c.scanner.FindWidgets(opts.AppDir)
	if err != nil {
		return nil, err
	}
	modelDirs := []string{opts.AppDir}
	for _, w := range widgets {
		modelDirs = append(modelDirs, w.Dir)
	}
	models, err := c.scanner.FindModels(modelDirs...)
	if err != nil {
		return nil, err
	}

	c.template, err = loadTemplate(opts.TemplateDir)
	if err != nil {
		return nil, err
	}

	c.resolver = component.NewResolver(component.ResolverOptions{
		AppDir:    opts.AppDir,
		Platform:  opts.Platform,
		OutputDir: opts.OutputDir,
	}, widgets)
	c.engine = style.NewEngine(style.Options{
		AppDir:   opts.AppDir,
		Platform: opts.Platform,
		Theme:    opts.Theme,
	})
	c.generator = view.NewGenerator(view.Options{
		AppDir:    opts.AppDir,
		Platform:  opts.Platform,
		AutoStyle: opts.AutoStyle,
		Models:    models,
		Loader:    c.loader,
		Resolver:  c.resolver,
	})

	output.Debug("compiler ready",
		"platform", opts.Platform,
		"target", opts.Target,
		"widgets", len(widgets),
		"models", len(models),
	)
	return c, nil
}

// Options returns the compiler's effective options.
func (c *Compiler) Options() Options {
	return c.opts
}

// Resolver returns the compiler's component resolver.
func (c *Compiler) Resolver() *component.Resolver {
	return c.resolver
}

// CompileComponent compiles the component owning opts.File into a
// controller module with a source map, then runs the post-processing stages.
func (c *Compiler) CompileComponent(opts CompileOptions) (*Result, error) {
	if opts.File == "" {
		return nil, &oerrors.MissingInputError{Operation: "compile component", Option: "file"}
	}

	meta, err := c.resolver.ResolveMeta(opts.File)
	if err != nil {
		return nil, err
	}
	log := output.ComponentLogger(meta.CacheIdentifier)
	log.Debug("compiling component", "file", opts.File)

	bootstrap, wpath := widgetData(meta)
	data := templateData{
		WPath:          wpath,
		Widget:         bootstrap,
		ControllerPath: meta.ComponentIdentifier,
	}

	var (
		deps           []string
		baseController string
	)
	if fileExists(meta.Files.View) {
		v, err := c.CompileView(CompileOptions{File: meta.Files.View})
		if err != nil {
			return nil, err
		}
		data.PreCode = v.PreCode
		data.ViewCode = v.ViewCode
		data.PostCode = v.PostCode
		deps = v.Dependencies
		baseController = v.BaseController
	}

	ctrl, err := controller.Load(meta.Files.Controller)
	if err != nil {
		return nil, err
	}
	switch {
	case ctrl.ParentControllerName != "":
		data.ParentController = ctrl.ParentControllerName
	case baseController != "":
		data.ParentController = baseController
	default:
		data.ParentController = core.DefaultBase
	}
	data.PreCode += ctrl.Pre
	data.ModuleShim = ctrl.ModuleShim

	code, m, err := assemble(c.template, data, ctrl, meta, c.opts.ProjectDir)
	if err != nil {
		return nil, err
	}

	res := &Result{Code: code, Map: m, Dependencies: deps, Meta: meta}
	for _, st := range c.stages {
		if err := st.Process(res); err != nil {
			return nil, fmt.Errorf("stage %s: %w", st.Name(), err)
		}
	}

	log.Debug("compiled component", "bytes", len(res.Code), "dependencies", len(deps))
	return res, nil
}

// CompileView generates the view code of the component owning opts.File.
func (c *Compiler) CompileView(opts CompileOptions) (*view.Result, error) {
	if opts.File == "" {
		return nil, &oerrors.MissingInputError{Operation: "compile view", Option: "file"}
	}

	meta, err := c.resolver.ResolveMeta(opts.File)
	if err != nil {
		return nil, err
	}
	cascade, err := c.engine.LoadStyles(meta)
	if err != nil {
		return nil, err
	}
	return c.generator.Generate(meta, cascade)
}

// CompileStyle compiles the style cascade of the component owning
// opts.File into a runtime style module.
func (c *Compiler) CompileStyle(opts CompileOptions) (*StyleResult, error) {
	if opts.File == "" {
		return nil, &oerrors.MissingInputError{Operation: "compile style", Option: "file"}
	}

	meta, err := c.resolver.ResolveMeta(opts.File)
	if err != nil {
		return nil, err
	}
	cascade, err := c.engine.LoadStyles(meta)
	if err != nil {
		return nil, err
	}

	code := style.RuntimeModule(cascade.Rules, c.opts.Platform)
	if meta.Manifest != nil {
		code += "\n" + wpathHelper(meta.Manifest.ID)
	}

	output.ComponentLogger(meta.CacheIdentifier).Debug("compiled style", "rules", len(cascade.Rules))
	return &StyleResult{Code: code, Dependencies: cascade.Files, Meta: meta}, nil
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// relPath returns p relative to base when possible.
func relPath(base, p string) string {
	if rel, err := filepath.Rel(base, p); err == nil {
		return rel
	}
	return p
}
