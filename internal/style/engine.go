package style

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/opmodel/alloyc/internal/cache"
	"github.com/opmodel/alloyc/internal/component"
	"github.com/opmodel/alloyc/internal/core"
	"github.com/opmodel/alloyc/internal/output"
	"github.com/opmodel/alloyc/internal/tss"
)

var (
	blockPattern     = regexp.MustCompile(`^\s*\{[\s\S]+\}\s*$`)
	backslashPattern = regexp.MustCompile(`(\s)(\\+)(\s)`)
)

// globalKey is the cache key of the global stylesheet layers.
const globalKey = "\x00global"

// Grammar parses stylesheet text into a document whose top-level keys are
// selectors. Positioned failures are reported as *tss.SyntaxError.
type Grammar interface {
	Parse(src string) (*tss.Object, error)
}

// Options configures an Engine.
type Options struct {
	// AppDir is the app directory holding styles/ and themes/.
	AppDir string

	// Platform is the build platform.
	Platform string

	// Theme is the configured theme, or "".
	Theme string

	// Grammar defaults to the TSS parser.
	Grammar Grammar

	// Optimizer defaults to a PlatformOptimizer for Platform.
	Optimizer Optimizer
}

// Cascade is the merged rule list of one component.
type Cascade struct {
	// Rules in cascade order.
	Rules []Rule

	// Files lists every stylesheet consulted, present or not, in load order.
	Files []string
}

// Engine loads and merges stylesheets. Results are cached per component and
// reloaded when any consulted file changes. It is safe for concurrent use.
type Engine struct {
	opts      Options
	grammar   Grammar
	optimizer Optimizer
	globals   *cache.Cache[[]Rule]
	cascades  *cache.Cache[*Cascade]
}

// source is one stylesheet candidate.
type source struct {
	path  string
	layer Layer
}

// NewEngine creates a style engine.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		opts:      opts,
		grammar:   opts.Grammar,
		optimizer: opts.Optimizer,
		globals:   cache.New[[]Rule](),
		cascades:  cache.New[*Cascade](),
	}
	if e.grammar == nil {
		e.grammar = tss.Parser{}
	}
	if e.optimizer == nil {
		e.optimizer = PlatformOptimizer{Platform: opts.Platform}
	}
	return e
}

// LoadStyles returns the cascade of meta: global stylesheets, then the
// component's base, platform, theme and theme+platform stylesheets, each
// merged over the previous layers. Absent files are skipped.
func (e *Engine) LoadStyles(meta *component.Meta) (*Cascade, error) {
	globals := e.globalSources()
	sources := e.componentSources(meta)

	files := make([]string, 0, len(globals)+len(sources))
	for _, s := range globals {
		files = append(files, s.path)
	}
	for _, s := range sources {
		files = append(files, s.path)
	}

	return e.cascades.GetOrCreate(meta.CacheIdentifier, cache.Fingerprint(files...), func() (*Cascade, error) {
		rules, err := e.GlobalRules()
		if err != nil {
			return nil, err
		}
		for _, s := range sources {
			incoming, err := e.loadFile(s)
			if err != nil {
				return nil, err
			}
			rules = Merge(rules, incoming)
		}
		return &Cascade{Rules: rules, Files: files}, nil
	})
}

// GlobalRules returns the merged app-wide rules. They are loaded once and
// reloaded only when one of the global stylesheets changes.
func (e *Engine) GlobalRules() ([]Rule, error) {
	globals := e.globalSources()
	paths := make([]string, len(globals))
	for i, s := range globals {
		paths[i] = s.path
	}

	return e.globals.GetOrCreate(globalKey, cache.Fingerprint(paths...), func() ([]Rule, error) {
		var rules []Rule
		for _, s := range globals {
			incoming, err := e.loadFile(s)
			if err != nil {
				return nil, err
			}
			rules = Merge(rules, incoming)
		}
		return rules, nil
	})
}

// globalSources lists app.tss below styles/ and the theme, each followed by
// its platform variant.
func (e *Engine) globalSources() []source {
	var dirs []string
	dirs = append(dirs, filepath.Join(e.opts.AppDir, "styles"))
	if e.opts.Theme != "" {
		dirs = append(dirs, filepath.Join(e.opts.AppDir, core.ThemeDir, e.opts.Theme, "styles"))
	}

	var sources []source
	for _, dir := range dirs {
		sources = append(sources, source{path: filepath.Join(dir, core.GlobalStyle), layer: LayerGlobal})
		if e.opts.Platform != "" {
			sources = append(sources, source{path: filepath.Join(dir, e.opts.Platform, core.GlobalStyle), layer: LayerGlobal})
		}
	}
	return sources
}

// componentSources lists the base, platform, theme and theme+platform
// stylesheets of meta.
func (e *Engine) componentSources(meta *component.Meta) []source {
	rel := filepath.Join(filepath.FromSlash(meta.SubPath), meta.ComponentName+"."+core.RoleStyle.Ext())
	stylesDir := filepath.Join(meta.BasePath, core.RoleStyle.Dir())

	sources := []source{{path: filepath.Join(stylesDir, rel), layer: LayerBase}}
	if e.opts.Platform != "" {
		sources = append(sources, source{path: filepath.Join(stylesDir, e.opts.Platform, rel), layer: LayerPlatform})
	}

	if e.opts.Theme != "" {
		themeDir := filepath.Join(e.opts.AppDir, core.ThemeDir, e.opts.Theme)
		if meta.Manifest != nil {
			themeDir = filepath.Join(themeDir, core.WidgetDir, meta.Manifest.ID)
		}
		themeStyles := filepath.Join(themeDir, core.RoleStyle.Dir())
		sources = append(sources, source{path: filepath.Join(themeStyles, rel), layer: LayerTheme})
		if e.opts.Platform != "" {
			sources = append(sources, source{path: filepath.Join(themeStyles, e.opts.Platform, rel), layer: LayerThemePlatform})
		}
	}
	return sources
}

// loadFile reads, parses and optimizes one stylesheet. A missing file
// yields no rules.
func (e *Engine) loadFile(s source) ([]Rule, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading stylesheet %s: %w", s.path, err)
	}

	output.Debug("loading stylesheet", "layer", s.layer, "file", s.path)

	doc, err := e.ParseStyle(s.path, string(data))
	if err != nil {
		return nil, err
	}
	doc, err = e.optimizer.Optimize(doc)
	if err != nil {
		return nil, fmt.Errorf("optimizing stylesheet %s: %w", s.path, err)
	}
	return RulesFromDocument(doc, s.layer), nil
}

// ParseStyle parses stylesheet content read from file. Content that is not
// already one brace-delimited block is wrapped in braces; whitespace runs
// around backslashes are protected by doubling the backslashes. Grammar
// failures are returned as *ParseError with positions relative to content.
func (e *Engine) ParseStyle(file, content string) (*tss.Object, error) {
	if strings.TrimSpace(content) == "" {
		return &tss.Object{}, nil
	}

	src := content
	wrapped := !blockPattern.MatchString(content)
	if wrapped {
		src = "{\n" + content + "\n}"
	}
	src = backslashPattern.ReplaceAllString(src, "${1}${2}${2}${3}")

	doc, err := e.grammar.Parse(src)
	if err == nil {
		return doc, nil
	}

	var syn *tss.SyntaxError
	if !errors.As(err, &syn) {
		return nil, &ParseError{File: file, Message: err.Error(), Hint: hintFor(err.Error())}
	}

	line := syn.Line
	if wrapped {
		line--
	}
	return nil, &ParseError{
		File:    file,
		Line:    line,
		Column:  syn.Column,
		Message: syn.Message,
		Hint:    hintFor(syn.Message),
		Frame:   CodeFrame(content, line, syn.Column),
	}
}
