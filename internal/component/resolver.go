package component

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/opmodel/alloyc/internal/cache"
	"github.com/opmodel/alloyc/internal/core"
)

var componentPattern = regexp.MustCompile(`(?:[/\\]widgets[/\\][^/\\]+)?[/\\](?:controllers|views|styles)[/\\](.*)`)

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// AppDir is the app directory holding views/, styles/ and controllers/.
	AppDir string

	// Platform is the build platform, e.g. "ios".
	Platform string

	// OutputDir is the directory generated modules are written below.
	OutputDir string
}

// Resolver maps source paths to component metadata. It is safe for
// concurrent use.
type Resolver struct {
	opts    ResolverOptions
	widgets []*Widget
	metas   *cache.Cache[*Meta]
}

// NewResolver creates a resolver over the given widget set. The widget set is
// fixed for the lifetime of the resolver.
func NewResolver(opts ResolverOptions, widgets []*Widget) *Resolver {
	sorted := make([]*Widget, len(widgets))
	copy(sorted, widgets)
	// Longest directory first so the first prefix hit is the longest match.
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Dir) > len(sorted[j].Dir)
	})

	return &Resolver{
		opts:    opts,
		widgets: sorted,
		metas:   cache.New[*Meta](),
	}
}

// Widgets returns the widgets known to the resolver.
func (r *Resolver) Widgets() []*Widget {
	return r.widgets
}

// ResolveMeta resolves path to its component metadata. Repeated calls for the
// same component return the same *Meta until one of the component's
// candidate files is created, removed or modified.
func (r *Resolver) ResolveMeta(p string) (*Meta, error) {
	identifier, err := Identifier(p)
	if err != nil {
		return nil, err
	}

	widget := r.findWidget(p)
	meta := &Meta{
		ComponentIdentifier: identifier,
		BasePath:            r.opts.AppDir,
		ComponentName:       path.Base(identifier),
		Widget:              widget,
	}
	if dir := path.Dir(identifier); dir != "." {
		meta.SubPath = dir
	}
	owner := "app"
	if widget != nil {
		meta.BasePath = widget.Dir
		meta.Manifest = &widget.Manifest
		owner = widget.Manifest.ID
	}
	meta.CacheIdentifier = owner + "/" + identifier

	fingerprint := cache.Fingerprint(r.candidates(meta)...)
	return r.metas.GetOrCreate(meta.CacheIdentifier, fingerprint, func() (*Meta, error) {
		meta.Files = r.ResolveFilePaths(meta)
		return meta, nil
	})
}

// Identifier extracts the component identifier from a source path: the
// slash-separated path below controllers/, views/ or styles/ with the
// extension and any leading platform folder removed.
func Identifier(p string) (string, error) {
	m := componentPattern.FindStringSubmatch(p)
	if m == nil || m[1] == "" {
		return "", &ResolutionError{Path: p}
	}

	id := strings.ReplaceAll(m[1], `\`, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if first, rest, ok := strings.Cut(id, "/"); ok && core.IsPlatformFolder(first) {
		id = rest
	}
	if id == "" {
		return "", &ResolutionError{Path: p}
	}
	return id, nil
}

// ResolveFilePaths computes the input and output paths of a component. A
// platform-specific view or controller replaces the base file; a
// platform-specific stylesheet is kept after the base. Output paths are not
// checked for existence.
func (r *Resolver) ResolveFilePaths(meta *Meta) Files {
	var files Files

	for _, role := range core.InputRoles {
		base, platform := r.rolePaths(meta, role)
		hasPlatform := platform != "" && fileExists(platform)

		switch role {
		case core.RoleView:
			files.View = pick(hasPlatform, platform, base)
		case core.RoleController:
			files.Controller = pick(hasPlatform, platform, base)
		case core.RoleStyle:
			files.Style = []StyleFile{{Path: base}}
			if hasPlatform {
				files.Style = append(files.Style, StyleFile{Path: platform, Platform: true})
			}
		}
	}

	files.Component = r.outputPath(meta, core.RoleComponent)
	files.RuntimeStyle = r.outputPath(meta, core.RoleRuntimeStyle)
	return files
}

// rolePaths returns the base and platform candidate paths for role. The
// platform path is empty when no platform is configured.
func (r *Resolver) rolePaths(meta *Meta, role core.Role) (base, platform string) {
	root := filepath.Join(meta.BasePath, role.Dir())
	rel := filepath.Join(filepath.FromSlash(meta.SubPath), meta.ComponentName+"."+role.Ext())

	base = filepath.Join(root, rel)
	if r.opts.Platform != "" {
		platform = filepath.Join(root, r.opts.Platform, rel)
	}
	return base, platform
}

// candidates lists every file whose presence or content affects Files.
func (r *Resolver) candidates(meta *Meta) []string {
	var paths []string
	for _, role := range core.InputRoles {
		base, platform := r.rolePaths(meta, role)
		paths = append(paths, base)
		if platform != "" {
			paths = append(paths, platform)
		}
	}
	return paths
}

func (r *Resolver) outputPath(meta *Meta, role core.Role) string {
	dir := r.opts.OutputDir
	if meta.Manifest != nil {
		dir = filepath.Join(dir, core.WidgetDir, meta.Manifest.ID)
	}
	return filepath.Join(dir, role.Dir(), filepath.FromSlash(meta.SubPath), meta.ComponentName+".js")
}

// findWidget returns the widget whose directory is the longest prefix of p.
func (r *Resolver) findWidget(p string) *Widget {
	for _, w := range r.widgets {
		if p == w.Dir || strings.HasPrefix(p, w.Dir+string(filepath.Separator)) || strings.HasPrefix(p, w.Dir+"/") {
			return w
		}
	}
	return nil
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
