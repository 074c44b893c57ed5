package component

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/alloyc/internal/errors"
	"github.com/opmodel/alloyc/internal/testutil"
)

func newResolver(p *testutil.Project, platform string, widgets ...*Widget) *Resolver {
	return NewResolver(ResolverOptions{
		AppDir:    p.AppDir,
		Platform:  platform,
		OutputDir: p.OutputDir,
	}, widgets)
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"controller", "/p/app/controllers/index.js", "index"},
		{"view", "/p/app/views/index.xml", "index"},
		{"style", "/p/app/styles/index.tss", "index"},
		{"nested", "/p/app/views/settings/detail.xml", "settings/detail"},
		{"platform folder stripped", "/p/app/views/ios/index.xml", "index"},
		{"titanium platform folder stripped", "/p/app/controllers/iphone/settings/detail.js", "settings/detail"},
		{"widget", "/p/app/widgets/com.foo/views/widget.xml", "widget"},
		{"windows separators", `C:\p\app\views\settings\detail.xml`, "settings/detail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Identifier(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("non component path", func(t *testing.T) {
		_, err := Identifier("/p/app/lib/util.js")
		require.Error(t, err)

		var resErr *ResolutionError
		require.True(t, errors.As(err, &resErr))
		assert.Equal(t, "/p/app/lib/util.js", resErr.Path)
		assert.ErrorIs(t, err, oerrors.ErrResolution)
	})
}

func TestResolveMeta(t *testing.T) {
	t.Run("same path yields identical meta", func(t *testing.T) {
		p := testutil.NewProject(t)
		view := p.Write("views/index.xml", "<Alloy/>")
		r := newResolver(p, "ios")

		m1, err := r.ResolveMeta(view)
		require.NoError(t, err)
		m2, err := r.ResolveMeta(view)
		require.NoError(t, err)

		assert.Same(t, m1, m2)
		assert.Equal(t, "index", m1.ComponentIdentifier)
		assert.Equal(t, "app/index", m1.CacheIdentifier)
		assert.Equal(t, "", m1.SubPath)
		assert.Equal(t, "index", m1.ComponentName)
		assert.Equal(t, p.AppDir, m1.BasePath)
		assert.Nil(t, m1.Manifest)
		assert.True(t, m1.IsEntry())
	})

	t.Run("controller and view resolve to the same component", func(t *testing.T) {
		p := testutil.NewProject(t)
		r := newResolver(p, "ios")

		m1, err := r.ResolveMeta(p.Path("views/index.xml"))
		require.NoError(t, err)
		m2, err := r.ResolveMeta(p.Path("controllers/index.js"))
		require.NoError(t, err)
		assert.Same(t, m1, m2)
	})

	t.Run("platform file resolves to base component", func(t *testing.T) {
		p := testutil.NewProject(t)
		r := newResolver(p, "ios")

		m, err := r.ResolveMeta(p.Path("views/ios/settings/detail.xml"))
		require.NoError(t, err)
		assert.Equal(t, "settings/detail", m.ComponentIdentifier)
		assert.Equal(t, "settings", m.SubPath)
		assert.Equal(t, "detail", m.ComponentName)
		assert.Equal(t, "settings/detail", m.ControllerPath())
		assert.False(t, m.IsEntry())
	})

	t.Run("new candidate file invalidates cached meta", func(t *testing.T) {
		p := testutil.NewProject(t)
		p.Write("views/index.xml", "<Alloy/>")
		r := newResolver(p, "ios")

		m1, err := r.ResolveMeta(p.Path("views/index.xml"))
		require.NoError(t, err)
		assert.Equal(t, p.Path("views/index.xml"), m1.Files.View)

		p.Write("views/ios/index.xml", "<Alloy/>")
		m2, err := r.ResolveMeta(p.Path("views/index.xml"))
		require.NoError(t, err)
		assert.NotSame(t, m1, m2)
		assert.Equal(t, p.Path("views/ios/index.xml"), m2.Files.View)
	})

	t.Run("widget component", func(t *testing.T) {
		p := testutil.NewProject(t)
		w := &Widget{Dir: p.Path("widgets/com.foo"), Manifest: Manifest{ID: "com.foo"}}
		other := &Widget{Dir: p.Path("widgets/com.foo.bar"), Manifest: Manifest{ID: "com.foo.bar"}}
		r := newResolver(p, "android", w, other)

		m, err := r.ResolveMeta(p.Path("widgets/com.foo.bar/controllers/widget.js"))
		require.NoError(t, err)
		require.NotNil(t, m.Manifest)
		assert.Equal(t, "com.foo.bar", m.Manifest.ID)
		assert.Equal(t, "com.foo.bar/widget", m.CacheIdentifier)
		assert.Equal(t, other.Dir, m.BasePath)
		assert.True(t, m.IsWidget())
		assert.Equal(t,
			filepath.Join(p.OutputDir, "widgets", "com.foo.bar", "controllers", "widget.js"),
			m.Files.Component)
	})

	t.Run("resolution error", func(t *testing.T) {
		p := testutil.NewProject(t)
		r := newResolver(p, "ios")

		m, err := r.ResolveMeta(p.Path("lib/helper.js"))
		assert.Nil(t, m)
		assert.ErrorIs(t, err, oerrors.ErrResolution)
	})
}

func TestResolveFilePaths(t *testing.T) {
	t.Run("base files only", func(t *testing.T) {
		p := testutil.NewProject(t)
		r := newResolver(p, "ios")

		m, err := r.ResolveMeta(p.Path("controllers/settings/detail.js"))
		require.NoError(t, err)

		assert.Equal(t, p.Path("views/settings/detail.xml"), m.Files.View)
		assert.Equal(t, p.Path("controllers/settings/detail.js"), m.Files.Controller)
		assert.Equal(t, []StyleFile{{Path: p.Path("styles/settings/detail.tss")}}, m.Files.Style)
		assert.Equal(t, filepath.Join(p.OutputDir, "controllers", "settings", "detail.js"), m.Files.Component)
		assert.Equal(t, filepath.Join(p.OutputDir, "styles", "settings", "detail.js"), m.Files.RuntimeStyle)
	})

	t.Run("platform overrides", func(t *testing.T) {
		p := testutil.NewProject(t)
		p.Write("views/ios/index.xml", "<Alloy/>")
		p.Write("controllers/ios/index.js", "")
		p.Write("styles/ios/index.tss", "")
		p.Write("views/android/index.xml", "<Alloy/>")
		r := newResolver(p, "ios")

		m, err := r.ResolveMeta(p.Path("views/index.xml"))
		require.NoError(t, err)

		assert.Equal(t, p.Path("views/ios/index.xml"), m.Files.View)
		assert.Equal(t, p.Path("controllers/ios/index.js"), m.Files.Controller)
		assert.Equal(t, []StyleFile{
			{Path: p.Path("styles/index.tss")},
			{Path: p.Path("styles/ios/index.tss"), Platform: true},
		}, m.Files.Style)
		assert.Equal(t, []string{p.Path("styles/index.tss"), p.Path("styles/ios/index.tss")}, m.Files.StylePaths())
	})

	t.Run("no platform configured", func(t *testing.T) {
		p := testutil.NewProject(t)
		p.Write("views/ios/index.xml", "<Alloy/>")
		r := newResolver(p, "")

		m, err := r.ResolveMeta(p.Path("views/index.xml"))
		require.NoError(t, err)
		assert.Equal(t, p.Path("views/index.xml"), m.Files.View)
	})
}
