package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/alloyc/internal/errors"
	"github.com/opmodel/alloyc/internal/testutil"
)

func TestDirScanner_FindWidgets(t *testing.T) {
	t.Run("no widgets directory", func(t *testing.T) {
		p := testutil.NewProject(t)
		widgets, err := DirScanner{}.FindWidgets(p.AppDir)
		require.NoError(t, err)
		assert.Empty(t, widgets)
	})

	t.Run("reads manifests", func(t *testing.T) {
		p := testutil.NewProject(t)
		p.Write("widgets/com.b/widget.json", `{"id": "com.b", "name": "B", "version": "1.0", "platforms": "ios,android"}`)
		p.Write("widgets/com.a/widget.json", `{"name": "A"}`)
		p.Write("widgets/nomanifest/views/widget.xml", "<Alloy/>")

		widgets, err := DirScanner{}.FindWidgets(p.AppDir)
		require.NoError(t, err)
		require.Len(t, widgets, 2)

		assert.Equal(t, p.Path("widgets/com.a"), widgets[0].Dir)
		assert.Equal(t, "com.a", widgets[0].Manifest.ID, "id defaults to the directory name")
		assert.Equal(t, "A", widgets[0].Manifest.Name)

		assert.Equal(t, "com.b", widgets[1].Manifest.ID)
		assert.Equal(t, "1.0", widgets[1].Manifest.Version)
		assert.Equal(t, "ios,android", widgets[1].Manifest.Platforms)
	})

	t.Run("invalid manifest", func(t *testing.T) {
		p := testutil.NewProject(t)
		p.Write("widgets/com.bad/widget.json", `[1, 2`)

		_, err := DirScanner{}.FindWidgets(p.AppDir)
		require.Error(t, err)
		assert.ErrorIs(t, err, oerrors.ErrValidation)
	})
}

func TestDirScanner_FindModels(t *testing.T) {
	p := testutil.NewProject(t)
	p.Write("models/book.js", "")
	p.Write("models/author.js", "")
	p.Write("models/README.md", "")
	p.Write("widgets/com.a/models/book.js", "")
	p.Write("widgets/com.a/models/shelf.js", "")

	names, err := DirScanner{}.FindModels(p.AppDir, p.Path("widgets/com.a"), p.Path("widgets/missing"))
	require.NoError(t, err)
	assert.Equal(t, []string{"author", "book", "shelf"}, names)
}
