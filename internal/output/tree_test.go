package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOutputTree(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", RenderOutputTree("alloy", nil))
		assert.Equal(t, "", RenderOutputTree("alloy", []ComponentOutputs{{Component: "app/index"}}))
	})

	t.Run("one branch per component", func(t *testing.T) {
		out := stripAnsi(RenderOutputTree("Resources/alloy", []ComponentOutputs{
			{
				Component: "app/settings/detail",
				Files: []OutputFile{
					{Path: "controllers/settings/detail.js", Role: RoleController, Size: 2048},
				},
			},
			{
				Component: "app/index",
				Files: []OutputFile{
					{Path: "controllers/index.js.map", Role: RoleSourceMap, Size: 300},
					{Path: "controllers/index.js", Role: RoleController, Size: 1536},
					{Path: "styles/index.js", Role: RoleStyle, Size: 40},
				},
			},
		}))

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 7)
		assert.Equal(t, "Resources/alloy/", lines[0])
		assert.Contains(t, lines[1], "app/index")
		assert.Contains(t, lines[2], "controllers/index.js.map")
		assert.Contains(t, lines[2], "source map")
		assert.Contains(t, lines[3], "1.5 KiB")
		assert.Contains(t, lines[4], "styles/index.js")
		assert.Contains(t, lines[4], "40 B")
		assert.Contains(t, lines[5], "app/settings/detail")
		assert.Contains(t, lines[6], "2.0 KiB")

		t.Run("roles align", func(t *testing.T) {
			col := strings.Index(lines[2], RoleSourceMap)
			assert.Equal(t, col, strings.Index(lines[3], RoleController))
			assert.Equal(t, col, strings.Index(lines[4], RoleStyle))
		})
	})
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.n))
	}
}
