package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/alloyc/internal/config"
	oerrors "github.com/opmodel/alloyc/internal/errors"
	"github.com/opmodel/alloyc/internal/testutil"
)

const helloView = `<Alloy>
	<Window>
		<Label id="label" onClick="sayHello">Hello, World!</Label>
	</Window>
</Alloy>`

const helloController = `function sayHello() {
	alert('Hello');
}

$.index.open();`

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func helloProject(t *testing.T) *testutil.Project {
	t.Helper()
	p := testutil.NewProject(t)
	p.Write("views/index.xml", helloView)
	p.Write("styles/index.tss", `"Label": { color: "#000" }`)
	p.Write("controllers/index.js", helloController)
	return p
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	assert.Equal(t, "alloyc", root.Use)
	for _, name := range []string{"config", "project", "verbose", "timestamps", "platform", "theme",
		"deploy-type", "target", "autostyle", "sourcemap", "output-dir", "template-dir", "workers"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"compile", "style", "build", "config", "version"})
}

func TestCompileCmd(t *testing.T) {
	p := helloProject(t)
	view := p.Path("views/index.xml")

	t.Run("prints code", func(t *testing.T) {
		out, _, err := execute(t, "compile", view, "--project", p.Dir)
		require.NoError(t, err)
		assert.Contains(t, out, `$.__views["index"] = Ti.UI.createWindow(`)
		assert.Contains(t, out, "module.exports = Controller;")
	})

	t.Run("json output", func(t *testing.T) {
		out, _, err := execute(t, "compile", view, "--project", p.Dir, "-o", "json")
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "index", decoded["component"])
		assert.NotContains(t, decoded, "widget")
		assert.Contains(t, decoded["code"], "Ti.UI.createLabel(")
		require.Contains(t, decoded, "map")
		assert.Equal(t, float64(3), decoded["map"].(map[string]any)["version"])
	})

	t.Run("yaml output", func(t *testing.T) {
		out, _, err := execute(t, "compile", view, "--project", p.Dir, "--output", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "component: index")
		assert.Contains(t, out, "dependencies:")
		assert.Contains(t, out, "mappings:")
	})

	t.Run("webpack target from flag", func(t *testing.T) {
		out, _, err := execute(t, "compile", view, "--project", p.Dir, "--target", "webpack")
		require.NoError(t, err)
		assert.Contains(t, out, "export default Controller;")
	})

	t.Run("writes outputs", func(t *testing.T) {
		_, _, err := execute(t, "compile", view, "--project", p.Dir, "--write")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(p.OutputDir, "controllers", "index.js"))
		assert.FileExists(t, filepath.Join(p.OutputDir, "controllers", "index.js.map"))
		assert.FileExists(t, filepath.Join(p.OutputDir, "styles", "index.js"))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := execute(t, "compile", view, "--project", p.Dir, "-o", "xml")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrValidation))
	})

	t.Run("unknown platform", func(t *testing.T) {
		_, _, err := execute(t, "compile", view, "--project", p.Dir, "--platform", "blackberry")
		require.Error(t, err)
		assert.Equal(t, ExitValidationError, ExitCodeFromError(err))
	})

	t.Run("not a component path", func(t *testing.T) {
		_, _, err := execute(t, "compile", filepath.Join(p.Dir, "README.md"), "--project", p.Dir)
		require.Error(t, err)
		assert.Equal(t, ExitCompileError, ExitCodeFromError(err))
	})
}

func TestCompileCmd_Widget(t *testing.T) {
	p := helloProject(t)
	p.Write("widgets/com.foo.button/widget.json", `{"id": "com.foo.button"}`)
	widget := p.Write("widgets/com.foo.button/views/widget.xml", `<Alloy><Button id="button">Tap</Button></Alloy>`)

	out, _, err := execute(t, "compile", widget, "--project", p.Dir, "-o", "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "widget", decoded["component"])
	assert.Equal(t, "com.foo.button", decoded["widget"])
}

func TestCompileCmd_ConfigFile(t *testing.T) {
	p := helloProject(t)
	testutil.WriteFile(t, p.Dir, config.ConfigFileName, "target: webpack\n")

	out, _, err := execute(t, "compile", p.Path("views/index.xml"), "--project", p.Dir)
	require.NoError(t, err)
	assert.Contains(t, out, "export default Controller;")

	t.Run("flag overrides file", func(t *testing.T) {
		out, _, err := execute(t, "compile", p.Path("views/index.xml"), "--project", p.Dir, "--target", "standalone")
		require.NoError(t, err)
		assert.Contains(t, out, "module.exports = Controller;")
	})
}

func TestStyleCmd(t *testing.T) {
	p := helloProject(t)

	out, _, err := execute(t, "style", p.Path("styles/index.tss"), "--project", p.Dir)
	require.NoError(t, err)
	assert.Contains(t, out, "module.exports = [")
	assert.Contains(t, out, `"key":"Label"`)

	t.Run("parse error", func(t *testing.T) {
		p.Write("styles/broken.tss", `"#a": { color: "red", }`)

		_, _, err := execute(t, "style", p.Path("styles/broken.tss"), "--project", p.Dir)
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrStyleParse))
		assert.Equal(t, ExitCompileError, ExitCodeFromError(err))
	})
}

func TestBuildCmd(t *testing.T) {
	p := helloProject(t)
	p.Write("views/about.xml", `<Alloy><View id="about"/></Alloy>`)

	out, _, err := execute(t, "build", p.Dir, "--workers", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Built 2 of 2 components")
	assert.Contains(t, out, "app/about")
	assert.Contains(t, out, "controllers/index.js.map")
	assert.Contains(t, out, "source map")
	assert.FileExists(t, filepath.Join(p.OutputDir, "controllers", "index.js"))
	assert.FileExists(t, filepath.Join(p.OutputDir, "controllers", "about.js"))
	assert.FileExists(t, filepath.Join(p.OutputDir, "styles", "about.js"))
}

func TestBuildCmd_Failure(t *testing.T) {
	p := helloProject(t)
	p.Write("views/broken.xml", `<Alloy><View id="broken"/></Alloy>`)
	p.Write("styles/broken.tss", `"#broken": { color: "red", }`)

	out, errOut, err := execute(t, "build", p.Dir)
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitCompileError, exitErr.Code)
	assert.True(t, exitErr.Printed)

	assert.Contains(t, out, "Built 1 of 2 components")
	assert.Contains(t, errOut, "Error processing style")
	assert.FileExists(t, filepath.Join(p.OutputDir, "controllers", "index.js"))
	assert.NoFileExists(t, filepath.Join(p.OutputDir, "controllers", "broken.js"))
}

func TestBuildCmd_NoComponents(t *testing.T) {
	p := testutil.NewProject(t)

	_, _, err := execute(t, "build", p.Dir)
	assert.NoError(t, err)
	assert.NoDirExists(t, p.OutputDir)
}

func TestConfigInitCmd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)

	out, _, err := execute(t, "config", "init", "--project", dir)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "platform: ios")
	assert.Contains(t, string(data), "target: standalone")

	v, err := config.NewValidator()
	require.NoError(t, err)
	assert.NoError(t, v.ValidateFile(path))

	t.Run("refuses to overwrite", func(t *testing.T) {
		_, _, err := execute(t, "config", "init", "--project", dir)
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrValidation))
	})

	t.Run("force overwrites", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("platform: android\n"), 0o644))

		_, _, err := execute(t, "config", "init", "--project", dir, "--force")
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "platform: ios")
	})

	t.Run("custom path", func(t *testing.T) {
		custom := filepath.Join(t.TempDir(), "ci", "alloyc.yaml")

		_, _, err := execute(t, "config", "init", "--config", custom)
		require.NoError(t, err)
		assert.FileExists(t, custom)
	})
}

func TestConfigVetCmd(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteFile(t, dir, config.ConfigFileName, "platform: android\n")

		out, _, err := execute(t, "config", "vet", "--project", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "Schema valid")
		assert.Contains(t, out, "platform android")
	})

	t.Run("flag overrides file", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteFile(t, dir, config.ConfigFileName, "platform: android\n")

		out, _, err := execute(t, "config", "vet", "--project", dir, "--platform", "ios")
		require.NoError(t, err)
		assert.Contains(t, out, "platform ios")
	})

	t.Run("schema violation", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteFile(t, dir, config.ConfigFileName, "platform: blackberry\n")

		_, errOut, err := execute(t, "config", "vet", "--project", dir)
		require.Error(t, err)
		assert.Equal(t, ExitValidationError, ExitCodeFromError(err))
		assert.Contains(t, errOut, "config validation failed")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, "config", "vet", "--project", t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrNotFound))
		assert.Equal(t, ExitNotFound, ExitCodeFromError(err))
	})
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "alloyc version")
	assert.Contains(t, out, "CUE SDK")
}
