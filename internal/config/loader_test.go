package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return dir, path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from file", func(t *testing.T) {
		dir, path := writeConfig(t, `
platform: android
theme: dark
deployType: production
autoStyle: true
sourceMap: false
workers: 3
log:
  timestamps: false
`)

		loader := NewLoader()
		cfg, err := loader.Load(path, dir)

		require.NoError(t, err)
		assert.Equal(t, dir, cfg.ProjectDir)
		assert.Equal(t, "android", cfg.Platform)
		assert.Equal(t, "dark", cfg.Theme)
		assert.Equal(t, "production", cfg.DeployType)
		assert.Equal(t, "standalone", cfg.Target)
		assert.True(t, cfg.AutoStyle)
		assert.False(t, cfg.SourceMap)
		assert.Equal(t, 3, cfg.Workers)
		require.NotNil(t, cfg.Log.Timestamps)
		assert.False(t, *cfg.Log.Timestamps)
		assert.Equal(t, path, loader.ConfigFileUsed())
	})

	t.Run("returns defaults for missing file", func(t *testing.T) {
		dir := t.TempDir()

		loader := NewLoader()
		cfg, err := loader.Load(filepath.Join(dir, "nonexistent.yaml"), dir)

		require.NoError(t, err)
		assert.Equal(t, "ios", cfg.Platform)
		assert.Equal(t, "development", cfg.DeployType)
		assert.True(t, cfg.SourceMap)
		assert.Empty(t, cfg.Theme)
		assert.Empty(t, loader.ConfigFileUsed())
	})

	t.Run("env vars override file values", func(t *testing.T) {
		t.Setenv("ALLOYC_PLATFORM", "android")
		t.Setenv("ALLOYC_AUTO_STYLE", "true")

		dir, path := writeConfig(t, "platform: ios\n")

		cfg, err := NewLoader().Load(path, dir)

		require.NoError(t, err)
		assert.Equal(t, "android", cfg.Platform)
		assert.True(t, cfg.AutoStyle)
	})

	t.Run("flags override env vars", func(t *testing.T) {
		t.Setenv("ALLOYC_PLATFORM", "ios")

		dir, path := writeConfig(t, "platform: ios\n")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("platform", "", "")
		require.NoError(t, flags.Parse([]string{"--platform=android"}))

		loader := NewLoader()
		require.NoError(t, loader.BindFlags(flags))
		cfg, err := loader.Load(path, dir)

		require.NoError(t, err)
		assert.Equal(t, "android", cfg.Platform)
	})

	t.Run("unset flags do not override file", func(t *testing.T) {
		dir, path := writeConfig(t, "platform: android\ntheme: dark\n")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("platform", "", "")
		flags.String("theme", "", "")
		require.NoError(t, flags.Parse(nil))

		loader := NewLoader()
		require.NoError(t, loader.BindFlags(flags))
		cfg, err := loader.Load(path, dir)

		require.NoError(t, err)
		assert.Equal(t, "android", cfg.Platform)
		assert.Equal(t, "dark", cfg.Theme)
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		dir, path := writeConfig(t, "platform: [ios\n")

		_, err := NewLoader().Load(path, dir)
		assert.Error(t, err)
	})

	t.Run("project dir from file is absolute", func(t *testing.T) {
		dir, path := writeConfig(t, "projectDir: "+filepath.Join(t.TempDir(), "app")+"\n")

		cfg, err := NewLoader().Load(path, dir)

		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(cfg.ProjectDir))
		assert.NotEqual(t, dir, cfg.ProjectDir)
	})
}

func TestLoaderResolved(t *testing.T) {
	t.Setenv("ALLOYC_PLATFORM", "ios")

	dir, path := writeConfig(t, "platform: ios\ntheme: dark\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("platform", "", "")
	require.NoError(t, flags.Parse([]string{"--platform", "android"}))

	loader := NewLoader()
	require.NoError(t, loader.BindFlags(flags))
	_, err := loader.Load(path, dir)
	require.NoError(t, err)

	byKey := make(map[string]ResolvedValue)
	for _, rv := range loader.Resolved() {
		byKey[rv.Key] = rv
	}

	platform := byKey["platform"]
	assert.Equal(t, "android", platform.Value)
	assert.Equal(t, SourceFlag, platform.Source)
	assert.Equal(t, "ios", platform.Shadowed[SourceEnv])
	assert.Equal(t, "ios", platform.Shadowed[SourceConfig])

	assert.Equal(t, SourceConfig, byKey["theme"].Source)
	assert.Equal(t, SourceDefault, byKey["deployType"].Source)

	assert.NotPanics(t, func() { LogResolvedValues(loader.Resolved()) })
}

func TestConfigFileExists(t *testing.T) {
	dir, path := writeConfig(t, "platform: ios\n")

	exists, err := ConfigFileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = ConfigFileExists(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, exists)
}
