package config

import (
	"os"
	"path/filepath"

	"github.com/opmodel/alloyc/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// Environment variables consulted before the config file is located.
const (
	EnvConfig     = envPrefix + "_CONFIG"
	EnvProjectDir = envPrefix + "_PROJECT_DIR"
)

// ResolvedValue is a configuration value together with its source.
type ResolvedValue struct {
	Key    string
	Value  any
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]any
}

// ResolvePathResult contains a resolved path and its source.
type ResolvePathResult struct {
	Path   string
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveProjectDir resolves the project directory using precedence:
// (1) --project flag, (2) ALLOYC_PROJECT_DIR env, (3) the working directory.
// The returned path is absolute.
func ResolveProjectDir(flagValue string) (ResolvePathResult, error) {
	wd, err := os.Getwd()
	if err != nil {
		return ResolvePathResult{}, err
	}

	result := resolvePath(flagValue, os.Getenv(EnvProjectDir), wd)
	expanded, err := ExpandPath(result.Path)
	if err != nil {
		return result, err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return result, err
	}
	result.Path = abs
	return result, nil
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) ALLOYC_CONFIG env, (3) <projectDir>/alloyc.yaml.
func ResolveConfigPath(flagValue, projectDir string) (ResolvePathResult, error) {
	result := resolvePath(flagValue, os.Getenv(EnvConfig), DefaultConfigPath(projectDir))
	expanded, err := ExpandPath(result.Path)
	if err != nil {
		return result, err
	}
	result.Path = expanded
	return result, nil
}

func resolvePath(flagValue, envValue, defaultValue string) ResolvePathResult {
	result := ResolvePathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	switch {
	case flagValue != "":
		result.Path = flagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultValue
	case envValue != "":
		result.Path = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultValue
	default:
		result.Path = defaultValue
		result.Source = SourceDefault
	}

	return result
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
