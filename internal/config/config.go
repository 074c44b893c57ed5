// Package config provides configuration loading and management.
package config

import (
	"github.com/opmodel/alloyc/internal/compiler"
	"github.com/opmodel/alloyc/internal/output"
)

// Config represents the alloyc configuration for one project.
type Config struct {
	// ProjectDir is the project root. Defaults to the working directory.
	ProjectDir string `json:"projectDir,omitempty" yaml:"projectDir,omitempty"`

	// Platform is the build platform.
	Platform string `json:"platform,omitempty" yaml:"platform"`

	// Theme is layered over the app styles when set.
	Theme string `json:"theme,omitempty" yaml:"theme,omitempty"`

	// DeployType is one of development, test or production.
	DeployType string `json:"deployType,omitempty" yaml:"deployType"`

	// Target selects the post-processing stages (standalone or webpack).
	Target string `json:"target,omitempty" yaml:"target"`

	// AutoStyle adds the classes property to styled elements.
	AutoStyle bool `json:"autoStyle,omitempty" yaml:"autoStyle"`

	// SourceMap writes a .map file next to each compiled component.
	SourceMap bool `json:"sourceMap,omitempty" yaml:"sourceMap"`

	// OutputDir defaults to <ProjectDir>/Resources/alloy.
	OutputDir string `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`

	// TemplateDir overrides the embedded component template.
	TemplateDir string `json:"templateDir,omitempty" yaml:"templateDir,omitempty"`

	// Workers bounds build concurrency. Zero means one worker per component.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Verbose enables debug output.
	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`

	// Timestamps controls whether timestamps appear in log output.
	// Nil means the default (true).
	Timestamps *bool `json:"timestamps,omitempty" yaml:"timestamps,omitempty"`
}

// Default values.
const (
	DefaultPlatform   = "ios"
	DefaultDeployType = "development"
	DefaultTarget     = string(compiler.TargetStandalone)
	DefaultSourceMap  = true
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Platform:   DefaultPlatform,
		DeployType: DefaultDeployType,
		Target:     DefaultTarget,
		SourceMap:  DefaultSourceMap,
	}
}

// CompilerOptions converts the configuration into compiler options.
func (c *Config) CompilerOptions() compiler.Options {
	return compiler.Options{
		ProjectDir:  c.ProjectDir,
		OutputDir:   c.OutputDir,
		Platform:    c.Platform,
		Theme:       c.Theme,
		DeployType:  c.DeployType,
		Target:      compiler.Target(c.Target),
		AutoStyle:   c.AutoStyle,
		SourceMap:   c.SourceMap,
		TemplateDir: c.TemplateDir,
		Workers:     c.Workers,
	}
}

// LogSettings returns the logging configuration for output.SetupLogging.
func (c *Config) LogSettings() output.LogConfig {
	return output.LogConfig{
		Verbose:    c.Log.Verbose,
		Timestamps: c.Log.Timestamps,
	}
}
