package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Environment variable prefix for alloyc configuration.
const envPrefix = "ALLOYC"

// binding ties a config key to its environment variable and CLI flag.
type binding struct {
	key  string
	env  string
	flag string
}

var bindings = []binding{
	{key: "projectDir", env: "ALLOYC_PROJECT_DIR", flag: "project"},
	{key: "platform", env: "ALLOYC_PLATFORM", flag: "platform"},
	{key: "theme", env: "ALLOYC_THEME", flag: "theme"},
	{key: "deployType", env: "ALLOYC_DEPLOY_TYPE", flag: "deploy-type"},
	{key: "target", env: "ALLOYC_TARGET", flag: "target"},
	{key: "autoStyle", env: "ALLOYC_AUTO_STYLE", flag: "autostyle"},
	{key: "sourceMap", env: "ALLOYC_SOURCE_MAP", flag: "sourcemap"},
	{key: "outputDir", env: "ALLOYC_OUTPUT_DIR", flag: "output-dir"},
	{key: "templateDir", env: "ALLOYC_TEMPLATE_DIR", flag: "template-dir"},
	{key: "workers", env: "ALLOYC_WORKERS", flag: "workers"},
	{key: "log.verbose", env: "ALLOYC_LOG_VERBOSE", flag: "verbose"},
	{key: "log.timestamps", env: "ALLOYC_LOG_TIMESTAMPS", flag: "timestamps"},
}

// Loader handles loading and merging configuration from multiple sources.
// Precedence is flag > env > config file > default.
type Loader struct {
	v     *viper.Viper
	file  *viper.Viper
	flags map[string]*pflag.Flag
	used  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, b := range bindings {
		_ = v.BindEnv(b.key, b.env)
	}

	defaults := DefaultConfig()
	v.SetDefault("platform", defaults.Platform)
	v.SetDefault("deployType", defaults.DeployType)
	v.SetDefault("target", defaults.Target)
	v.SetDefault("sourceMap", defaults.SourceMap)
	v.SetDefault("autoStyle", defaults.AutoStyle)

	return &Loader{
		v:     v,
		file:  viper.New(),
		flags: make(map[string]*pflag.Flag),
	}
}

// BindFlags binds the command-line flags that exist in flags to their
// config keys. Only flags explicitly set by the user take precedence.
func (l *Loader) BindFlags(flags *pflag.FlagSet) error {
	for _, b := range bindings {
		f := flags.Lookup(b.flag)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(b.key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", b.flag, err)
		}
		l.flags[b.key] = f
	}
	return nil
}

// Load loads configuration from the given file path. A missing file is not
// an error. projectDir is used when no source sets the project directory.
func (l *Loader) Load(configFile, projectDir string) (*Config, error) {
	l.v.SetDefault("projectDir", projectDir)

	if configFile != "" {
		expandedPath, err := ExpandPath(configFile)
		if err != nil {
			return nil, fmt.Errorf("expanding config path: %w", err)
		}

		if err := l.readFile(expandedPath); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.ProjectDir != "" {
		abs, err := filepath.Abs(cfg.ProjectDir)
		if err != nil {
			return nil, fmt.Errorf("resolving project directory: %w", err)
		}
		cfg.ProjectDir = abs
	}

	return &cfg, nil
}

func (l *Loader) readFile(path string) error {
	for _, v := range []*viper.Viper{l.v, l.file} {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	l.used = path
	return nil
}

// ConfigFileUsed returns the config file that was read, or "" when none was.
func (l *Loader) ConfigFileUsed() string {
	return l.used
}

// Resolved reports every known key with its value and the source it came
// from, for verbose logging.
func (l *Loader) Resolved() []ResolvedValue {
	values := make([]ResolvedValue, 0, len(bindings))
	for _, b := range bindings {
		rv := ResolvedValue{
			Key:      b.key,
			Value:    l.v.Get(b.key),
			Source:   SourceDefault,
			Shadowed: make(map[ConfigSource]any),
		}

		envValue, envSet := os.LookupEnv(b.env)
		envSet = envSet && envValue != ""
		inFile := l.file.IsSet(b.key)

		switch {
		case l.flags[b.key] != nil && l.flags[b.key].Changed:
			rv.Source = SourceFlag
			if envSet {
				rv.Shadowed[SourceEnv] = envValue
			}
			if inFile {
				rv.Shadowed[SourceConfig] = l.file.Get(b.key)
			}
		case envSet:
			rv.Source = SourceEnv
			if inFile {
				rv.Shadowed[SourceConfig] = l.file.Get(b.key)
			}
		case inFile:
			rv.Source = SourceConfig
		}

		values = append(values, rv)
	}
	return values
}
