package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/alloyc/internal/config"
	"github.com/opmodel/alloyc/internal/output"
	"github.com/opmodel/alloyc/internal/version"
)

var (
	// Global flags
	configFlag     string
	projectFlag    string
	verboseFlag    bool
	timestampsFlag bool
)

// NewRootCmd creates the root command for the alloyc CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "alloyc",
		Short: "Alloy component compiler",
		Long: `alloyc compiles Alloy components (views, styles and controllers) into
Titanium CommonJS modules.

Configuration is read from <project>/alloyc.yaml and can be overridden by
ALLOYC_* environment variables and command-line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "Path to config file (env: ALLOYC_CONFIG)")
	flags.StringVarP(&projectFlag, "project", "p", "", "Project directory (env: ALLOYC_PROJECT_DIR)")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")
	flags.String("platform", "", "Build platform: "+platformList()+" (env: ALLOYC_PLATFORM)")
	flags.String("theme", "", "Theme to apply (env: ALLOYC_THEME)")
	flags.String("deploy-type", "", "Deploy type: development, test, production (env: ALLOYC_DEPLOY_TYPE)")
	flags.String("target", "", "Output target: standalone, webpack (env: ALLOYC_TARGET)")
	flags.Bool("autostyle", false, "Enable autoStyle (env: ALLOYC_AUTO_STYLE)")
	flags.Bool("sourcemap", true, "Write source maps (env: ALLOYC_SOURCE_MAP)")
	flags.String("output-dir", "", "Output directory (env: ALLOYC_OUTPUT_DIR)")
	flags.String("template-dir", "", "Directory containing component.js.tmpl (env: ALLOYC_TEMPLATE_DIR)")
	flags.Int("workers", 0, "Concurrent component builds, 0 for one per component (env: ALLOYC_WORKERS)")

	rootCmd.AddCommand(NewCompileCmd())
	rootCmd.AddCommand(NewStyleCmd())
	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging from the global flags. Configuration is
// loaded by the commands that need it.
func initializeGlobals(cmd *cobra.Command) error {
	logCfg := output.LogConfig{
		Verbose: verboseFlag,
	}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	}
	output.SetupLogging(logCfg)

	info := version.Get()
	output.Debug("alloyc started",
		"version", info.Version,
		"cue_sdk", info.CUESDKVersion,
	)
	return nil
}

// loadedConfig is a resolved configuration and where it came from.
type loadedConfig struct {
	*config.Config

	// Path is the config file path that was consulted.
	Path string

	// Found reports whether Path existed and was read.
	Found bool
}

// loadConfig resolves the project directory and config file, then loads the
// configuration with flag > env > file > default precedence. project, when
// set, takes the place of the --project flag.
func loadConfig(cmd *cobra.Command, project string) (*loadedConfig, error) {
	if project == "" {
		project = projectFlag
	}

	projectResult, err := config.ResolveProjectDir(project)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	pathResult, err := config.ResolveConfigPath(configFlag, projectResult.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	loader := config.NewLoader()
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	cfg, err := loader.Load(pathResult.Path, projectResult.Path)
	if err != nil {
		return nil, err
	}
	if project != "" {
		cfg.ProjectDir = projectResult.Path
	}

	// The config file may enable verbose logging or turn timestamps off.
	logCfg := cfg.LogSettings()
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	}
	output.SetupLogging(logCfg)

	output.Debug("config path resolved",
		"path", pathResult.Path,
		"source", pathResult.Source,
	)
	config.LogResolvedValues(loader.Resolved())

	return &loadedConfig{
		Config: cfg,
		Path:   pathResult.Path,
		Found:  loader.ConfigFileUsed() != "",
	}, nil
}
