package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opmodel/alloyc/internal/config"
	oerrors "github.com/opmodel/alloyc/internal/errors"
	"github.com/opmodel/alloyc/internal/output"
)

var configInitForce bool

// configHeader is written above the generated configuration.
const configHeader = `# alloyc project configuration
# Values can be overridden by ALLOYC_* environment variables and flags.

`

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Create alloyc.yaml in the project directory with default values.

The file location is resolved using precedence:
  --config flag > ALLOYC_CONFIG env > <project>/alloyc.yaml

Examples:
  # Create alloyc.yaml in the current directory
  alloyc config init

  # Overwrite an existing file
  alloyc config init --force`,
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}

	cmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"Overwrite existing configuration")

	return cmd
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	projectResult, err := config.ResolveProjectDir(projectFlag)
	if err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}
	pathResult, err := config.ResolveConfigPath(configFlag, projectResult.Path)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	path := pathResult.Path

	exists, err := config.ConfigFileExists(path)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if exists && !configInitForce {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: path,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		}
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append([]byte(configHeader), data...)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	output.Debug("config file written", "path", path, "source", pathResult.Source)
	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark("Configuration written to "+path))
	fmt.Fprintln(cmd.OutOrStdout(), "Validate with: alloyc config vet")
	return nil
}
