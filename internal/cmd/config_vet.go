package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/alloyc/internal/config"
	oerrors "github.com/opmodel/alloyc/internal/errors"
	"github.com/opmodel/alloyc/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the alloyc.yaml configuration file.

Checks performed:
  1. Config file exists at the resolved path
  2. Config file is valid YAML and matches the configuration schema
  3. The resolved compile options (file, env and flags merged) are valid

The config path is resolved using precedence:
  --config flag > ALLOYC_CONFIG env > <project>/alloyc.yaml

Examples:
  # Validate the project configuration
  alloyc config vet

  # Validate a custom config path
  alloyc config vet --config ./ci/alloyc.yaml`,
		Args: cobra.NoArgs,
		RunE: runConfigVet,
	}
}

func runConfigVet(cmd *cobra.Command, _ []string) error {
	projectResult, err := config.ResolveProjectDir(projectFlag)
	if err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}
	pathResult, err := config.ResolveConfigPath(configFlag, projectResult.Path)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	path := pathResult.Path

	output.Debug("validating config", "path", path, "source", pathResult.Source)

	// Check 1: Config file exists
	exists, err := config.ConfigFileExists(path)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if !exists {
		return oerrors.NewNotFoundError(
			"configuration file not found",
			path,
			"Run 'alloyc config init' to create a default configuration.",
		)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, output.FormatVetCheck("Config file found", path))

	// Check 2: Schema
	validator, err := config.NewValidator()
	if err != nil {
		return fmt.Errorf("creating validator: %w", err)
	}
	if err := validator.ValidateFile(path); err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			errOut := cmd.ErrOrStderr()
			fmt.Fprintln(errOut, "Error: config validation failed")
			fmt.Fprintf(errOut, "  File: %s\n\n", path)
			for _, e := range verrs {
				fmt.Fprintf(errOut, "  %s: %s\n", e.Field, e.Message)
			}
			exitErr := NewExitError(err, ExitValidationError)
			exitErr.Printed = true
			return exitErr
		}
		return fmt.Errorf("validating config: %w", err)
	}
	fmt.Fprintln(out, output.FormatVetCheck("Schema valid", ""))

	// Check 3: Resolved options
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	if err := cfg.CompilerOptions().Validate(); err != nil {
		return err
	}
	fmt.Fprintln(out, output.FormatVetCheck("Compile options valid", "platform "+cfg.Platform))

	return nil
}
