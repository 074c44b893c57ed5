package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/alloyc/internal/compiler"
	oerrors "github.com/opmodel/alloyc/internal/errors"
	"github.com/opmodel/alloyc/internal/output"
)

var styleFormatFlag string

// NewStyleCmd creates the style command.
func NewStyleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "style <file>",
		Short: "Compile a component's runtime style module",
		Long: `Compile the runtime style module of one component.

The module lists every rule of the component's style cascade (global,
theme and platform stylesheets included) in application order.

Examples:
  # Print the runtime styles of the index component
  alloyc style app/styles/index.tss

  # Same, for a themed Android build
  alloyc style app/views/index.xml --platform android --theme dark`,
		Args: cobra.ExactArgs(1),
		RunE: runStyle,
	}

	cmd.Flags().StringVarP(&styleFormatFlag, "output", "o", "code",
		"Output format: "+strings.Join(output.ValidFormats(), ", "))

	return cmd
}

func runStyle(cmd *cobra.Command, args []string) error {
	format, ok := output.ParseOutputFormat(styleFormatFlag)
	if !ok {
		return oerrors.NewValidationError(
			fmt.Sprintf("unknown output format %q", styleFormatFlag),
			"",
			"Valid formats: "+strings.Join(output.ValidFormats(), ", "),
		)
	}

	c, err := newCompiler(cmd)
	if err != nil {
		return err
	}

	file, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	res, err := c.CompileStyle(compiler.CompileOptions{File: file})
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), format, compileOutput{
		File:         file,
		Component:    res.Meta.ComponentIdentifier,
		Widget:       widgetID(res.Meta),
		Code:         res.Code,
		Dependencies: nonNil(res.Dependencies),
	})
}
