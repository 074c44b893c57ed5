package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/alloyc/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show alloyc version information.

Displays:
  - alloyc version, commit, and build date
  - Go and CUE SDK versions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
			return nil
		},
	}
}
