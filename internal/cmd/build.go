package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/opmodel/alloyc/internal/compiler"
	"github.com/opmodel/alloyc/internal/output"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [project]",
		Short: "Compile every component of a project",
		Long: `Compile every component of the app and its widgets.

Components are discovered from the views and controllers folders, compiled
concurrently and written below the output directory (Resources/alloy by
default). A component that fails to compile writes nothing; the others are
still built.

Examples:
  # Build the project in the current directory
  alloyc build

  # Build another project for Android with four workers
  alloyc build ./myapp --platform android --workers 4`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuild,
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	var project string
	if len(args) == 1 {
		project = args[0]
	}

	cfg, err := loadConfig(cmd, project)
	if err != nil {
		return err
	}

	c, err := compiler.New(cfg.CompilerOptions())
	if err != nil {
		return err
	}
	opts := c.Options()

	files, err := c.Discover()
	if err != nil {
		return fmt.Errorf("discovering components: %w", err)
	}
	if len(files) == 0 {
		output.Warn("no components found", "app", opts.AppDir)
		return nil
	}

	start := time.Now()
	var results []compiler.BuildResult
	err = output.RunWithSpinner(cmd.Context(), func(ctx context.Context) error {
		results = c.BuildAll(ctx, files)
		return nil
	}, output.WithTitle(fmt.Sprintf("Compiling %d components", len(files))))
	if err != nil {
		return err
	}

	rows := make([]output.BuildRow, 0, len(results))
	var failed int
	for _, r := range results {
		row := output.BuildRow{
			Component: relSlash(opts.AppDir, r.File),
			Output:    "-",
			Status:    output.StatusCompiled,
			Duration:  r.Duration.Round(time.Millisecond).String(),
		}
		if r.Err != nil {
			failed++
			row.Status = output.StatusFailed
		} else if r.Component != nil {
			row.Output = relSlash(opts.OutputDir, r.Component.Meta.Files.Component)
		}
		rows = append(rows, row)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, output.RenderBuildTable(rows))

	for _, r := range results {
		if r.Err != nil {
			PrintError(cmd.ErrOrStderr(), r.Err)
		}
	}

	if tree := output.RenderOutputTree(relSlash(opts.ProjectDir, opts.OutputDir), c.Outputs(results)); tree != "" {
		fmt.Fprint(out, tree)
	}

	built := len(results) - failed
	summary := fmt.Sprintf("Built %d of %d components in %s",
		built, len(results), time.Since(start).Round(time.Millisecond))

	if failed > 0 {
		exitErr := NewExitError(fmt.Errorf("%d of %d components failed to compile", failed, len(results)), ExitCompileError)
		exitErr.Printed = true
		fmt.Fprintln(out, output.StyleSummary.Render(summary))
		return exitErr
	}

	fmt.Fprintln(out, output.FormatCheckmark(summary))
	return nil
}

// relSlash returns p relative to base in slash form, or p when it is not
// below base.
func relSlash(base, p string) string {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}
