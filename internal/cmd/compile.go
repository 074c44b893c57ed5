package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/opmodel/alloyc/internal/compiler"
	"github.com/opmodel/alloyc/internal/component"
	"github.com/opmodel/alloyc/internal/core"
	oerrors "github.com/opmodel/alloyc/internal/errors"
	"github.com/opmodel/alloyc/internal/output"
	"github.com/opmodel/alloyc/internal/sourcemap"
)

var (
	compileFormatFlag string
	compileWriteFlag  bool
)

// NewCompileCmd creates the compile command.
func NewCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a single component",
		Long: `Compile one component into its controller module.

The file may be the component's view, style or controller; the other two
are located by convention.

Output formats:
  code   the generated JavaScript (default)
  json   code, source map and dependencies as JSON
  yaml   code, source map and dependencies as YAML

Examples:
  # Print the compiled index controller
  alloyc compile app/views/index.xml

  # Compile for Android and write the output files
  alloyc compile app/views/index.xml --platform android --write`,
		Args: cobra.ExactArgs(1),
		RunE: runCompile,
	}

	cmd.Flags().StringVarP(&compileFormatFlag, "output", "o", "code",
		"Output format: "+strings.Join(output.ValidFormats(), ", "))
	cmd.Flags().BoolVarP(&compileWriteFlag, "write", "w", false,
		"Write the controller, style module and source map below the output directory")

	return cmd
}

// compileOutput is the json and yaml rendering of a compiled component.
type compileOutput struct {
	File         string         `json:"file"`
	Component    string         `json:"component"`
	Widget       string         `json:"widget,omitempty"`
	Code         string         `json:"code"`
	Map          *sourcemap.Map `json:"map,omitempty"`
	Dependencies []string       `json:"dependencies"`
	Written      []string       `json:"written,omitempty"`
}

func runCompile(cmd *cobra.Command, args []string) error {
	format, ok := output.ParseOutputFormat(compileFormatFlag)
	if !ok {
		return oerrors.NewValidationError(
			fmt.Sprintf("unknown output format %q", compileFormatFlag),
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

	res, err := c.CompileComponent(compiler.CompileOptions{File: file})
	if err != nil {
		return err
	}

	var written []string
	if compileWriteFlag {
		st, err := c.CompileStyle(compiler.CompileOptions{File: file})
		if err != nil {
			return err
		}
		written, err = c.Write(res, st)
		if err != nil {
			return fmt.Errorf("writing %s: %w", res.Meta.CacheIdentifier, err)
		}
		for _, p := range written {
			output.Info("wrote", "file", p)
		}
	}

	return writeResult(cmd.OutOrStdout(), format, compileOutput{
		File:         file,
		Component:    res.Meta.ComponentIdentifier,
		Widget:       widgetID(res.Meta),
		Code:         res.Code,
		Map:          res.Map,
		Dependencies: nonNil(res.Dependencies),
		Written:      written,
	})
}

// newCompiler loads the configuration and creates a compiler from it.
func newCompiler(cmd *cobra.Command) (*compiler.Compiler, error) {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return nil, err
	}
	return compiler.New(cfg.CompilerOptions())
}

// writeResult renders out in the given format.
func writeResult(w io.Writer, format output.OutputFormat, out compileOutput) error {
	switch format {
	case output.FormatJSON:
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case output.FormatYAML:
		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("marshaling yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		code := out.Code
		if !strings.HasSuffix(code, "\n") {
			code += "\n"
		}
		_, err := io.WriteString(w, code)
		return err
	}
}

// widgetID returns the owning widget's id, "" for app components.
func widgetID(meta *component.Meta) string {
	if meta.Manifest == nil {
		return ""
	}
	return meta.Manifest.ID
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func platformList() string {
	return strings.Join(core.PlatformNames(), ", ")
}
