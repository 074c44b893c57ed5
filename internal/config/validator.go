package config

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	oerrors "github.com/opmodel/alloyc/internal/errors"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Is matches ErrValidation.
func (e ValidationErrors) Is(target error) bool {
	return target == oerrors.ErrValidation
}

// Validator validates configuration against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new configuration validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	root := ctx.CompileBytes(configSchemaCUE, cue.Filename("config.cue"))
	if root.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", root.Err())
	}

	schema := root.LookupPath(cue.ParsePath(schemaDefinition))
	if !schema.Exists() {
		return nil, fmt.Errorf("schema definition %s not found", schemaDefinition)
	}

	return &Validator{
		ctx:    ctx,
		schema: schema,
	}, nil
}

// Validate validates the given configuration.
func (v *Validator) Validate(cfg *Config) error {
	return v.validate(v.ctx.Encode(cfg))
}

// ValidateFile validates a YAML configuration file at the given path.
// Unknown keys are rejected.
func (v *Validator) ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	return v.ValidateBytes(data)
}

// ValidateBytes validates YAML configuration content.
func (v *Validator) ValidateBytes(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ValidationErrors{{Field: "(file)", Message: "invalid YAML: " + err.Error()}}
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if _, ok := doc.(map[string]any); !ok {
		return ValidationErrors{{Field: "(file)", Message: "must be a mapping"}}
	}

	return v.validate(v.ctx.Encode(doc))
}

func (v *Validator) validate(value cue.Value) error {
	if value.Err() != nil {
		return fmt.Errorf("encoding config: %w", value.Err())
	}

	unified := v.schema.Unify(value)
	err := unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs ValidationErrors
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		errs = append(errs, ValidationError{
			Field:   fieldPath(e.Path()),
			Message: fmt.Sprintf(format, args...),
		})
	}
	if len(errs) == 0 {
		errs = append(errs, ValidationError{Field: "(file)", Message: err.Error()})
	}
	return errs
}

func fieldPath(path []string) string {
	if len(path) > 0 && path[0] == schemaDefinition {
		path = path[1:]
	}
	if len(path) == 0 {
		return "(file)"
	}
	return strings.Join(path, ".")
}
