package compiler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/opmodel/alloyc/internal/component"
	"github.com/opmodel/alloyc/internal/core"
	oerrors "github.com/opmodel/alloyc/internal/errors"
	"github.com/opmodel/alloyc/internal/view"
)

// Target selects the post-processing stages applied to compiled components.
type Target string

const (
	// TargetStandalone emits CommonJS modules as assembled.
	TargetStandalone Target = "standalone"

	// TargetWebpack emits ES module default exports.
	TargetWebpack Target = "webpack"
)

// Options configures a Compiler.
type Options struct {
	// ProjectDir is the project root; source map paths are relative to it.
	ProjectDir string `validate:"required"`

	// AppDir defaults to <ProjectDir>/app.
	AppDir string

	// OutputDir defaults to <ProjectDir>/Resources/alloy.
	OutputDir string

	// Platform is the build platform.
	Platform string `validate:"required,platform"`

	// Theme is applied on top of the app styles when set.
	Theme string

	// DeployType is exposed to templates; informational only.
	DeployType string `validate:"omitempty,oneof=development test production"`

	// Target defaults to TargetStandalone.
	Target Target `validate:"omitempty,oneof=standalone webpack"`

	// AutoStyle enables the classes property on styled elements.
	AutoStyle bool

	// SourceMap makes Write emit a .map file next to each component.
	SourceMap bool

	// TemplateDir overrides the embedded component template with
	// <TemplateDir>/component.js.tmpl.
	TemplateDir string

	// Workers bounds BuildAll concurrency; 0 means one per job.
	Workers int `validate:"gte=0"`
}

// Option customizes a Compiler beyond its Options.
type Option func(*Compiler)

// WithStages appends stages after the target's stages.
func WithStages(stages ...Stage) Option {
	return func(c *Compiler) {
		c.stages = append(c.stages, stages...)
	}
}

// WithScanner replaces the filesystem widget and model scanner.
func WithScanner(s component.Scanner) Option {
	return func(c *Compiler) {
		c.scanner = s
	}
}

// WithMarkupLoader replaces the view loader.
func WithMarkupLoader(l view.MarkupLoader) Option {
	return func(c *Compiler) {
		c.loader = l
	}
}

func (o *Options) applyDefaults() {
	if o.AppDir == "" && o.ProjectDir != "" {
		o.AppDir = filepath.Join(o.ProjectDir, "app")
	}
	if o.OutputDir == "" && o.ProjectDir != "" {
		o.OutputDir = filepath.Join(o.ProjectDir, "Resources", "alloy")
	}
	if o.Target == "" {
		o.Target = TargetStandalone
	}
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
			for _, p := range core.PlatformNames() {
				if p == fl.Field().String() {
					return true
				}
			}
			return false
		})
		validateInst = v
	})
	return validateInst
}

// Validate checks the options' field constraints.
func (o Options) Validate() error {
	err := validatorInstance().Struct(o)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return oerrors.NewValidationError(
		"invalid compiler options: "+strings.Join(msgs, "; "),
		"",
		fmt.Sprintf("Valid platforms: %s", strings.Join(core.PlatformNames(), ", ")),
	)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "platform":
		return fmt.Sprintf("unknown platform %q", fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}
