package compiler

import (
	"fmt"
	"strings"
)

// Stage post-processes a compiled component.
type Stage interface {
	Name() string
	Process(*Result) error
}

// ESModuleExport turns the module's CommonJS export into an ES default
// export so controllers can be both imported and required.
type ESModuleExport struct{}

// Name implements Stage.
func (ESModuleExport) Name() string { return "esmodule-export" }

// Process rewrites the first "module.exports = ".
func (ESModuleExport) Process(r *Result) error {
	r.Code = strings.Replace(r.Code, "module.exports = ", "export default ", 1)
	return nil
}

// StagesFor returns the stages of a target.
func StagesFor(t Target) ([]Stage, error) {
	switch t {
	case TargetStandalone, "":
		return nil, nil
	case TargetWebpack:
		return []Stage{ESModuleExport{}}, nil
	default:
		return nil, fmt.Errorf("unknown target %q", t)
	}
}
