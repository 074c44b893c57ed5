package view

import (
	"fmt"
	"strings"

	"github.com/opmodel/alloyc/internal/core"
	oerrors "github.com/opmodel/alloyc/internal/errors"
)

// AllowedRootElements are the container elements permitted at the top level
// of the app's entry view, besides data-model elements.
var AllowedRootElements = []string{
	"Ti.UI.Window",
	"Ti.UI.iOS.SplitWindow",
	"Ti.UI.TabGroup",
	"Ti.UI.iOS.NavigationWindow",
	"Ti.UI.NavigationWindow",
}

// RootContainerError indicates the entry view has a top-level element that
// cannot serve as the app's root container.
type RootContainerError struct {
	// Element is the offending element's full name.
	Element string

	// Allowed lists the permitted container names. Model elements are always
	// accepted and listed after them.
	Allowed []string
}

func (e *RootContainerError) Error() string {
	valid := append(append([]string{}, e.Allowed...), core.ModelElements...)
	return fmt.Sprintf(
		"compile failed: index.xml must have a top-level container element, found %s. Valid elements: [%s]",
		e.Element, strings.Join(valid, ","))
}

// Is matches errors.ErrRootContainer.
func (e *RootContainerError) Is(target error) bool {
	return target == oerrors.ErrRootContainer
}
