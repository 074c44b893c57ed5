package component

import (
	"fmt"

	oerrors "github.com/opmodel/alloyc/internal/errors"
)

// ResolutionError indicates a path does not have the shape of a component
// path: an optional widgets/<id>/ segment, one of controllers, views or
// styles, and a relative path below it.
type ResolutionError struct {
	Path string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%q is not a component path (expected .../{controllers,views,styles}/<name>)", e.Path)
}

// Is matches errors.ErrResolution.
func (e *ResolutionError) Is(target error) bool {
	return target == oerrors.ErrResolution
}
