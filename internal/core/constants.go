// Package core holds the domain constants shared by every compilation phase:
// directory and extension conventions, element names, and runtime symbols.
package core

// Role identifies one of the source or output files belonging to a component.
type Role string

const (
	// RoleView is the XML markup file.
	RoleView Role = "VIEW"

	// RoleStyle is the TSS stylesheet.
	RoleStyle Role = "STYLE"

	// RoleController is the JavaScript controller.
	RoleController Role = "CONTROLLER"

	// RoleComponent is the generated controller module (output only).
	RoleComponent Role = "COMPONENT"

	// RoleRuntimeStyle is the generated runtime style module (output only).
	RoleRuntimeStyle Role = "RUNTIME_STYLE"
)

// InputRoles are the roles resolved against the filesystem, in resolution order.
var InputRoles = []Role{RoleView, RoleStyle, RoleController}

// Dir returns the directory name used for files of the role.
func (r Role) Dir() string {
	switch r {
	case RoleView:
		return "views"
	case RoleStyle, RoleRuntimeStyle:
		return "styles"
	case RoleController, RoleComponent:
		return "controllers"
	default:
		return ""
	}
}

// Ext returns the file extension (without the dot) for files of the role.
func (r Role) Ext() string {
	switch r {
	case RoleView:
		return "xml"
	case RoleStyle:
		return "tss"
	default:
		return "js"
	}
}

// Well-known directories and files below the app directory.
const (
	// ModelDir holds model definitions, one file per model.
	ModelDir = "models"

	// WidgetDir holds one directory per widget.
	WidgetDir = "widgets"

	// ThemeDir holds one directory per theme.
	ThemeDir = "themes"

	// WidgetManifest is the manifest file at the root of a widget directory.
	WidgetManifest = "widget.json"

	// GlobalStyle is the app-wide stylesheet below styles/.
	GlobalStyle = "app.tss"
)

// Element full names with compiler-level meaning.
const (
	ElementRequire    = "Alloy.Require"
	ElementModel      = "Alloy.Model"
	ElementCollection = "Alloy.Collection"
)

// ModelElements are the data-model element kinds lowered into the preamble.
var ModelElements = []string{ElementCollection, ElementModel}

// Runtime symbols referenced by generated code.
const (
	BindModelVar      = "$model"
	ParentSymbolVar   = "__parentSymbol"
	ItemTemplateVar   = "__itemTemplate"
	WidgetObject      = "Widget"
	ModelBindingEvent = "fetch change destroy"
	MapMarker         = "__MAPMARKER_CONTROLLER_CODE__"
	DefaultBase       = "'BaseController'"
	GeneratedIDPrefix = "__alloyId"
)

// Root element attributes.
const (
	AttrAutoStyle      = "autoStyle"
	AttrModule         = "module"
	AttrBaseController = "baseController"
)

// IsModelElement reports whether fullname is a data-model element kind.
func IsModelElement(fullname string) bool {
	for _, m := range ModelElements {
		if m == fullname {
			return true
		}
	}
	return false
}
