// Package component resolves source paths to component metadata: the
// component's identity, its owning widget, and the view, style and
// controller files it is compiled from.
package component

// Manifest is the identity of a widget, decoded from its widget.json.
type Manifest struct {
	ID           string            `json:"id"`
	Name         string            `json:"name,omitempty"`
	Version      string            `json:"version,omitempty"`
	Description  string            `json:"description,omitempty"`
	Author       string            `json:"author,omitempty"`
	Platforms    string            `json:"platforms,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Widget is a reusable component bundle below <app>/widgets/<id>.
type Widget struct {
	// Dir is the absolute widget directory.
	Dir string

	// Manifest is the decoded widget.json.
	Manifest Manifest
}

// StyleFile is one stylesheet candidate of a component.
type StyleFile struct {
	Path string

	// Platform is true for the platform-specific override.
	Platform bool
}

// Files are the concrete paths of a component's inputs and outputs.
type Files struct {
	// View is the markup file; the platform variant replaces the base when it exists.
	View string

	// Controller is the script file; the platform variant replaces the base when it exists.
	Controller string

	// Style holds the base stylesheet, followed by the platform override when one exists.
	Style []StyleFile

	// Component is the generated controller module path.
	Component string

	// RuntimeStyle is the generated runtime style module path.
	RuntimeStyle string
}

// Meta describes one component. Values returned by the Resolver are shared
// and must not be mutated.
type Meta struct {
	// ComponentIdentifier is the path below the role directory without
	// extension or platform folder, e.g. "index" or "settings/detail".
	ComponentIdentifier string

	// BasePath is the app directory, or the widget directory for widget components.
	BasePath string

	// SubPath is the directory part of ComponentIdentifier, "" at top level.
	SubPath string

	// ComponentName is the last element of ComponentIdentifier.
	ComponentName string

	// Widget is the owning widget, nil for app components.
	Widget *Widget

	// Manifest is the owning widget's manifest, nil for app components.
	Manifest *Manifest

	// CacheIdentifier is "<manifest id|app>/<ComponentIdentifier>".
	CacheIdentifier string

	Files Files
}

// IsWidget reports whether the component belongs to a widget.
func (m *Meta) IsWidget() bool {
	return m.Manifest != nil
}

// IsEntry reports whether the component is the app's entry view.
func (m *Meta) IsEntry() bool {
	return m.Manifest == nil && m.SubPath == "" && m.ComponentName == "index"
}

// ControllerPath is the slash-separated path used to require the
// generated controller at runtime.
func (m *Meta) ControllerPath() string {
	if m.SubPath == "" {
		return m.ComponentName
	}
	return m.SubPath + "/" + m.ComponentName
}

// StylePaths returns the stylesheet paths in cascade order.
func (f Files) StylePaths() []string {
	paths := make([]string, len(f.Style))
	for i, s := range f.Style {
		paths[i] = s.Path
	}
	return paths
}
