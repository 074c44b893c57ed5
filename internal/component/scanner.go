package component

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/opmodel/alloyc/internal/core"
	oerrors "github.com/opmodel/alloyc/internal/errors"
)

// Scanner discovers the widgets and models of an app.
type Scanner interface {
	// FindWidgets returns every widget below <appDir>/widgets.
	FindWidgets(appDir string) ([]*Widget, error)

	// FindModels returns the model names defined below each dir's models/ folder.
	FindModels(dirs ...string) ([]string, error)
}

// DirScanner scans the filesystem.
type DirScanner struct{}

var _ Scanner = DirScanner{}

// FindWidgets reads <appDir>/widgets/*/widget.json. A missing widgets
// directory yields no widgets; a directory without a manifest is skipped.
// Widgets are returned sorted by directory.
func (DirScanner) FindWidgets(appDir string) ([]*Widget, error) {
	root := filepath.Join(appDir, core.WidgetDir)
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading widgets directory: %w", err)
	}

	var widgets []*Widget
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		manifest, err := ReadManifest(filepath.Join(dir, core.WidgetManifest))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		widgets = append(widgets, &Widget{Dir: dir, Manifest: *manifest})
	}

	sort.Slice(widgets, func(i, j int) bool { return widgets[i].Dir < widgets[j].Dir })
	return widgets, nil
}

// ReadManifest decodes a widget.json file. The id defaults to the name of
// the containing directory.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("invalid widget manifest: %v", err),
			path,
			"widget.json must be a JSON object with at least an \"id\" field",
		)
	}
	if m.ID == "" {
		m.ID = filepath.Base(filepath.Dir(path))
	}
	return &m, nil
}

// FindModels lists <dir>/models/*.js for each dir. Names are returned in
// directory order, each directory sorted, duplicates removed.
func (DirScanner) FindModels(dirs ...string) ([]string, error) {
	seen := make(map[string]bool)
	var names []string

	for _, dir := range dirs {
		entries, err := os.ReadDir(filepath.Join(dir, core.ModelDir))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading models directory: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".js" {
				continue
			}
			name := strings.TrimSuffix(e.Name(), ".js")
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names, nil
}
