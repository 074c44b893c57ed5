package compiler

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/opmodel/alloyc/internal/component"
	"github.com/opmodel/alloyc/internal/controller"
	"github.com/opmodel/alloyc/internal/core"
	"github.com/opmodel/alloyc/internal/sourcemap"
)

// TemplateName is the component template file name, embedded and looked up
// in Options.TemplateDir.
const TemplateName = "component.js.tmpl"

//go:embed template/component.js.tmpl
var templateFS embed.FS

var lonelyTab = regexp.MustCompile(`(?m)^\t\n`)

// templateData fills the component template.
type templateData struct {
	ModuleShim       string
	WPath            string
	Widget           string
	ParentController string
	ControllerPath   string
	PreCode          string
	ViewCode         string
	PostCode         string
}

// loadTemplate parses the template from dir, or the embedded one when dir is empty.
func loadTemplate(dir string) (*template.Template, error) {
	if dir == "" {
		return template.ParseFS(templateFS, "template/"+TemplateName)
	}
	path := filepath.Join(dir, TemplateName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading component template: %w", err)
	}
	tmpl, err := template.New(TemplateName).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing component template %s: %w", path, err)
	}
	return tmpl, nil
}

// widgetData returns the bootstrap snippet and the WPATH helper of a widget
// component, or empty strings for app components.
func widgetData(meta *component.Meta) (bootstrap, wpath string) {
	if meta.Manifest == nil {
		return "", ""
	}
	id := meta.Manifest.ID
	bootstrap = "const " + core.WidgetObject + " = new (require('/alloy/widget'))('" + id + "');this.__widgetId='" + id + "';"
	return bootstrap, wpathHelper(id)
}

// wpathHelper resolves widget-relative asset paths at runtime.
func wpathHelper(id string) string {
	return `function WPATH(s) {
	var index = s.lastIndexOf('/');
	var path = index === -1
		? '` + id + `/' + s
		: s.substring(0, index) + '/` + id + `/' + s.substring(index + 1);

	return path.indexOf('/') !== 0 ? '/' + path : path;
}
`
}

// assemble renders the template and splices the controller body in at the
// marker line. Each controller line maps to the generated line it lands on,
// one column in because of the template's indentation. The map embeds the
// controller source as written.
func assemble(tmpl *template.Template, data templateData, ctrl *controller.Code, meta *component.Meta, projectDir string) (string, *sourcemap.Map, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", nil, fmt.Errorf("rendering component template: %w", err)
	}
	rendered := buf.String()

	marker := -1
	for i, line := range strings.Split(rendered, "\n") {
		if strings.Contains(line, core.MapMarker) {
			marker = i
			break
		}
	}
	if marker < 0 {
		return "", nil, fmt.Errorf("component template has no %s line", core.MapMarker)
	}

	source := meta.Files.Controller
	if rel, err := filepath.Rel(projectDir, source); err == nil {
		source = rel
	}
	source = filepath.ToSlash(source)

	gen := sourcemap.NewGenerator(meta.Files.Component, projectDir)
	lines := strings.Split(ctrl.Body, "\n")
	for i := range lines {
		gen.AddMapping(sourcemap.Mapping{
			Generated: sourcemap.Position{Line: marker + 1 + i, Column: 1},
			Original:  sourcemap.Position{Line: i + 1, Column: 0},
			Source:    source,
		})
	}
	gen.SetSourceContent(source, ctrl.Source)

	code := strings.Replace(rendered, core.MapMarker, strings.Join(lines, "\n\t"), 1)
	code = lonelyTab.ReplaceAllString(code, "\n")
	return code, gen.Map(), nil
}
