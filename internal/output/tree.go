package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

// Output file roles, as shown next to each written file.
const (
	RoleController = "controller"
	RoleSourceMap  = "source map"
	RoleStyle      = "style"
)

// OutputFile is one file written for a component.
type OutputFile struct {
	// Path is slash-separated and relative to the output directory.
	Path string
	Role string
	Size int64
}

// ComponentOutputs are the files written for one component, in write order.
type ComponentOutputs struct {
	Component string
	Files     []OutputFile
}

// RenderOutputTree renders the files written by a build below root, one
// branch per component. Paths, roles and sizes are aligned across the whole
// tree. Components are sorted by identifier; files keep their order.
func RenderOutputTree(root string, components []ComponentOutputs) string {
	var pathWidth, roleWidth int
	var count int
	for _, c := range components {
		for _, f := range c.Files {
			pathWidth = max(pathWidth, len(f.Path))
			roleWidth = max(roleWidth, len(f.Role))
			count++
		}
	}
	if count == 0 {
		return ""
	}

	sorted := make([]ComponentOutputs, len(components))
	copy(sorted, components)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Component < sorted[j].Component
	})

	t := tree.Root(StyleSummary.Render(strings.TrimSuffix(root, "/") + "/")).
		EnumeratorStyle(StyleDim.PaddingRight(1))
	for _, c := range sorted {
		if len(c.Files) == 0 {
			continue
		}
		branch := tree.Root(StyleNoun.Render(c.Component))
		for _, f := range c.Files {
			branch.Child(fmt.Sprintf("%-*s  %s  %s",
				pathWidth, f.Path,
				roleStyle(f.Role).Render(fmt.Sprintf("%-*s", roleWidth, f.Role)),
				StyleDim.Render(FormatSize(f.Size))))
		}
		t.Child(branch)
	}
	return t.String() + "\n"
}

func roleStyle(role string) lipgloss.Style {
	switch role {
	case RoleController:
		return StyleAction
	case RoleSourceMap:
		return StyleDim
	default:
		return StyleHint
	}
}

// FormatSize renders a byte count with a binary unit: "512 B", "1.5 KiB".
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
