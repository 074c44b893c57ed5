// Package markup loads XML views into a node tree with namespace-resolved
// element names.
package markup

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// DefaultNamespace is the namespace of elements without an implicit one.
const DefaultNamespace = "Ti.UI"

// implicitNamespaces maps element names to their namespace when none is
// given with an ns attribute.
var implicitNamespaces = map[string]string{
	"Require":     "Alloy",
	"Widget":      "Alloy",
	"Model":       "Alloy",
	"Collection":  "Alloy",
	"SplitWindow": "Ti.UI.iOS",
	"Popover":     "Ti.UI.iPad",
	"Annotation":  "Ti.Map",
	"Menu":        "Ti.Android",
	"MenuItem":    "Ti.Android",
	"ActionBar":   "Ti.Android",
}

// RootElement is the name of a view's root element.
const RootElement = "Alloy"

// Document is a parsed view.
type Document struct {
	doc *etree.Document

	// Root is the <Alloy> element.
	Root *Node
}

// Node is one element of a view.
type Node struct {
	el *etree.Element
}

// Attr is one attribute of a node.
type Attr struct {
	Name  string
	Value string
}

// LoadFile reads and parses the view at path.
func LoadFile(path string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("loading view %s: %w", path, err)
	}
	return newDocument(doc, path)
}

// Parse parses view markup from a string. name is used in error messages.
func Parse(name, src string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(src); err != nil {
		return nil, fmt.Errorf("loading view %s: %w", name, err)
	}
	return newDocument(doc, name)
}

func newDocument(doc *etree.Document, name string) (*Document, error) {
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("loading view %s: no root element", name)
	}
	if root.Tag != RootElement {
		return nil, fmt.Errorf("loading view %s: root element must be <%s>, found <%s>", name, RootElement, root.Tag)
	}
	return &Document{doc: doc, Root: &Node{el: root}}, nil
}

// Name is the element name as written, e.g. "Label".
func (n *Node) Name() string {
	return n.el.Tag
}

// Namespace is the ns attribute, the implicit namespace of the element
// name, or DefaultNamespace.
func (n *Node) Namespace() string {
	if ns := n.Attr("ns"); ns != "" {
		return ns
	}
	if ns, ok := implicitNamespaces[n.el.Tag]; ok {
		return ns
	}
	return DefaultNamespace
}

// FullName is the namespace-qualified name, e.g. "Ti.UI.Label".
func (n *Node) FullName() string {
	return n.Namespace() + "." + n.el.Tag
}

// Attr returns the named attribute's value, or "".
func (n *Node) Attr(name string) string {
	return n.el.SelectAttrValue(name, "")
}

// HasAttr reports whether the named attribute is present.
func (n *Node) HasAttr(name string) bool {
	return n.el.SelectAttr(name) != nil
}

// Attrs returns all attributes in document order. Prefixed attributes are
// named "prefix:name".
func (n *Node) Attrs() []Attr {
	attrs := make([]Attr, 0, len(n.el.Attr))
	for _, a := range n.el.Attr {
		name := a.Key
		if a.Space != "" {
			name = a.Space + ":" + a.Key
		}
		attrs = append(attrs, Attr{Name: name, Value: a.Value})
	}
	return attrs
}

// Children returns the child elements in document order.
func (n *Node) Children() []*Node {
	els := n.el.ChildElements()
	nodes := make([]*Node, len(els))
	for i, el := range els {
		nodes[i] = &Node{el: el}
	}
	return nodes
}

// Remove detaches child from n.
func (n *Node) Remove(child *Node) {
	n.el.RemoveChild(child.el)
}

// Text returns the element's direct character data, trimmed.
func (n *Node) Text() string {
	var b strings.Builder
	for _, tok := range n.el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			b.WriteString(cd.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

// FileLoader loads views from the filesystem.
type FileLoader struct{}

// Load reads and parses the view at path.
func (FileLoader) Load(path string) (*Document, error) {
	return LoadFile(path)
}
