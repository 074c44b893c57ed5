// Package sourcemap builds version 3 source maps.
package sourcemap

import (
	"encoding/json"
	"sort"
	"strings"
)

// Version is the source map format version.
const Version = 3

// Position is a location in a file. Lines are 1-based, columns 0-based.
type Position struct {
	Line   int
	Column int
}

// Mapping links a generated position to its original position in Source.
type Mapping struct {
	Generated Position
	Original  Position
	Source    string
}

// Map is a serialized source map.
type Map struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// JSON encodes the map.
func (m *Map) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// Comment returns the trailing comment linking generated code to a map file.
func Comment(mapFile string) string {
	return "//# sourceMappingURL=" + mapFile
}

// Generator accumulates mappings for one generated file.
type Generator struct {
	file       string
	sourceRoot string

	sources  []string
	index    map[string]int
	contents map[string]string
	mappings []Mapping
}

// NewGenerator creates a generator for the generated file, with sources
// resolved relative to sourceRoot.
func NewGenerator(file, sourceRoot string) *Generator {
	return &Generator{
		file:       file,
		sourceRoot: sourceRoot,
		index:      make(map[string]int),
		contents:   make(map[string]string),
	}
}

// AddMapping records a mapping. Sources are numbered in first-seen order.
func (g *Generator) AddMapping(m Mapping) {
	g.addSource(m.Source)
	g.mappings = append(g.mappings, m)
}

// SetSourceContent embeds the content of source in the map.
func (g *Generator) SetSourceContent(source, content string) {
	g.addSource(source)
	g.contents[source] = content
}

func (g *Generator) addSource(source string) {
	if _, ok := g.index[source]; ok {
		return
	}
	g.index[source] = len(g.sources)
	g.sources = append(g.sources, source)
}

// Map encodes the accumulated mappings.
func (g *Generator) Map() *Map {
	m := &Map{
		Version:    Version,
		File:       g.file,
		SourceRoot: g.sourceRoot,
		Sources:    append([]string{}, g.sources...),
		Names:      []string{},
		Mappings:   g.encode(),
	}
	if len(g.contents) > 0 {
		m.SourcesContent = make([]*string, len(g.sources))
		for i, s := range g.sources {
			if c, ok := g.contents[s]; ok {
				m.SourcesContent[i] = &c
			}
		}
	}
	return m
}

// encode renders the mappings field: lines separated by ";", segments by
// ",", each segment a run of base64 VLQ deltas.
func (g *Generator) encode() string {
	sorted := append([]Mapping(nil), g.mappings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Generated, sorted[j].Generated
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	var (
		b          strings.Builder
		line       = 1
		prevCol    int
		prevSource int
		prevLine   int
		prevOrig   int
		first      = true
	)
	for _, m := range sorted {
		for line < m.Generated.Line {
			b.WriteByte(';')
			line++
			prevCol = 0
			first = true
		}
		if !first {
			b.WriteByte(',')
		}
		first = false

		source := g.index[m.Source]
		writeVLQ(&b, m.Generated.Column-prevCol)
		writeVLQ(&b, source-prevSource)
		writeVLQ(&b, m.Original.Line-1-prevLine)
		writeVLQ(&b, m.Original.Column-prevOrig)

		prevCol = m.Generated.Column
		prevSource = source
		prevLine = m.Original.Line - 1
		prevOrig = m.Original.Column
	}
	return b.String()
}

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func writeVLQ(b *strings.Builder, value int) {
	if value < 0 {
		value = (-value << 1) | 1
	} else {
		value <<= 1
	}
	for {
		digit := value & 31
		value >>= 5
		if value > 0 {
			digit |= 32
		}
		b.WriteByte(base64Digits[digit])
		if value == 0 {
			return
		}
	}
}
