// Package pill computes the geometry and content of node pills.
//
// A pill is the rounded rectangle that represents one node: a marker glyph
// ("+" collapsed, "-" expanded, empty for leaves) followed by the node's
// full name. Its width grows linearly with the label:
//
//	width = MarkerWidth + CharWidth × len(label) + Padding
//
// Everything here is a pure function of the node's current state and is
// recomputed on every render.
package pill

import (
	"unicode/utf8"

	"github.com/matzehuels/kintree/pkg/tree"
)

// Default pill metrics.
const (
	DefaultMarkerWidth = 20.0 // room for the +/- glyph
	DefaultCharWidth   = 8.0  // approximate advance per character
	DefaultPadding     = 20.0 // 10 on each side
	DefaultHeight      = 30.0
)

// Marker glyphs.
const (
	MarkerCollapsed = "+"
	MarkerExpanded  = "-"
	MarkerLeaf      = ""
)

// Metrics holds the constants of the width formula.
type Metrics struct {
	MarkerWidth float64 `toml:"marker_width"`
	CharWidth   float64 `toml:"char_width"`
	Padding     float64 `toml:"padding"`
	Height      float64 `toml:"height"`
}

// DefaultMetrics returns the standard pill metrics.
func DefaultMetrics() Metrics {
	return Metrics{
		MarkerWidth: DefaultMarkerWidth,
		CharWidth:   DefaultCharWidth,
		Padding:     DefaultPadding,
		Height:      DefaultHeight,
	}
}

// Width returns the pill width for label. Characters are counted as runes.
func (m Metrics) Width(label string) float64 {
	return m.MarkerWidth + m.CharWidth*float64(utf8.RuneCountInString(label)) + m.Padding
}

// Radius returns the corner radius that makes the short ends semicircles.
func (m Metrics) Radius() float64 { return m.Height / 2 }

// Width returns the pill width for label using the default metrics.
func Width(label string) float64 { return DefaultMetrics().Width(label) }

// Marker returns the glyph for a node state.
func Marker(s tree.State) string {
	switch s {
	case tree.Collapsed:
		return MarkerCollapsed
	case tree.Expanded:
		return MarkerExpanded
	default:
		return MarkerLeaf
	}
}

// Palette maps node data to pill colors.
type Palette struct {
	Highlight string `toml:"highlight"`
	Default   string `toml:"default"`
	Stroke    string `toml:"stroke"`
}

// DefaultPalette returns green highlights on gray pills with a steelblue outline.
func DefaultPalette() Palette {
	return Palette{Highlight: "green", Default: "gray", Stroke: "steelblue"}
}

// Pill is the visual content of one node.
type Pill struct {
	Width     float64
	Height    float64
	Radius    float64
	Fill      string
	Stroke    string
	Marker    string
	Label     string
	Highlight bool
}

// Style bundles metrics and palette.
type Style struct {
	Metrics Metrics
	Palette Palette
}

// DefaultStyle returns the default metrics and palette.
func DefaultStyle() Style {
	return Style{Metrics: DefaultMetrics(), Palette: DefaultPalette()}
}

// For builds the pill for n from its current state.
func (s Style) For(n *tree.Node) Pill {
	label := n.Name()
	p := Pill{
		Width:     s.Metrics.Width(label),
		Height:    s.Metrics.Height,
		Radius:    s.Metrics.Radius(),
		Fill:      s.Palette.Default,
		Stroke:    s.Palette.Stroke,
		Marker:    Marker(n.State()),
		Label:     label,
		Highlight: n.Highlighted(),
	}
	if p.Highlight {
		p.Fill = s.Palette.Highlight
	}
	return p
}
