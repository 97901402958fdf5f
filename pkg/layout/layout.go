// Package layout assigns 2D positions to the visible part of a tree.
//
// Two engines are provided:
//
//   - [Tidy]: the Reingold–Tilford tidy tree in Buchheim's linear-time
//     formulation, the default.
//   - [Graphviz]: delegates breadth placement to Graphviz dot.
//
// Both honor the same coordinate contract. X is the breadth coordinate
// (sibling order, spread over [0, Options.Height]); Y is the depth
// coordinate. When Options.DepthSpacing is positive, Y is normalized to
// depth × DepthSpacing, producing fixed columns per generation.
//
// Only visible nodes are positioned; hidden subtrees keep whatever
// coordinates they had.
package layout

import (
	"github.com/matzehuels/kintree/pkg/tree"
)

// Engine names.
const (
	EngineTidy     = "tidy"
	EngineGraphviz = "graphviz"
)

// Default layout extent and spacing.
const (
	DefaultHeight       = 810.0  // 900 canvas minus top and bottom margins
	DefaultWidth        = 1820.0 // 2000 canvas minus left and right margins
	DefaultDepthSpacing = 180.0
)

// Engine positions the visible nodes of a tree.
type Engine interface {
	Layout(root *tree.Node) error
}

// SeparationFunc returns the minimum distance between two adjacent nodes,
// in units of the breadth step.
type SeparationFunc func(a, b *tree.Node) float64

// Siblings places nodes under the same parent one unit apart and nodes
// from different families one and a half units apart.
func Siblings(a, b *tree.Node) float64 {
	if a.Parent == b.Parent {
		return 1
	}
	return 1.5
}

// Gaps returns a separation function with custom sibling and cousin gaps.
func Gaps(sibling, cousin float64) SeparationFunc {
	return func(a, b *tree.Node) float64 {
		if a.Parent == b.Parent {
			return sibling
		}
		return cousin
	}
}

// Options configures an engine.
type Options struct {
	// Height is the breadth extent, Width the depth extent.
	Height float64
	Width  float64

	// DepthSpacing fixes the distance between generations. Zero spreads
	// depths over Width instead.
	DepthSpacing float64

	Separation SeparationFunc
}

// DefaultOptions returns the extent of a 2000×900 canvas with 60/90/30/90
// margins and 180-unit generation columns.
func DefaultOptions() Options {
	return Options{
		Height:       DefaultHeight,
		Width:        DefaultWidth,
		DepthSpacing: DefaultDepthSpacing,
		Separation:   Siblings,
	}
}

func (o *Options) setDefaults() {
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Separation == nil {
		o.Separation = Siblings
	}
}

// New returns the engine registered under name.
func New(name string, opts Options) (Engine, bool) {
	switch name {
	case "", EngineTidy:
		return NewTidy(opts), true
	case EngineGraphviz:
		return NewGraphviz(opts), true
	}
	return nil, false
}

// normalizeDepth applies the fixed column spacing, or spreads depths over
// the width when no spacing is configured.
func normalizeDepth(nodes []*tree.Node, opts Options) {
	if opts.DepthSpacing > 0 {
		for _, n := range nodes {
			n.Y = float64(n.Depth-nodes[0].Depth) * opts.DepthSpacing
		}
		return
	}
	maxDepth := 0
	for _, n := range nodes {
		maxDepth = max(maxDepth, n.Depth-nodes[0].Depth)
	}
	ky := opts.Width / float64(max(maxDepth, 1))
	for _, n := range nodes {
		n.Y = float64(n.Depth-nodes[0].Depth) * ky
	}
}
