// Package nodelink renders the visible tree as a plain node-link diagram
// through Graphviz.
//
// Convert a tree to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Markers: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Nodes are rounded boxes filled with the pill palette, edges run from
// parent to child left to right. Nodes that have been rendered by the pill
// engine are named n<ID>, so the DOT output can be matched against a pill
// diagram; collapsed subtrees are left out.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
