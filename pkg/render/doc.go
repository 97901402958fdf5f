// Package render reconciles a laid-out tree against a persistent visual
// surface.
//
// # Overview
//
// Every interaction re-lays-out the whole tree and calls [Engine.Render].
// The engine compares the visible nodes against the elements it placed on
// the [Surface] during the previous cycle and issues the minimal set of
// operations:
//
//   - Enter: nodes that just became visible are created at the source
//     node's previous position and moved to their own, so new subtrees grow
//     out of the clicked node.
//   - Update: nodes that stay visible get a fresh pill (width, fill,
//     marker, label) and move from their last position to their new one.
//   - Exit: nodes that disappeared move toward the source node's new
//     position while shrinking, then detach.
//
// Links follow the same lifecycle, one per non-root visible node, keyed by
// the child's ID and drawn as a cubic curve through the horizontal
// midpoint.
//
// Identity is the node ID, assigned lazily from a counter owned by the
// engine. After each cycle the engine records every visible node's position
// as LastX/LastY; that is the only state carried between cycles.
//
// # Coordinates
//
// Layout coordinates are breadth (X) and depth (Y). Surfaces receive screen
// points, which swap the axes so generations run left to right:
//
//	screen.X = node.Y
//	screen.Y = node.X
//
// # Surfaces
//
// [Recorder] captures operations for tests and tracing. The scene package
// accumulates them into animatable frames for the SVG sink and the
// terminal viewer.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG output using the external rsvg-convert
// tool.
package render
