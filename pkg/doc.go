// Package pkg provides the core libraries for kintree collapsible tree diagrams.
//
// # Overview
//
// kintree draws a genealogical or organizational tree as pill-shaped labels
// joined by curved links. Clicking a node folds or unfolds its subtree, and
// every click re-lays-out the whole tree and animates the transition.
//
// # Architecture
//
// The typical data flow through kintree:
//
//	JSON file / HTTP / MongoDB / SQLite
//	         ↓
//	    [source] package (load a nested record, optionally cached)
//	         ↓
//	    [tree] package (hierarchy: parent, depth, folded children)
//	         ↓
//	    [layout] package (tidy or graphviz positions)
//	         ↓
//	    [render] package (enter/update/exit reconciliation onto a Surface)
//	         ↓
//	    [scene] package (frames) → [render/sink] SVG/HTML, [render/nodelink] DOT
//
// [diagram] ties the middle stages together and owns the per-tree state: the
// root, the render engine with its ID counter, and the transition duration.
//
// # Quick Start
//
//	rec, _ := source.Load(ctx, "family.json", source.Options{})
//	root, _ := tree.Build(rec)
//
//	sc := scene.New()
//	d, _ := diagram.New(root, sc, diagram.WithDuration(750*time.Millisecond))
//	d.Start(ctx)
//	svg := sink.RenderSVG(sc.Commit())
//
//	// Click the root: its children fold away.
//	d.Toggle(ctx, d.Root().ID)
//	svg = sink.RenderSVG(sc.Commit())
//
// # Main Packages
//
// [tree] - Records, nodes and the Visible/Hidden/None children union.
//
// [pill] - Pill width, geometry and the +/- marker.
//
// [layout] - Tidy (Buchheim) layout with sibling/cousin separation, plus a
// Graphviz-backed alternative.
//
// [render] - The reconciliation engine, the Surface interface, link curves
// and a Recorder surface for traces and tests.
//
// [scene] - A Surface that accumulates one cycle into a Frame.
//
// [render/sink] - Animated SVG (SMIL) and interactive HTML output.
//
// [render/nodelink] - Graphviz DOT export of the visible tree.
//
// [source] - One-shot loaders for every supported URI scheme.
//
// [cache] - File, Redis and null caches for fetched documents.
//
// [config] - TOML configuration with defaults.
//
// [observability] - Hooks for diagram cycles, cache lookups and HTTP fetches.
//
// [errors] - Error codes shared by the CLI and the server.
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/tree
// [pill]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/pill
// [layout]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/render
// [scene]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/scene
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/render/nodelink
// [source]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/errors
// [diagram]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/diagram
package pkg
