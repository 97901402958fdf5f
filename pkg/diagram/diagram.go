// Package diagram ties the tree, layout engine and render engine together
// into one interactive diagram.
//
// A [Diagram] owns everything a single tree needs between interactions:
// the root, the layout engine, the render engine (and with it the ID
// counter and the set of elements on the surface), the transition duration,
// and the logger. It is the only object callers hold; there is no package
// state.
//
// Usage:
//
//	d, err := diagram.New(root, scene.New(), diagram.WithLogger(logger))
//	d.Start(ctx)               // initial render from the root
//	d.Toggle(ctx, id)          // user clicked node id
//
// A Diagram is not safe for concurrent use. Every operation runs layout and
// render synchronously; callers that share a diagram across goroutines must
// serialize access.
package diagram

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/observability"
	"github.com/matzehuels/kintree/pkg/pill"
	"github.com/matzehuels/kintree/pkg/render"
	"github.com/matzehuels/kintree/pkg/tree"
)

// Diagram is an interactive pill-tree bound to a surface.
type Diagram struct {
	root       *tree.Node
	layout     layout.Engine
	layoutName string
	engine     *render.Engine
	logger     *log.Logger

	stats  render.Stats
	cycles int
}

type settings struct {
	layoutName    string
	layoutOpts    layout.Options
	engine        layout.Engine
	duration      time.Duration
	style         pill.Style
	collapseDepth int
	logger        *log.Logger
}

// Option configures a Diagram.
type Option func(*settings)

// WithLayout selects the layout engine by name and its extent.
func WithLayout(name string, opts layout.Options) Option {
	return func(s *settings) { s.layoutName, s.layoutOpts = name, opts }
}

// WithEngine lays out with e instead of a built-in engine. name labels its
// timings.
func WithEngine(name string, e layout.Engine) Option {
	return func(s *settings) { s.layoutName, s.engine = name, e }
}

// WithDuration sets the transition duration.
func WithDuration(d time.Duration) Option { return func(s *settings) { s.duration = d } }

// WithStyle sets the pill metrics and palette.
func WithStyle(st pill.Style) Option { return func(s *settings) { s.style = st } }

// WithCollapseDepth collapses every node at depth d or deeper before the
// first render. Zero leaves the tree fully expanded.
func WithCollapseDepth(d int) Option { return func(s *settings) { s.collapseDepth = d } }

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option { return func(s *settings) { s.logger = l } }

// New creates a diagram for root drawing on surface. It does not render;
// call [Diagram.Start].
func New(root *tree.Node, surface render.Surface, opts ...Option) (*Diagram, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "diagram needs a root node")
	}
	s := settings{
		layoutName: layout.EngineTidy,
		layoutOpts: layout.DefaultOptions(),
		duration:   render.DefaultDuration,
		style:      pill.DefaultStyle(),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	engine := s.engine
	if engine == nil {
		var ok bool
		if engine, ok = layout.New(s.layoutName, s.layoutOpts); !ok {
			return nil, errors.New(errors.ErrCodeUnsupported, "unknown layout engine %q", s.layoutName)
		}
	}
	height := s.layoutOpts.Height
	if height <= 0 {
		height = layout.DefaultHeight
	}

	if s.collapseDepth > 0 {
		collapseFrom(root, s.collapseDepth)
	}
	root.LastX, root.LastY = height/2, 0

	return &Diagram{
		root:       root,
		layout:     engine,
		layoutName: s.layoutName,
		engine:     render.NewEngine(surface, render.WithDuration(s.duration), render.WithStyle(s.style)),
		logger:     s.logger,
	}, nil
}

func collapseFrom(n *tree.Node, depth int) {
	if n.Depth >= depth {
		n.Collapse()
		return
	}
	for _, c := range n.Children().All() {
		collapseFrom(c, depth)
	}
}

// Start performs the initial render with the root as source, so every
// element enters from the vertical middle of the left edge.
func (d *Diagram) Start(ctx context.Context) (render.Stats, error) {
	return d.Render(ctx, d.root)
}

// Render lays out the whole visible tree and reconciles it against the
// surface. source is the node the cycle originates from.
func (d *Diagram) Render(ctx context.Context, source *tree.Node) (render.Stats, error) {
	if source == nil {
		source = d.root
	}
	hooks := observability.Diagram()

	start := time.Now()
	err := d.layout.Layout(d.root)
	visible := d.root.Size()
	hooks.OnLayout(ctx, d.layoutName, visible, time.Since(start), err)
	if err != nil {
		return render.Stats{}, errors.Wrap(errors.ErrCodeInternal, err, "layout")
	}

	start = time.Now()
	st := d.engine.Render(d.root, source)
	hooks.OnRender(ctx, st.Nodes, st.Entered, st.Exited, time.Since(start))

	d.stats = st
	d.cycles++
	d.logger.Debug("rendered",
		"cycle", d.cycles,
		"source", source.Name(),
		"nodes", st.Nodes,
		"links", st.Links,
		"entered", st.Entered,
		"updated", st.Updated,
		"exited", st.Exited)
	return st, nil
}

// Toggle handles a click on the node with the given ID: it swaps the node
// between expanded and collapsed and re-renders with the node as source.
// It reports false, without rendering, for leaves. Only visible nodes can
// be toggled. If the render fails the node is toggled back, so the tree
// still matches what the surface last drew.
func (d *Diagram) Toggle(ctx context.Context, id int) (bool, error) {
	n, ok := d.Node(id)
	if !ok {
		return false, errors.New(errors.ErrCodeNodeNotFound, "no visible node with id %d", id)
	}
	if !n.Toggle() {
		return false, nil
	}
	observability.Diagram().OnToggle(ctx, n.State().String())
	d.logger.Debug("toggled", "node", n.Name(), "id", id, "state", n.State())

	if _, err := d.Render(ctx, n); err != nil {
		n.Toggle()
		return false, err
	}
	return true, nil
}

// Node returns the visible node with the given ID.
func (d *Diagram) Node(id int) (*tree.Node, bool) {
	n, ok := d.root.Find(id)
	if !ok || !visible(n) {
		return nil, false
	}
	return n, true
}

func visible(n *tree.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.State() != tree.Expanded {
			return false
		}
	}
	return true
}

// Root returns the tree root.
func (d *Diagram) Root() *tree.Node { return d.root }

// Visible returns the visible nodes in breadth-first order.
func (d *Diagram) Visible() []*tree.Node { return d.root.Descendants() }

// Stats returns the statistics of the most recent render cycle.
func (d *Diagram) Stats() render.Stats { return d.stats }

// Cycles returns the number of render cycles run so far.
func (d *Diagram) Cycles() int { return d.cycles }

// Duration returns the transition duration.
func (d *Diagram) Duration() time.Duration { return d.engine.Duration() }
