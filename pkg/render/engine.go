package render

import (
	"slices"
	"time"

	"github.com/matzehuels/kintree/pkg/pill"
	"github.com/matzehuels/kintree/pkg/tree"
)

// DefaultDuration is the length of every transition.
const DefaultDuration = 750 * time.Millisecond

// Stats summarizes one render cycle.
type Stats struct {
	Nodes   int // visible nodes after the cycle
	Links   int // visible links after the cycle
	Entered int
	Updated int
	Exited  int

	LinksEntered int
	LinksExited  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithDuration sets the transition duration.
func WithDuration(d time.Duration) Option { return func(e *Engine) { e.duration = d } }

// WithStyle sets the pill metrics and palette.
func WithStyle(s pill.Style) Option { return func(e *Engine) { e.style = s } }

// Engine is the reconciliation engine. It is not safe for concurrent use;
// callers serialize cycles for one tree.
type Engine struct {
	surface  Surface
	style    pill.Style
	duration time.Duration

	lastID int
	nodes  map[int]bool // node elements on the surface
	links  map[int]bool // link elements on the surface
}

// NewEngine creates an engine drawing on s.
func NewEngine(s Surface, opts ...Option) *Engine {
	e := &Engine{
		surface:  s,
		style:    pill.DefaultStyle(),
		duration: DefaultDuration,
		nodes:    make(map[int]bool),
		links:    make(map[int]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Duration returns the transition duration.
func (e *Engine) Duration() time.Duration { return e.duration }

// Identify assigns n an ID if it has none yet and returns it.
func (e *Engine) Identify(n *tree.Node) int {
	if n.ID == 0 {
		e.lastID++
		n.ID = e.lastID
	}
	return n.ID
}

// Render reconciles the visible part of root, whose nodes must already carry
// layout coordinates, against the surface. source is the node that
// triggered the cycle: entering elements start at its previous position and
// exiting ones collapse onto its new position.
func (e *Engine) Render(root, source *tree.Node) Stats {
	nodes := root.Descendants()
	from := Point{X: source.LastY, Y: source.LastX}
	toward := screen(source)

	var st Stats
	current := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		id := e.Identify(n)
		current[id] = true

		p := e.style.For(n)
		if e.nodes[id] {
			e.surface.UpdateNode(id, p)
			st.Updated++
		} else {
			e.surface.CreateNode(id, from, p)
			st.Entered++
		}
		e.surface.MoveNode(id, screen(n), e.duration)
	}
	for _, id := range sortedKeys(e.nodes) {
		if !current[id] {
			e.surface.RemoveNode(id, toward, e.duration)
			st.Exited++
		}
	}

	links := make(map[int]bool, len(nodes))
	for _, n := range nodes[1:] {
		links[n.ID] = true
		if !e.links[n.ID] {
			e.surface.CreateLink(n.ID, Collapsed(from))
			st.LinksEntered++
		}
		e.surface.MoveLink(n.ID, Diagonal(screen(n), screen(n.Parent)), e.duration)
	}
	for _, id := range sortedKeys(e.links) {
		if !links[id] {
			e.surface.RemoveLink(id, Collapsed(toward), e.duration)
			st.LinksExited++
		}
	}

	for _, n := range nodes {
		n.LastX, n.LastY = n.X, n.Y
	}
	e.nodes, e.links = current, links

	st.Nodes = len(current)
	st.Links = len(links)
	return st
}

// Visible reports how many node and link elements the last cycle left on
// the surface.
func (e *Engine) Visible() (nodes, links int) {
	return len(e.nodes), len(e.links)
}

func screen(n *tree.Node) Point {
	return Point{X: n.Y, Y: n.X}
}

func sortedKeys(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
