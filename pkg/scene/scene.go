// Package scene turns the surface calls of one render cycle into a Frame:
// the start and end state of every element on the diagram.
//
// A Scene is long-lived. It remembers where each element ended up after the
// previous cycle, so the next cycle's Frame starts from there. Frames are
// plain data and can be serialized, interpolated with [Frame.At], or handed
// to a sink that turns them into animated SVG.
package scene

import (
	"slices"
	"time"

	"github.com/matzehuels/kintree/pkg/pill"
	"github.com/matzehuels/kintree/pkg/render"
)

// Node is the transition of one node element within a frame.
type Node struct {
	ID      int          `json:"id"`
	From    render.Point `json:"from"`
	To      render.Point `json:"to"`
	Pill    pill.Pill    `json:"pill"`
	Entered bool         `json:"entered,omitempty"`
	Exited  bool         `json:"exited,omitempty"`
}

// Link is the transition of one link element within a frame. ID is the
// child node's ID.
type Link struct {
	ID      int          `json:"id"`
	From    render.Curve `json:"from"`
	To      render.Curve `json:"to"`
	Entered bool         `json:"entered,omitempty"`
	Exited  bool         `json:"exited,omitempty"`
}

// Frame is one committed render cycle. Nodes and links are ordered by ID.
type Frame struct {
	Seq      int           `json:"seq"`
	Duration time.Duration `json:"duration"`
	Nodes    []Node        `json:"nodes"`
	Links    []Link        `json:"links"`
}

// Scene is an in-memory render.Surface. It is not safe for concurrent use.
type Scene struct {
	nodes    map[int]*Node
	links    map[int]*Link
	duration time.Duration
	seq      int
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		nodes: make(map[int]*Node),
		links: make(map[int]*Link),
	}
}

func (s *Scene) CreateNode(id int, at render.Point, p pill.Pill) {
	s.nodes[id] = &Node{ID: id, From: at, To: at, Pill: p, Entered: true}
}

func (s *Scene) UpdateNode(id int, p pill.Pill) {
	s.node(id).Pill = p
}

func (s *Scene) MoveNode(id int, to render.Point, d time.Duration) {
	s.node(id).To = to
	s.duration = d
}

func (s *Scene) RemoveNode(id int, to render.Point, d time.Duration) {
	n := s.node(id)
	n.To = to
	n.Exited = true
	s.duration = d
}

func (s *Scene) CreateLink(id int, c render.Curve) {
	s.links[id] = &Link{ID: id, From: c, To: c, Entered: true}
}

func (s *Scene) MoveLink(id int, to render.Curve, d time.Duration) {
	s.link(id).To = to
	s.duration = d
}

func (s *Scene) RemoveLink(id int, to render.Curve, d time.Duration) {
	l := s.link(id)
	l.To = to
	l.Exited = true
	s.duration = d
}

// node returns the element for id, creating a placeholder at the origin
// for IDs the scene has never seen.
func (s *Scene) node(id int) *Node {
	n, ok := s.nodes[id]
	if !ok {
		n = &Node{ID: id}
		s.nodes[id] = n
	}
	return n
}

func (s *Scene) link(id int) *Link {
	l, ok := s.links[id]
	if !ok {
		l = &Link{ID: id}
		s.links[id] = l
	}
	return l
}

// Commit returns the frame of the current cycle and prepares the scene for
// the next one: exited elements are dropped and every survivor starts the
// next frame where this one ends.
func (s *Scene) Commit() Frame {
	s.seq++
	f := Frame{
		Seq:      s.seq,
		Duration: s.duration,
		Nodes:    make([]Node, 0, len(s.nodes)),
		Links:    make([]Link, 0, len(s.links)),
	}
	for _, id := range sortedIDs(s.nodes) {
		n := s.nodes[id]
		f.Nodes = append(f.Nodes, *n)
		if n.Exited {
			delete(s.nodes, id)
			continue
		}
		n.From, n.Entered = n.To, false
	}
	for _, id := range sortedIDs(s.links) {
		l := s.links[id]
		f.Links = append(f.Links, *l)
		if l.Exited {
			delete(s.links, id)
			continue
		}
		l.From, l.Entered = l.To, false
	}
	return f
}

// Len returns the number of node and link elements currently on the scene.
func (s *Scene) Len() (nodes, links int) {
	return len(s.nodes), len(s.links)
}

func sortedIDs[T any](m map[int]T) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

var _ render.Surface = (*Scene)(nil)
