package scene

import (
	"github.com/matzehuels/kintree/pkg/pill"
	"github.com/matzehuels/kintree/pkg/render"
)

// Collapsed is the size an exiting pill shrinks to.
const Collapsed = 1e-6

// NodeAt is a node element at one instant of a frame.
type NodeAt struct {
	ID     int
	At     render.Point
	Width  float64
	Height float64
	Pill   pill.Pill
}

// LinkAt is a link element at one instant of a frame.
type LinkAt struct {
	ID    int
	Curve render.Curve
}

// Snapshot is the diagram at one instant.
type Snapshot struct {
	Nodes []NodeAt
	Links []LinkAt
}

// At returns the diagram after fraction t of the frame's transition, with t
// clamped to [0, 1]. Transitions are linear. Exiting pills shrink toward
// Collapsed and are absent from the snapshot once t reaches 1.
func (f Frame) At(t float64) Snapshot {
	t = min(max(t, 0), 1)

	var s Snapshot
	for _, l := range f.Links {
		if l.Exited && t >= 1 {
			continue
		}
		s.Links = append(s.Links, LinkAt{ID: l.ID, Curve: render.LerpCurve(l.From, l.To, t)})
	}
	for _, n := range f.Nodes {
		if n.Exited && t >= 1 {
			continue
		}
		w, h := n.Pill.Width, n.Pill.Height
		if n.Exited {
			w = lerp(w, Collapsed, t)
			h = lerp(h, Collapsed, t)
		}
		s.Nodes = append(s.Nodes, NodeAt{
			ID:     n.ID,
			At:     render.Lerp(n.From, n.To, t),
			Width:  w,
			Height: h,
			Pill:   n.Pill,
		})
	}
	return s
}

// Final is the resting state of the frame, At(1).
func (f Frame) Final() Snapshot { return f.At(1) }

// Visible returns the number of nodes and links that remain after the frame.
func (f Frame) Visible() (nodes, links int) {
	for _, n := range f.Nodes {
		if !n.Exited {
			nodes++
		}
	}
	for _, l := range f.Links {
		if !l.Exited {
			links++
		}
	}
	return nodes, links
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
