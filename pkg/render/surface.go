package render

import (
	"fmt"
	"time"

	"github.com/matzehuels/kintree/pkg/pill"
)

// Point is a position in screen space.
type Point struct {
	X, Y float64
}

// Lerp interpolates between a and b; t=0 yields a, t=1 yields b.
func Lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// Curve is a link shape: a cubic Bézier from Source to Target whose control
// points sit on the vertical line halfway between them.
type Curve struct {
	Source, Target Point
}

// Diagonal returns the link from a child at s to its parent at d.
func Diagonal(s, d Point) Curve { return Curve{Source: s, Target: d} }

// Collapsed returns a zero-length curve at p, used as the start of entering
// links and the end of exiting ones.
func Collapsed(p Point) Curve { return Curve{Source: p, Target: p} }

// Path returns the SVG path data of the curve.
func (c Curve) Path() string {
	mx := (c.Source.X + c.Target.X) / 2
	return fmt.Sprintf("M %s %s C %s %s, %s %s, %s %s",
		num(c.Source.X), num(c.Source.Y),
		num(mx), num(c.Source.Y),
		num(mx), num(c.Target.Y),
		num(c.Target.X), num(c.Target.Y))
}

// LerpCurve interpolates both endpoints of a curve.
func LerpCurve(a, b Curve, t float64) Curve {
	return Curve{Source: Lerp(a.Source, b.Source, t), Target: Lerp(a.Target, b.Target, t)}
}

func num(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// Surface is the diagram area the engine draws on. Node and link IDs are
// the IDs of the owning tree nodes.
type Surface interface {
	// CreateNode places a new node element at a starting position.
	CreateNode(id int, at Point, p pill.Pill)
	// UpdateNode refreshes an existing node's pill in place.
	UpdateNode(id int, p pill.Pill)
	// MoveNode animates a node from its current position to to.
	MoveNode(id int, to Point, d time.Duration)
	// RemoveNode animates a node toward to while shrinking it, then detaches it.
	RemoveNode(id int, to Point, d time.Duration)

	// CreateLink places a new link element with a starting shape.
	CreateLink(id int, c Curve)
	// MoveLink animates a link from its current shape to to.
	MoveLink(id int, to Curve, d time.Duration)
	// RemoveLink animates a link into to, then detaches it.
	RemoveLink(id int, to Curve, d time.Duration)
}
