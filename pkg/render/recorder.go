package render

import (
	"fmt"
	"io"
	"time"

	"github.com/matzehuels/kintree/pkg/pill"
)

// OpKind names a surface operation.
type OpKind string

// Surface operation kinds.
const (
	OpCreateNode OpKind = "create-node"
	OpUpdateNode OpKind = "update-node"
	OpMoveNode   OpKind = "move-node"
	OpRemoveNode OpKind = "remove-node"
	OpCreateLink OpKind = "create-link"
	OpMoveLink   OpKind = "move-link"
	OpRemoveLink OpKind = "remove-link"
)

// Op is one recorded surface call.
type Op struct {
	Kind     OpKind
	ID       int
	At       Point // node position (create, move, remove)
	Curve    Curve // link shape (create, move, remove)
	Pill     pill.Pill
	Duration time.Duration
}

func (o Op) String() string {
	switch o.Kind {
	case OpCreateNode, OpUpdateNode:
		s := fmt.Sprintf("%-11s #%d %q marker=%q width=%.0f fill=%s", o.Kind, o.ID, o.Pill.Label, o.Pill.Marker, o.Pill.Width, o.Pill.Fill)
		if o.Kind == OpCreateNode {
			s += fmt.Sprintf(" at=(%.1f, %.1f)", o.At.X, o.At.Y)
		}
		return s
	case OpMoveNode, OpRemoveNode:
		return fmt.Sprintf("%-11s #%d to=(%.1f, %.1f) in %s", o.Kind, o.ID, o.At.X, o.At.Y, o.Duration)
	default:
		s := fmt.Sprintf("%-11s #%d d=%q", o.Kind, o.ID, o.Curve.Path())
		if o.Duration > 0 {
			s += " in " + o.Duration.String()
		}
		return s
	}
}

// Recorder is a Surface that records every call in order.
type Recorder struct {
	Ops []Op
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) CreateNode(id int, at Point, p pill.Pill) {
	r.Ops = append(r.Ops, Op{Kind: OpCreateNode, ID: id, At: at, Pill: p})
}

func (r *Recorder) UpdateNode(id int, p pill.Pill) {
	r.Ops = append(r.Ops, Op{Kind: OpUpdateNode, ID: id, Pill: p})
}

func (r *Recorder) MoveNode(id int, to Point, d time.Duration) {
	r.Ops = append(r.Ops, Op{Kind: OpMoveNode, ID: id, At: to, Duration: d})
}

func (r *Recorder) RemoveNode(id int, to Point, d time.Duration) {
	r.Ops = append(r.Ops, Op{Kind: OpRemoveNode, ID: id, At: to, Duration: d})
}

func (r *Recorder) CreateLink(id int, c Curve) {
	r.Ops = append(r.Ops, Op{Kind: OpCreateLink, ID: id, Curve: c})
}

func (r *Recorder) MoveLink(id int, to Curve, d time.Duration) {
	r.Ops = append(r.Ops, Op{Kind: OpMoveLink, ID: id, Curve: to, Duration: d})
}

func (r *Recorder) RemoveLink(id int, to Curve, d time.Duration) {
	r.Ops = append(r.Ops, Op{Kind: OpRemoveLink, ID: id, Curve: to, Duration: d})
}

// Count returns how many operations of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, o := range r.Ops {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// Find returns the first operation of kind for id.
func (r *Recorder) Find(kind OpKind, id int) (Op, bool) {
	for _, o := range r.Ops {
		if o.Kind == kind && o.ID == id {
			return o, true
		}
	}
	return Op{}, false
}

// Reset drops all recorded operations.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// WriteTo writes one operation per line.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, o := range r.Ops {
		n, err := fmt.Fprintln(w, o.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

var _ Surface = (*Recorder)(nil)
