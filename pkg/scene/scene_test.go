package scene

import (
	"testing"
	"time"

	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/pill"
	"github.com/matzehuels/kintree/pkg/render"
	"github.com/matzehuels/kintree/pkg/tree"
)

func setup(t *testing.T) (*tree.Node, *render.Engine, *Scene) {
	t.Helper()
	root, err := tree.Build(&tree.Record{
		FirstName: "A",
		Children: []*tree.Record{
			{FirstName: "B", Children: []*tree.Record{{FirstName: "D"}}},
			{FirstName: "C"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	root.LastX = layout.DefaultHeight / 2
	s := New()
	return root, render.NewEngine(s), s
}

func cycle(t *testing.T, e *render.Engine, s *Scene, root, source *tree.Node) Frame {
	t.Helper()
	if err := layout.NewTidy(layout.DefaultOptions()).Layout(root); err != nil {
		t.Fatal(err)
	}
	e.Render(root, source)
	return s.Commit()
}

func TestCommitInitial(t *testing.T) {
	root, e, s := setup(t)
	f := cycle(t, e, s, root, root)

	if f.Seq != 1 {
		t.Errorf("Seq = %d, want 1", f.Seq)
	}
	if f.Duration != render.DefaultDuration {
		t.Errorf("Duration = %v", f.Duration)
	}
	if len(f.Nodes) != 4 || len(f.Links) != 3 {
		t.Fatalf("frame has %d nodes, %d links", len(f.Nodes), len(f.Links))
	}
	for i, n := range f.Nodes {
		if !n.Entered {
			t.Errorf("node %d not marked entered", n.ID)
		}
		if n.From != (render.Point{X: 0, Y: layout.DefaultHeight / 2}) {
			t.Errorf("node %d starts at %v", n.ID, n.From)
		}
		if i > 0 && f.Nodes[i-1].ID >= n.ID {
			t.Error("nodes not ordered by ID")
		}
	}
}

func TestCommitRebases(t *testing.T) {
	root, e, s := setup(t)
	first := cycle(t, e, s, root, root)
	second := cycle(t, e, s, root, root)

	for i, n := range second.Nodes {
		if n.Entered || n.Exited {
			t.Errorf("node %d: entered=%v exited=%v", n.ID, n.Entered, n.Exited)
		}
		if n.From != first.Nodes[i].To {
			t.Errorf("node %d starts at %v, previous frame ended at %v", n.ID, n.From, first.Nodes[i].To)
		}
	}
}

func TestCommitDropsExited(t *testing.T) {
	root, e, s := setup(t)
	cycle(t, e, s, root, root)

	b := root.Visible()[0]
	b.Toggle()
	f := cycle(t, e, s, root, b)

	d := b.Children().All()[0]
	var exited bool
	for _, n := range f.Nodes {
		if n.ID == d.ID {
			exited = n.Exited
			if n.To != (render.Point{X: b.Y, Y: b.X}) {
				t.Errorf("exit target = %v", n.To)
			}
		}
	}
	if !exited {
		t.Fatal("collapsed child not marked exited in frame")
	}

	nodes, links := s.Len()
	if nodes != 3 || links != 2 {
		t.Errorf("scene holds %d nodes, %d links after commit; want 3, 2", nodes, links)
	}
	if vn, vl := f.Visible(); vn != 3 || vl != 2 {
		t.Errorf("frame visible = %d, %d", vn, vl)
	}
}

func TestFrameAt(t *testing.T) {
	f := Frame{
		Duration: time.Second,
		Nodes: []Node{
			{ID: 1, From: render.Point{X: 0, Y: 0}, To: render.Point{X: 100, Y: 50}, Pill: pill.Pill{Width: 60, Height: 30}},
			{ID: 2, From: render.Point{X: 100, Y: 0}, To: render.Point{X: 0, Y: 0}, Pill: pill.Pill{Width: 60, Height: 30}, Exited: true},
		},
		Links: []Link{
			{ID: 2, From: render.Collapsed(render.Point{}), To: render.Collapsed(render.Point{}), Exited: true},
		},
	}

	tests := []struct {
		name  string
		t     float64
		nodes int
		links int
		at    render.Point
		width float64
	}{
		{"start", 0, 2, 1, render.Point{}, 60},
		{"clamp low", -1, 2, 1, render.Point{}, 60},
		{"half", 0.5, 2, 1, render.Point{X: 50, Y: 25}, 30.0000005},
		{"end", 1, 1, 0, render.Point{X: 100, Y: 50}, 0},
		{"clamp high", 2, 1, 0, render.Point{X: 100, Y: 50}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := f.At(tt.t)
			if len(s.Nodes) != tt.nodes || len(s.Links) != tt.links {
				t.Fatalf("got %d nodes, %d links", len(s.Nodes), len(s.Links))
			}
			if s.Nodes[0].At != tt.at {
				t.Errorf("node 1 at %v, want %v", s.Nodes[0].At, tt.at)
			}
			if s.Nodes[0].Width != 60 {
				t.Errorf("surviving width = %v", s.Nodes[0].Width)
			}
			if tt.nodes == 2 {
				if got := s.Nodes[1].Width; got < tt.width-1e-6 || got > tt.width+1e-6 {
					t.Errorf("exiting width = %v, want %v", got, tt.width)
				}
			}
		})
	}
}

func TestFinal(t *testing.T) {
	root, e, s := setup(t)
	f := cycle(t, e, s, root, root)
	snap := f.Final()
	for i, n := range snap.Nodes {
		if n.At != f.Nodes[i].To {
			t.Errorf("final %d at %v, want %v", n.ID, n.At, f.Nodes[i].To)
		}
	}
}
