package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/kintree/pkg/tree"
)

func build(t *testing.T, rec *tree.Record) *tree.Node {
	t.Helper()
	root, err := tree.Build(rec)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return root
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTidySingleNode(t *testing.T) {
	root := build(t, &tree.Record{FirstName: "A"})
	if err := NewTidy(DefaultOptions()).Layout(root); err != nil {
		t.Fatal(err)
	}
	if !near(root.X, DefaultHeight/2) || root.Y != 0 {
		t.Errorf("root = (%v, %v), want (%v, 0)", root.X, root.Y, DefaultHeight/2)
	}
}

func TestTidyTwoChildren(t *testing.T) {
	root := build(t, &tree.Record{FirstName: "A", Children: []*tree.Record{
		{FirstName: "B"}, {FirstName: "C"},
	}})
	opts := DefaultOptions()
	opts.Height = 400
	if err := NewTidy(opts).Layout(root); err != nil {
		t.Fatal(err)
	}

	b, c := root.Visible()[0], root.Visible()[1]
	if !near(root.X, 200) || !near(b.X, 100) || !near(c.X, 300) {
		t.Errorf("x = root %v, b %v, c %v; want 200, 100, 300", root.X, b.X, c.X)
	}
	if b.Y != 180 || c.Y != 180 || root.Y != 0 {
		t.Errorf("y = root %v, b %v, c %v; want 0, 180, 180", root.Y, b.Y, c.Y)
	}
}

func TestTidyExtremeTies(t *testing.T) {
	// a3 and B share the rightmost x; a3 comes first in pre-order and is a
	// sibling of the leftmost node a1, so the margin is half a sibling gap.
	root := build(t, &tree.Record{FirstName: "R", Children: []*tree.Record{
		{FirstName: "A", Children: []*tree.Record{
			{FirstName: "a1"}, {FirstName: "a2"}, {FirstName: "a3"},
		}},
		{FirstName: "B"},
	}})
	opts := DefaultOptions()
	opts.Height = 810
	if err := NewTidy(opts).Layout(root); err != nil {
		t.Fatal(err)
	}

	a, b := root.Visible()[0], root.Visible()[1]
	a1, a3 := a.Visible()[0], a.Visible()[2]
	if !near(root.X, 540) {
		t.Errorf("root.X = %v, want 540", root.X)
	}
	if !near(a1.X, 135) || !near(a3.X, 675) || !near(b.X, 675) {
		t.Errorf("x = a1 %v, a3 %v, B %v; want 135, 675, 675", a1.X, a3.X, b.X)
	}
}

func TestTidySeparation(t *testing.T) {
	root := build(t, &tree.Record{FirstName: "A", Children: []*tree.Record{
		{FirstName: "B", Children: []*tree.Record{{FirstName: "D"}, {FirstName: "E"}}},
		{FirstName: "C", Children: []*tree.Record{{FirstName: "F"}}},
	}})
	if err := NewTidy(DefaultOptions()).Layout(root); err != nil {
		t.Fatal(err)
	}

	b, c := root.Visible()[0], root.Visible()[1]
	d, e := b.Visible()[0], b.Visible()[1]
	f := c.Visible()[0]

	siblingGap := e.X - d.X
	cousinGap := f.X - e.X
	if siblingGap <= 0 {
		t.Fatalf("siblings out of order: d=%v e=%v", d.X, e.X)
	}
	if !near(cousinGap/siblingGap, 1.5) {
		t.Errorf("cousin/sibling gap ratio = %v, want 1.5", cousinGap/siblingGap)
	}
	if !(b.X < c.X) {
		t.Errorf("children out of order: b=%v c=%v", b.X, c.X)
	}
	if !near(b.X, (d.X+e.X)/2) {
		t.Errorf("parent not centered over children: b=%v d=%v e=%v", b.X, d.X, e.X)
	}
}

func TestTidyNoOverlap(t *testing.T) {
	rec := &tree.Record{FirstName: "root"}
	for i := 0; i < 4; i++ {
		child := &tree.Record{FirstName: "c"}
		for j := 0; j <= i; j++ {
			child.Children = append(child.Children, &tree.Record{FirstName: "g",
				Children: []*tree.Record{{FirstName: "gg"}, {FirstName: "gg"}}})
		}
		rec.Children = append(rec.Children, child)
	}
	root := build(t, rec)
	if err := NewTidy(DefaultOptions()).Layout(root); err != nil {
		t.Fatal(err)
	}

	byDepth := map[int][]*tree.Node{}
	for _, n := range root.Descendants() {
		byDepth[n.Depth] = append(byDepth[n.Depth], n)
		if n.X < 0 || n.X > DefaultHeight+1e-9 {
			t.Errorf("node at depth %d out of extent: %v", n.Depth, n.X)
		}
	}
	for depth, nodes := range byDepth {
		for i := 1; i < len(nodes); i++ {
			if nodes[i].X <= nodes[i-1].X {
				t.Errorf("depth %d: node %d (%v) not after node %d (%v)", depth, i, nodes[i].X, i-1, nodes[i-1].X)
			}
		}
	}
}

func TestTidyIgnoresHiddenNodes(t *testing.T) {
	root := build(t, &tree.Record{FirstName: "A", Children: []*tree.Record{
		{FirstName: "B", Children: []*tree.Record{{FirstName: "D"}, {FirstName: "E"}}},
		{FirstName: "C"},
	}})
	b := root.Visible()[0]
	b.Toggle()

	opts := DefaultOptions()
	opts.Height = 400
	if err := NewTidy(opts).Layout(root); err != nil {
		t.Fatal(err)
	}
	c := root.Visible()[1]
	if !near(b.X, 100) || !near(c.X, 300) {
		t.Errorf("b=%v c=%v; hidden grandchildren must not affect layout", b.X, c.X)
	}
}

func TestDepthSpacingZero(t *testing.T) {
	root := build(t, &tree.Record{FirstName: "A", Children: []*tree.Record{
		{FirstName: "B", Children: []*tree.Record{{FirstName: "C"}}},
	}})
	opts := DefaultOptions()
	opts.DepthSpacing = 0
	opts.Width = 1000
	if err := NewTidy(opts).Layout(root); err != nil {
		t.Fatal(err)
	}
	c := root.Visible()[0].Visible()[0]
	if c.Y != 1000 {
		t.Errorf("deepest y = %v, want 1000", c.Y)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", EngineTidy, EngineGraphviz} {
		if _, ok := New(name, DefaultOptions()); !ok {
			t.Errorf("New(%q) failed", name)
		}
	}
	if _, ok := New("radial", DefaultOptions()); ok {
		t.Error("New(radial) should fail")
	}
}

func TestParsePositions(t *testing.T) {
	out := []byte(`digraph G {
	graph [bb="0,0,170,98", rankdir=LR];
	node [label="\N", shape=box];
	n0	[height=0.5, pos="27,49", width=0.75];
	n1	[height=0.5,
		pos="135,76",
		width=0.75];
	n2	[height=0.5, pos="135,22", width=0.75];
	n0 -> n1	[pos="e,108,67 54,58 68,63 84,68 98,72"];
}
`)
	pos, err := parsePositions(out)
	if err != nil {
		t.Fatal(err)
	}
	want := map[int]float64{0: 49, 1: 76, 2: 22}
	for k, v := range want {
		if pos[k] != v {
			t.Errorf("pos[%d] = %v, want %v", k, pos[k], v)
		}
	}
	if len(pos) != 3 {
		t.Errorf("len(pos) = %d, want 3", len(pos))
	}
}

func TestToRankedDOT(t *testing.T) {
	root := build(t, &tree.Record{FirstName: "A", Children: []*tree.Record{
		{FirstName: "B"}, {FirstName: "C"},
	}})
	dot := string(toRankedDOT(root.Descendants()))
	for _, want := range []string{"rankdir=LR", "n0 -> n1;", "n0 -> n2;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}
