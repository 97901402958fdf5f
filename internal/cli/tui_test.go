package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/diagram"
	kio "github.com/matzehuels/kintree/pkg/io"
	"github.com/matzehuels/kintree/pkg/pill"
	"github.com/matzehuels/kintree/pkg/render"
	"github.com/matzehuels/kintree/pkg/scene"
	"github.com/matzehuels/kintree/pkg/tree"
)

func newTestModel(t *testing.T, opts ...diagram.Option) TreeModel {
	t.Helper()
	rec, err := kio.DecodeJSON([]byte(familyJSON))
	if err != nil {
		t.Fatal(err)
	}
	root, err := tree.Build(rec)
	if err != nil {
		t.Fatal(err)
	}
	sc := scene.New()
	opts = append([]diagram.Option{diagram.WithLogger(log.New(io.Discard))}, opts...)
	d, err := diagram.New(root, sc, opts...)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	return NewTreeModel(context.Background(), d, sc, sc.Commit(), 810)
}

func press(m TreeModel, key string) TreeModel {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(TreeModel)
}

func TestTreeModelNavigation(t *testing.T) {
	m := newTestModel(t)
	if m.Cursor() != 1 {
		t.Fatalf("initial cursor = %d, want root", m.Cursor())
	}

	m = press(m, "right")
	if m.Cursor() != 2 {
		t.Errorf("right: cursor = %d, want first child 2", m.Cursor())
	}
	m = press(m, "l")
	if m.Cursor() != 4 {
		t.Errorf("l: cursor = %d, want grandchild 4", m.Cursor())
	}
	m = press(m, "left")
	if m.Cursor() != 2 {
		t.Errorf("left: cursor = %d, want parent 2", m.Cursor())
	}
	m = press(m, "h")
	m = press(m, "h")
	if m.Cursor() != 1 {
		t.Errorf("left past root: cursor = %d, want 1", m.Cursor())
	}
}

func TestTreeModelStepOrder(t *testing.T) {
	m := newTestModel(t)

	// Top to bottom: Byron's branch sits above Ralph.
	seen := []int{m.Cursor()}
	for i := 0; i < 5; i++ {
		m = press(m, "down")
		seen = append(seen, m.Cursor())
	}
	last := seen[len(seen)-1]
	if seen[len(seen)-2] != last {
		t.Errorf("cursor should stop at the last node, got %v", seen)
	}
	m = press(m, "up")
	if m.Cursor() == last {
		t.Error("up should move away from the last node")
	}
}

func TestTreeModelToggle(t *testing.T) {
	m := newTestModel(t, diagram.WithDuration(0))

	m = press(m, "enter")
	if m.Err() != nil {
		t.Fatal(m.Err())
	}
	if m.frame.Seq != 2 {
		t.Errorf("seq = %d, want 2 after collapsing the root", m.frame.Seq)
	}
	if nodes, _ := m.frame.Visible(); nodes != 1 {
		t.Errorf("visible = %d, want 1", nodes)
	}
	if m.progress != 1 {
		t.Errorf("progress = %v, want 1 without animation", m.progress)
	}

	m = press(m, " ")
	if nodes, _ := m.frame.Visible(); nodes != 4 {
		t.Errorf("visible after expand = %d, want 4", nodes)
	}
}

func TestTreeModelToggleLeaf(t *testing.T) {
	m := newTestModel(t)
	m.cursor = 3 // Ralph

	seq := m.frame.Seq
	m = press(m, "enter")
	if m.frame.Seq != seq {
		t.Error("toggling a leaf should not start a cycle")
	}
	if !strings.Contains(m.status, "no children") {
		t.Errorf("status = %q", m.status)
	}
}

func TestTreeModelAnimation(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "enter")

	next, cmd := m.Update(tickMsg(m.started.Add(m.frame.Duration / 2)))
	m = next.(TreeModel)
	if m.progress < 0.49 || m.progress > 0.51 {
		t.Errorf("progress = %v, want 0.5", m.progress)
	}
	if cmd == nil {
		t.Error("animation should keep ticking before it completes")
	}

	next, cmd = m.Update(tickMsg(m.started.Add(2 * time.Second)))
	m = next.(TreeModel)
	if m.progress != 1 || cmd != nil {
		t.Errorf("progress = %v, cmd = %v; want finished", m.progress, cmd)
	}
}

func TestTreeModelView(t *testing.T) {
	m := newTestModel(t)
	m.progress = 1
	m.Width, m.Height = 80, 24

	out := m.View()
	for _, want := range []string{"Ada King", "Byron King", "Anne King", "Ralph King", "toggle"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestBezierEndpoints(t *testing.T) {
	c := render.Curve{Source: render.Point{X: 180, Y: 100}, Target: render.Point{X: 0, Y: 405}}
	if p := bezier(c, 0); p != c.Source {
		t.Errorf("bezier(0) = %v", p)
	}
	if p := bezier(c, 1); p != c.Target {
		t.Errorf("bezier(1) = %v", p)
	}
	if p := bezier(c, 0.5); p.X != 90 {
		t.Errorf("bezier(0.5).X = %v, want 90", p.X)
	}
}

func TestCanvasShrinksExitingPills(t *testing.T) {
	p := pill.Pill{Width: 120, Height: 30, Marker: "", Label: "Anne King"}
	full := newCanvas(40, 3)
	full.draw(scene.Snapshot{Nodes: []scene.NodeAt{{ID: 4, Width: 120, Height: 30, Pill: p}}}, 0, 810)
	if got := full.String(); !strings.Contains(got, "(  Anne King)") {
		t.Errorf("full pill = %q", got)
	}

	half := newCanvas(40, 3)
	half.draw(scene.Snapshot{Nodes: []scene.NodeAt{{ID: 4, Width: 60, Height: 15, Pill: p}}}, 0, 810)
	got := strings.TrimSpace(half.String())
	if got != "(  Ann" {
		t.Errorf("half pill = %q, want first half of the label", got)
	}
}
