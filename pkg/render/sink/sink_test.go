package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/render"
	"github.com/matzehuels/kintree/pkg/scene"
	"github.com/matzehuels/kintree/pkg/tree"
)

type fixture struct {
	root   *tree.Node
	engine *render.Engine
	scene  *scene.Scene
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root, err := tree.Build(&tree.Record{
		FirstName: "Ada", LastName: "Lovelace",
		Children: []*tree.Record{
			{FirstName: "Byron", LastName: "King", Color: "green", Children: []*tree.Record{{FirstName: "Anne"}}},
			{FirstName: "Ralph", LastName: "<King>"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	root.LastX = layout.DefaultHeight / 2
	s := scene.New()
	return &fixture{root: root, engine: render.NewEngine(s), scene: s}
}

func (f *fixture) cycle(t *testing.T, source *tree.Node) scene.Frame {
	t.Helper()
	if err := layout.NewTidy(layout.DefaultOptions()).Layout(f.root); err != nil {
		t.Fatal(err)
	}
	f.engine.Render(f.root, source)
	return f.scene.Commit()
}

func TestRenderSVG(t *testing.T) {
	f := newFixture(t)
	svg := string(RenderSVG(f.cycle(t, f.root)))

	checks := []string{
		`width="2180" height="900"`,
		`<g transform="translate(90.00,60.00)">`,
		`attributeName="transform" type="translate"`,
		`attributeName="d"`,
		`dur="0.75s"`,
		`style="fill: green; stroke: steelblue"`,
		`style="fill: gray; stroke: steelblue"`,
		`rx="15.00"`,
		`&lt;King&gt;`,
	}
	for _, want := range checks {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if got := strings.Count(svg, `<g class="node"`); got != 4 {
		t.Errorf("node groups = %d, want 4", got)
	}
	if got := strings.Count(svg, `<path class="link"`); got != 3 {
		t.Errorf("links = %d, want 3", got)
	}
	if strings.Contains(svg, `to="hidden"`) {
		t.Error("initial frame hides elements")
	}
}

func TestRenderSVGMarkers(t *testing.T) {
	f := newFixture(t)
	f.cycle(t, f.root)
	byron := f.root.Visible()[0]
	byron.Toggle()
	svg := string(RenderSVG(f.cycle(t, byron)))

	if !strings.Contains(svg, `<tspan class="marker">+</tspan><tspan class="name" x="-30.00">Byron King</tspan>`) {
		t.Errorf("collapsed marker not rendered:\n%s", svg)
	}
	if !strings.Contains(svg, `<tspan class="marker">-</tspan>`) {
		t.Error("expanded marker not rendered")
	}
	if got := strings.Count(svg, `to="hidden"`); got != 2 {
		t.Errorf("hidden elements = %d, want exiting node and link", got)
	}
	if !strings.Contains(svg, `attributeName="width" from="80.00" to="1e-06"`) {
		t.Error("exiting pill does not shrink")
	}
}

func TestRenderSVGStatic(t *testing.T) {
	f := newFixture(t)
	f.cycle(t, f.root)
	byron := f.root.Visible()[0]
	byron.Toggle()
	svg := string(RenderSVG(f.cycle(t, byron), WithStatic()))

	if strings.Contains(svg, "<animate") || strings.Contains(svg, "<set") {
		t.Error("static SVG contains animations")
	}
	if got := strings.Count(svg, `<g class="node"`); got != 3 {
		t.Errorf("static node groups = %d, want 3", got)
	}
}

func TestCanvas(t *testing.T) {
	c := DefaultCanvas()
	w, h := c.Inner()
	if w != layout.DefaultWidth || h != layout.DefaultHeight {
		t.Errorf("Inner = %v×%v", w, h)
	}
	w, h = c.Outer()
	if w != 2180 || h != 900 {
		t.Errorf("Outer = %v×%v", w, h)
	}

	f := newFixture(t)
	svg := string(RenderSVG(f.cycle(t, f.root), WithCanvas(Canvas{Width: 100, Height: 50, Left: 5, Top: 7})))
	if !strings.Contains(svg, `width="105" height="50"`) || !strings.Contains(svg, "translate(5.00,7.00)") {
		t.Error("custom canvas ignored")
	}
}

func TestRenderHTML(t *testing.T) {
	f := newFixture(t)
	frame := f.cycle(t, f.root)

	page := string(RenderHTML(frame, HTMLOptions{Title: "Family <tree>", ViewID: "abc"}))
	for _, want := range []string{
		"<title>Family &lt;tree&gt;</title>",
		`data-view="abc"`,
		"/nodes/",
		".node { cursor: pointer; }",
		"<svg",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}

	static := string(RenderHTML(frame, HTMLOptions{}))
	if strings.Contains(static, "<script>") {
		t.Error("static page has a script")
	}
	if !strings.Contains(static, "<title>kintree</title>") {
		t.Error("default title missing")
	}
}
