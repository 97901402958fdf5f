package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/kintree/pkg/tree"
)

func sample(t *testing.T) *tree.Node {
	t.Helper()
	root, err := tree.Build(&tree.Record{
		FirstName: "Ada", LastName: "Lovelace",
		Children: []*tree.Record{
			{FirstName: "Byron", LastName: "King", Color: "green", Children: []*tree.Record{{FirstName: "Anne"}}},
			{FirstName: "Ralph", LastName: `"Q"`},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(t), Options{})

	for _, want := range []string{
		"rankdir=LR",
		`i0 [label="Ada Lovelace", fillcolor="gray", color="steelblue"]`,
		`i1 [label="Byron King", fillcolor="green"`,
		`label="Ralph \"Q\""`,
		"i0 -> i1;",
		"i1 -> i3;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, "->"); got != 3 {
		t.Errorf("edges = %d, want 3", got)
	}
}

func TestToDOTHidesCollapsed(t *testing.T) {
	root := sample(t)
	root.Visible()[0].Toggle()
	dot := ToDOT(root, Options{Markers: true})

	if strings.Contains(dot, "Anne") {
		t.Error("collapsed child exported")
	}
	if !strings.Contains(dot, `label="+ Byron King"`) || !strings.Contains(dot, `label="- Ada Lovelace"`) {
		t.Errorf("markers missing:\n%s", dot)
	}
	if !strings.Contains(dot, `label="Ralph \"Q\""`) {
		t.Error("leaf labels must not carry a marker")
	}
}

func TestToDOTUsesRenderIDs(t *testing.T) {
	root := sample(t)
	id := 1
	root.Walk(func(n *tree.Node) bool {
		n.ID = id * 10
		id++
		return true
	})
	dot := ToDOT(root, Options{})
	if !strings.Contains(dot, "n10 -> n20;") {
		t.Errorf("render IDs not used:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox: %s", got)
	}
}
