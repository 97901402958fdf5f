package layout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kintree/pkg/tree"
)

// Graphviz places nodes with the dot engine in left-to-right rank
// direction and reads the breadth coordinate back from the laid-out DOT.
// Depth still follows the fixed column spacing.
type Graphviz struct {
	opts Options
}

// NewGraphviz creates a Graphviz-backed engine.
func NewGraphviz(opts Options) *Graphviz {
	opts.setDefaults()
	return &Graphviz{opts: opts}
}

// Layout positions every visible node below root.
func (g *Graphviz) Layout(root *tree.Node) error {
	nodes := root.Descendants()
	if len(nodes) == 1 {
		root.X = g.opts.Height / 2
		normalizeDepth(nodes, g.opts)
		return nil
	}

	out, err := runDot(toRankedDOT(nodes))
	if err != nil {
		return err
	}
	pos, err := parsePositions(out)
	if err != nil {
		return err
	}

	lo, hi := 0.0, 0.0
	for i := range nodes {
		p, ok := pos[i]
		if !ok {
			return fmt.Errorf("graphviz: no position for node n%d", i)
		}
		if i == 0 || p < lo {
			lo = p
		}
		if i == 0 || p > hi {
			hi = p
		}
	}

	// Graphviz y grows upwards; breadth grows downwards.
	for i, n := range nodes {
		if hi == lo {
			n.X = g.opts.Height / 2
			continue
		}
		n.X = (hi - pos[i]) / (hi - lo) * g.opts.Height
	}
	normalizeDepth(nodes, g.opts)
	return nil
}

// toRankedDOT emits the visible tree as a left-to-right digraph whose node
// names are the breadth-first indices of nodes.
func toRankedDOT(nodes []*tree.Node) []byte {
	index := make(map[*tree.Node]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  node [shape=box, height=0.4, width=1];\n")
	for i := range nodes {
		fmt.Fprintf(&buf, "  n%d;\n", i)
	}
	for i, n := range nodes {
		for _, c := range n.Visible() {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", i, index[c])
		}
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}

func runDot(dot []byte) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	nodeStmtRe = regexp.MustCompile(`(?ms)^\s*n(\d+)\s*\[(.*?)\];`)
	posRe      = regexp.MustCompile(`pos="([-0-9.e+]+),([-0-9.e+]+)"`)
)

// parsePositions extracts the y coordinate of each nN node from laid-out DOT.
func parsePositions(out []byte) (map[int]float64, error) {
	pos := make(map[int]float64)
	for _, m := range nodeStmtRe.FindAllSubmatch(out, -1) {
		idx, err := strconv.Atoi(string(m[1]))
		if err != nil {
			continue
		}
		p := posRe.FindSubmatch(m[2])
		if p == nil {
			continue
		}
		y, err := strconv.ParseFloat(string(p[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("graphviz: bad position for n%d: %w", idx, err)
		}
		pos[idx] = y
	}
	return pos, nil
}
