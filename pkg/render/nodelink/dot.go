package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kintree/pkg/pill"
	"github.com/matzehuels/kintree/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Style supplies the fill and stroke colors. The zero value uses
	// pill.DefaultStyle.
	Style pill.Style

	// Markers prefixes each label with its expand/collapse marker.
	Markers bool
}

// ToDOT converts the visible part of a tree to Graphviz DOT format, laid out
// left to right like the pill diagram. Hidden subtrees are omitted.
func ToDOT(root *tree.Node, opts Options) string {
	if opts.Style == (pill.Style{}) {
		opts.Style = pill.DefaultStyle()
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=12, penwidth=2];\n")
	buf.WriteString("  edge [arrowhead=none, color=\"#cccccc\", penwidth=2];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	nodes := root.Descendants()
	names := make(map[*tree.Node]string, len(nodes))
	for i, n := range nodes {
		names[n] = nodeName(n, i)
		p := opts.Style.For(n)
		label := p.Label
		if opts.Markers && p.Marker != "" {
			label = p.Marker + " " + label
		}
		fmt.Fprintf(&buf, "  %s [label=%q, fillcolor=%q, color=%q];\n", names[n], label, p.Fill, p.Stroke)
	}

	buf.WriteString("\n")
	for _, n := range nodes[1:] {
		fmt.Fprintf(&buf, "  %s -> %s;\n", names[n.Parent], names[n])
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeName prefers the render ID so DOT output matches the pill diagram's
// data-id attributes; unrendered nodes fall back to their traversal index.
func nodeName(n *tree.Node, i int) string {
	if n.ID > 0 {
		return "n" + strconv.Itoa(n.ID)
	}
	return "i" + strconv.Itoa(i)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes with a normalized viewBox.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
