package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/matzehuels/kintree/pkg/pill"
	"github.com/matzehuels/kintree/pkg/render"
	"github.com/matzehuels/kintree/pkg/scene"
)

const pillCSS = `
    .node rect { stroke-width: 2px; }
    .node text { font: 12px sans-serif; fill: white; dominant-baseline: central; }
    .node .marker { font-weight: bold; }
    .link { fill: none; stroke: #ccc; stroke-width: 2px; }`

const interactiveCSS = `
    .node { cursor: pointer; }
    .node:hover rect { stroke-width: 3px; }`

// Canvas is the drawing area: the outer SVG size is Width plus the left and
// right margins by Height, and the diagram is translated by the top-left
// margin.
type Canvas struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Top    float64 `toml:"margin_top"`
	Right  float64 `toml:"margin_right"`
	Bottom float64 `toml:"margin_bottom"`
	Left   float64 `toml:"margin_left"`
}

// DefaultCanvas returns a 2000×900 canvas with 60/90/30/90 margins.
func DefaultCanvas() Canvas {
	return Canvas{Width: 2000, Height: 900, Top: 60, Right: 90, Bottom: 30, Left: 90}
}

// Inner returns the layout extent inside the margins.
func (c Canvas) Inner() (width, height float64) {
	return c.Width - c.Left - c.Right, c.Height - c.Top - c.Bottom
}

// Outer returns the size of the svg element.
func (c Canvas) Outer() (width, height float64) {
	return c.Width + c.Left + c.Right, c.Height
}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	canvas      Canvas
	static      bool
	interactive bool
}

func WithCanvas(c Canvas) SVGOption { return func(r *svgRenderer) { r.canvas = c } }
func WithStatic() SVGOption         { return func(r *svgRenderer) { r.static = true } }
func WithInteraction() SVGOption    { return func(r *svgRenderer) { r.interactive = true } }

// RenderSVG writes f as an SVG document.
func RenderSVG(f scene.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{canvas: DefaultCanvas()}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := r.canvas.Outer()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-seq="%d">`+"\n",
		w, h, w, h, f.Seq)
	css := pillCSS
	if r.interactive {
		css += interactiveCSS
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", css)
	fmt.Fprintf(&buf, `  <g transform="translate(%s,%s)">`+"\n", num(r.canvas.Left), num(r.canvas.Top))

	if r.static || f.Duration <= 0 {
		renderStatic(&buf, f.Final())
	} else {
		renderAnimated(&buf, f)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func renderStatic(buf *bytes.Buffer, s scene.Snapshot) {
	for _, l := range s.Links {
		fmt.Fprintf(buf, `    <path class="link" data-id="%d" d="%s"/>`+"\n", l.ID, l.Curve.Path())
	}
	for _, n := range s.Nodes {
		openNode(buf, n.ID, n.At)
		writePill(buf, n.Pill)
		buf.WriteString("    </g>\n")
	}
}

func renderAnimated(buf *bytes.Buffer, f scene.Frame) {
	dur := seconds(f.Duration)

	for _, l := range f.Links {
		fmt.Fprintf(buf, `    <path class="link" data-id="%d" d="%s">`+"\n", l.ID, l.From.Path())
		fmt.Fprintf(buf, `      <animate attributeName="d" from="%s" to="%s" dur="%s" fill="freeze"/>`+"\n",
			l.From.Path(), l.To.Path(), dur)
		if l.Exited {
			writeHide(buf, dur)
		}
		buf.WriteString("    </path>\n")
	}

	for _, n := range f.Nodes {
		openNode(buf, n.ID, n.From)
		fmt.Fprintf(buf, `      <animateTransform attributeName="transform" type="translate" from="%s %s" to="%s %s" dur="%s" fill="freeze"/>`+"\n",
			num(n.From.X), num(n.From.Y), num(n.To.X), num(n.To.Y), dur)
		if !n.Exited {
			writePill(buf, n.Pill)
			buf.WriteString("    </g>\n")
			continue
		}
		writeShrinkingPill(buf, n.Pill, dur)
		writeHide(buf, dur)
		buf.WriteString("    </g>\n")
	}
}

func openNode(buf *bytes.Buffer, id int, at render.Point) {
	fmt.Fprintf(buf, `    <g class="node" data-id="%d" transform="translate(%s,%s)">`+"\n", id, num(at.X), num(at.Y))
}

func writePill(buf *bytes.Buffer, p pill.Pill) {
	width := p.Width
	fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="%s" rx="%s" ry="%s" style="fill: %s; stroke: %s"/>`+"\n",
		num(-width/2), num(-p.Height/2), num(width), num(p.Height), num(p.Radius), num(p.Radius), p.Fill, p.Stroke)
	writeLabel(buf, width, p, "")
}

func writeShrinkingPill(buf *bytes.Buffer, p pill.Pill, dur string) {
	w := p.Width
	fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="%s" rx="%s" ry="%s" style="fill: %s; stroke: %s">`+"\n",
		num(-w/2), num(-p.Height/2), num(w), num(p.Height), num(p.Radius), num(p.Radius), p.Fill, p.Stroke)
	for _, a := range []struct {
		attr     string
		from, to float64
	}{
		{"width", w, scene.Collapsed},
		{"height", p.Height, scene.Collapsed},
		{"x", -w / 2, -scene.Collapsed / 2},
		{"y", -p.Height / 2, -scene.Collapsed / 2},
	} {
		fmt.Fprintf(buf, `        <animate attributeName="%s" from="%s" to="%g" dur="%s" fill="freeze"/>`+"\n",
			a.attr, num(a.from), a.to, dur)
	}
	buf.WriteString("      </rect>\n")
	writeLabel(buf, w, p, fmt.Sprintf(`<animate attributeName="fill-opacity" from="1" to="%g" dur="%s" fill="freeze"/>`, scene.Collapsed, dur))
}

func writeLabel(buf *bytes.Buffer, width float64, p pill.Pill, anim string) {
	x := -width/2 + 10
	fmt.Fprintf(buf, `      <text x="%s" y="0">%s<tspan class="marker">%s</tspan><tspan class="name" x="%s">%s</tspan></text>`+"\n",
		num(x), anim, escape(p.Marker), num(x+20), escape(p.Label))
}

func writeHide(buf *bytes.Buffer, dur string) {
	fmt.Fprintf(buf, `      <set attributeName="visibility" to="hidden" begin="%s" fill="freeze"/>`+"\n", dur)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%gs", d.Seconds())
}

func num(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
