package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/kintree/pkg/scene"
)

const pageCSS = `
    body { margin: 0; font-family: sans-serif; background: #fff; }
    header { padding: 8px 16px; color: #555; font-size: 13px; }
    #tree-container { overflow: auto; }`

const pageJS = `
    const container = document.getElementById('tree-container');
    const view = container.dataset.view;
    let busy = false;
    container.addEventListener('click', async (ev) => {
      const node = ev.target.closest('g.node');
      if (!node || busy) return;
      busy = true;
      try {
        const res = await fetch('/api/views/' + view + '/nodes/' + node.dataset.id + '/toggle', { method: 'POST' });
        if (res.status === 204) return;
        if (!res.ok) { console.error('toggle failed:', res.status, await res.text()); return; }
        container.innerHTML = await res.text();
      } finally {
        busy = false;
      }
    });`

// HTMLOptions configures the interactive page.
type HTMLOptions struct {
	Title string
	// ViewID is the server view the page toggles nodes on. Without it the
	// page is a static replay of the frame.
	ViewID string
	Canvas Canvas
}

// RenderHTML writes a page embedding f.
func RenderHTML(f scene.Frame, opts HTMLOptions) []byte {
	if opts.Title == "" {
		opts.Title = "kintree"
	}
	if opts.Canvas == (Canvas{}) {
		opts.Canvas = DefaultCanvas()
	}

	svgOpts := []SVGOption{WithCanvas(opts.Canvas)}
	if opts.ViewID != "" {
		svgOpts = append(svgOpts, WithInteraction())
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	buf.WriteString("  <meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(opts.Title))
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", pageCSS)
	buf.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&buf, "  <header>%s</header>\n", html.EscapeString(opts.Title))
	fmt.Fprintf(&buf, "  <div id=\"tree-container\" data-view=\"%s\">\n", html.EscapeString(opts.ViewID))
	buf.Write(RenderSVG(f, svgOpts...))
	buf.WriteString("  </div>\n")
	if opts.ViewID != "" {
		fmt.Fprintf(&buf, "  <script>%s\n  </script>\n", pageJS)
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}
