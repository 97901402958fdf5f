package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/config"
	"github.com/matzehuels/kintree/pkg/diagram"
	"github.com/matzehuels/kintree/pkg/render"
	"github.com/matzehuels/kintree/pkg/render/nodelink"
	"github.com/matzehuels/kintree/pkg/render/sink"
	"github.com/matzehuels/kintree/pkg/scene"
	"github.com/matzehuels/kintree/pkg/tree"
)

// Output formats accepted by --format.
const (
	formatSVG      = "svg"      // animated SVG of the last frame
	formatHTML     = "html"     // standalone page embedding the SVG
	formatJSON     = "json"     // the last frame as JSON
	formatDOT      = "dot"      // Graphviz DOT of the visible tree
	formatGraphviz = "graphviz" // Graphviz-rendered SVG of the visible tree
	formatTrace    = "trace"    // every surface operation, one per line
	formatPDF      = "pdf"      // static frame as PDF (needs rsvg-convert)
	formatPNG      = "png"      // static frame as PNG (needs rsvg-convert)
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{
	formatSVG: true, formatHTML: true, formatJSON: true, formatDOT: true,
	formatGraphviz: true, formatTrace: true, formatPDF: true, formatPNG: true,
}

// extensions maps a format to the file extension it is written with.
var extensions = map[string]string{
	formatGraphviz: "graphviz.svg",
	formatTrace:    "trace.txt",
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output        string // output file path (or base path for multiple outputs)
	formats       []string
	toggles       []int // node IDs clicked in order after the initial render
	static        bool  // draw resting positions without animation
	title         string
	layout        string
	collapseDepth int
	noCache       bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr, togglesStr string
	opts := renderOpts{collapseDepth: -1}

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Render a tree diagram to SVG, HTML, DOT or other formats",
		Long: `Render loads a tree document and writes one render cycle of its diagram.

The source is a JSON file path or a file://, http(s)://, mongodb:// or sqlite://
URI. Without one, the source configured in the config file is used.

--toggle replays clicks on the given node IDs (assigned breadth first from 1,
the root) and writes the frame of the last click, so the output animates that
transition.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			toggles, err := parseToggles(togglesStr)
			if err != nil {
				return err
			}
			opts.toggles = toggles

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			applyRenderFlags(cfg, &opts)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), sourceURI(args, cfg), cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), html, json, dot, graphviz, trace, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&togglesStr, "toggle", "", "node IDs to click before writing, in order (comma-separated)")
	cmd.Flags().BoolVar(&opts.static, "static", false, "draw the resting state without animation")
	cmd.Flags().StringVar(&opts.title, "title", "", "page title for html output (default: root name)")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "layout engine: tidy (default), graphviz")
	cmd.Flags().IntVar(&opts.collapseDepth, "collapse-depth", opts.collapseDepth, "collapse nodes at this depth on load (0 shows everything)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the source cache")

	return cmd
}

// applyRenderFlags overrides config values with flags that were set.
func applyRenderFlags(cfg *config.Config, opts *renderOpts) {
	if opts.layout != "" {
		cfg.Layout.Engine = opts.layout
	}
	if opts.collapseDepth >= 0 {
		cfg.Render.CollapseDepth = opts.collapseDepth
	}
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be one of svg, html, json, dot, graphviz, trace, pdf, png)", f)
		}
	}
	return nil
}

// parseToggles parses the --toggle flag.
func parseToggles(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid node id %q in --toggle", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// basePath derives the base output path from the output flag and source.
// If output is empty, the source's file name without extension is used;
// sources without a usable file name fall back to the app name.
func basePath(output, uri string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if validFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}

	p := uri
	if u, err := url.Parse(uri); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		p = filepath.Base(u.Path)
	}
	name := strings.TrimSuffix(p, filepath.Ext(p))
	if base := filepath.Base(name); base == "." || base == "/" || base == "" {
		return appName
	}
	return name
}

// outputPath returns the file a format is written to.
func outputPath(base, format string) string {
	ext, ok := extensions[format]
	if !ok {
		ext = format
	}
	return base + "." + ext
}

// runRender loads the tree, replays the requested clicks and writes every
// requested format.
func (c *CLI) runRender(ctx context.Context, uri string, cfg *config.Config, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", uri)

	rec, err := c.loadRecord(ctx, uri, cfg, opts.noCache)
	if err != nil {
		return err
	}
	logger.Infof("Loaded tree: %d people", rec.Count())

	base := basePath(opts.output, uri)
	single := len(opts.formats) == 1 && opts.output != ""
	for _, format := range opts.formats {
		data, err := c.renderFormat(ctx, rec, cfg, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		logger.Debugf("Generated %s: %d bytes", format, len(data))

		path := outputPath(base, format)
		if single {
			path = opts.output
		}
		if err := writeOutput(path, data); err != nil {
			return err
		}
		logger.Infof("Generated %s", path)
	}
	return nil
}

// playback is the outcome of replaying clicks against a fresh tree.
type playback struct {
	diagram *diagram.Diagram
	frame   scene.Frame
}

// play builds a fresh tree from rec, draws it onto surface and replays the
// clicks. commit is called after every cycle that reached the surface.
func (c *CLI) play(ctx context.Context, rec *tree.Record, cfg *config.Config, surface render.Surface, toggles []int, commit func()) (*diagram.Diagram, error) {
	root, err := tree.Build(rec)
	if err != nil {
		return nil, err
	}
	d, err := diagram.New(root, surface, diagram.FromConfig(cfg, c.Logger)...)
	if err != nil {
		return nil, err
	}
	if _, err := d.Start(ctx); err != nil {
		return nil, err
	}
	commit()

	for _, id := range toggles {
		toggled, err := d.Toggle(ctx, id)
		if err != nil {
			return nil, err
		}
		if !toggled {
			c.Logger.Warnf("Node %d is a leaf, nothing to toggle", id)
			continue
		}
		commit()
	}
	return d, nil
}

// playScene replays onto a scene and keeps the last committed frame.
func (c *CLI) playScene(ctx context.Context, rec *tree.Record, cfg *config.Config, toggles []int) (*playback, error) {
	sc := scene.New()
	var frame scene.Frame
	d, err := c.play(ctx, rec, cfg, sc, toggles, func() { frame = sc.Commit() })
	if err != nil {
		return nil, err
	}
	return &playback{diagram: d, frame: frame}, nil
}

// renderFormat produces the bytes of one output format.
func (c *CLI) renderFormat(ctx context.Context, rec *tree.Record, cfg *config.Config, format string, opts *renderOpts) ([]byte, error) {
	if format == formatTrace {
		r := render.NewRecorder()
		cycle := 0
		var buf strings.Builder
		_, err := c.play(ctx, rec, cfg, r, opts.toggles, func() {
			cycle++
			fmt.Fprintf(&buf, "# cycle %d\n", cycle)
			r.WriteTo(&buf)
			r.Reset()
		})
		if err != nil {
			return nil, err
		}
		return []byte(buf.String()), nil
	}

	pb, err := c.playScene(ctx, rec, cfg, opts.toggles)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{sink.WithCanvas(cfg.Canvas)}
	if opts.static {
		svgOpts = append(svgOpts, sink.WithStatic())
	}

	switch format {
	case formatSVG:
		return sink.RenderSVG(pb.frame, svgOpts...), nil
	case formatHTML:
		title := opts.title
		if title == "" {
			title = pb.diagram.Root().Name()
		}
		return sink.RenderHTML(pb.frame, sink.HTMLOptions{Title: title, Canvas: cfg.Canvas}), nil
	case formatJSON:
		data, err := json.MarshalIndent(pb.frame, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case formatDOT:
		return []byte(nodelink.ToDOT(pb.diagram.Root(), nodelink.Options{Style: cfg.Style(), Markers: true})), nil
	case formatGraphviz:
		dot := nodelink.ToDOT(pb.diagram.Root(), nodelink.Options{Style: cfg.Style(), Markers: true})
		return nodelink.RenderSVG(ctx, dot)
	case formatPDF:
		return render.ToPDF(sink.RenderSVG(pb.frame, sink.WithCanvas(cfg.Canvas), sink.WithStatic()))
	case formatPNG:
		return render.ToPNG(sink.RenderSVG(pb.frame, sink.WithCanvas(cfg.Canvas), sink.WithStatic()), 2.0)
	}
	return nil, fmt.Errorf("unknown format: %s", format)
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
