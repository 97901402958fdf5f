package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/internal/server"
	"github.com/matzehuels/kintree/pkg/config"
	"github.com/matzehuels/kintree/pkg/observability"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string
	title         string
	collapseDepth int
	noCache       bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{collapseDepth: -1}

	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Serve the interactive diagram over HTTP",
		Long: `Serve loads a tree document once and serves it as an interactive page.

Every page load gets its own copy of the tree, so clicks in one browser tab
never affect another. Prometheus metrics are exposed on /metrics.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if opts.addr != "" {
				cfg.Server.Addr = opts.addr
			}
			if opts.collapseDepth >= 0 {
				cfg.Render.CollapseDepth = opts.collapseDepth
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), sourceURI(args, cfg), cfg, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, localhost:8080)")
	cmd.Flags().StringVar(&opts.title, "title", "", "page title (default: root name)")
	cmd.Flags().IntVar(&opts.collapseDepth, "collapse-depth", opts.collapseDepth, "collapse nodes at this depth on load (0 shows everything)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the source cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, uri string, cfg *config.Config, opts *serveOpts) error {
	metrics := server.NewMetrics()
	observability.SetDiagramHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetHTTPHooks(metrics)
	defer observability.Reset()

	rec, err := c.loadRecord(ctx, uri, cfg, opts.noCache)
	if err != nil {
		return err
	}

	srv := server.New(rec, server.Options{
		Config:  cfg,
		Logger:  c.Logger,
		Metrics: metrics,
		Title:   opts.title,
	})

	printSuccess("Serving %s", StyleHighlight.Render(uri))
	printDetail("Open http://%s", cfg.Server.Addr)
	return srv.ListenAndServe(ctx)
}
