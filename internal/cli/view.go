package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/config"
	"github.com/matzehuels/kintree/pkg/diagram"
	"github.com/matzehuels/kintree/pkg/scene"
)

// viewOpts holds the command-line flags for the view command.
type viewOpts struct {
	collapseDepth int
	noCache       bool
}

// viewCommand creates the terminal viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	opts := viewOpts{collapseDepth: -1}

	cmd := &cobra.Command{
		Use:   "view [source]",
		Short: "Browse the tree in the terminal",
		Long: `View draws the diagram in the terminal. Move between people with the arrow
keys and press enter or space to fold or unfold a branch; the tree animates
to its new layout just as it does in the browser.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if opts.collapseDepth >= 0 {
				cfg.Render.CollapseDepth = opts.collapseDepth
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runView(cmd.Context(), sourceURI(args, cfg), cfg, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.collapseDepth, "collapse-depth", opts.collapseDepth, "collapse nodes at this depth on load (0 shows everything)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the source cache")

	return cmd
}

func (c *CLI) runView(ctx context.Context, uri string, cfg *config.Config, opts *viewOpts) error {
	root, err := c.buildTree(ctx, uri, cfg, opts.noCache)
	if err != nil {
		return err
	}

	// The TUI owns the terminal; only warnings may interrupt it.
	c.SetLogLevel(LogWarn)

	sc := scene.New()
	d, err := diagram.New(root, sc, diagram.FromConfig(cfg, c.Logger)...)
	if err != nil {
		return err
	}
	if _, err := d.Start(ctx); err != nil {
		return err
	}

	_, extent := cfg.Canvas.Inner()
	m := NewTreeModel(ctx, d, sc, sc.Commit(), extent)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if tm, ok := final.(TreeModel); ok && tm.Err() != nil {
		return tm.Err()
	}
	return nil
}
