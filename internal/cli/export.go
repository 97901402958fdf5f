package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/config"
	kio "github.com/matzehuels/kintree/pkg/io"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var output string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "export [source]",
		Short: "Write a tree document as nested JSON",
		Long: `Export loads a tree document from any supported source and writes it as
the nested JSON accepted by render, view and serve.

Use it to snapshot a MongoDB or SQLite tree into a file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runExport(cmd.Context(), cmd.OutOrStdout(), sourceURI(args, cfg), cfg, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the source cache")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, stdout io.Writer, uri string, cfg *config.Config, output string, noCache bool) error {
	rec, err := c.loadRecord(ctx, uri, cfg, noCache)
	if err != nil {
		return err
	}
	if output == "-" {
		return kio.WriteJSON(rec, stdout)
	}
	if err := kio.ExportJSON(rec, output); err != nil {
		return err
	}
	printFile(output)
	return nil
}
