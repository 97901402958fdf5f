package diagram

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/config"
)

// FromConfig translates a loaded configuration into diagram options.
func FromConfig(cfg *config.Config, logger *log.Logger) []Option {
	opts := []Option{
		WithLayout(cfg.Layout.Engine, cfg.LayoutOptions()),
		WithDuration(cfg.Render.Duration.Duration),
		WithStyle(cfg.Style()),
		WithCollapseDepth(cfg.Render.CollapseDepth),
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	return opts
}
