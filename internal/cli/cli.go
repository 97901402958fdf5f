// Package cli implements the kintree command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/buildinfo"
	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/config"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/source"
	"github.com/matzehuels/kintree/pkg/tree"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "kintree"

	// cacheNone disables caching when used as the cache backend.
	cacheNone = "none"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Kintree draws family trees as collapsible pill diagrams",
		Long:         `Kintree renders a nested family or organisation tree as pill-shaped labels joined by curved links. Click a pill to fold or unfold its branch; the diagram re-lays itself out and animates to the new shape.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Sources
// =============================================================================

// loadConfig reads the config file selected by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// sourceURI picks the positional argument over the configured default.
func sourceURI(args []string, cfg *config.Config) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Source.URI
}

// loadRecord fetches the tree document at uri. Remote sources go through the
// configured cache unless noCache is set.
func (c *CLI) loadRecord(ctx context.Context, uri string, cfg *config.Config, noCache bool) (*tree.Record, error) {
	if noCache {
		cfg.Cache.Backend = cacheNone
	}
	store, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	keyer := cache.NewDefaultKeyer()
	if cfg.Cache.Namespace != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Cache.Namespace+":")
	}

	src, err := source.Open(uri, source.Options{
		Timeout: cfg.Source.Timeout.Duration,
		Retries: cfg.Source.Retries,
		Cache:   store,
		Keyer:   keyer,
		TTL:     cfg.Cache.TTL.Duration,
		Logger:  c.Logger,
	})
	if err != nil {
		return nil, err
	}

	prog := newProgress(c.Logger)
	var spin *Spinner
	if source.Scheme(src) != source.SchemeFile {
		spin = newSpinnerWithContext(ctx, "Loading "+src.String())
		spin.Start()
	}
	rec, err := src.Load(ctx)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return nil, err
	}
	prog.done("Loaded " + src.String())
	return rec, nil
}

// buildTree loads and builds a fresh tree.
func (c *CLI) buildTree(ctx context.Context, uri string, cfg *config.Config, noCache bool) (*tree.Node, error) {
	rec, err := c.loadRecord(ctx, uri, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return tree.Build(rec)
}

// =============================================================================
// Cache Factory
// =============================================================================

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case cacheNone:
		return cache.NewNullCache(), nil
	case "redis":
		if cfg.RedisURL == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
		}
		return cache.NewRedisCache(ctx, cfg.RedisURL)
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/kintree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	return strings.Split(s, ",")
}
