// Package config loads kintree settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/kintree/config.toml (falling back to
// ~/.config). A missing file yields [Default]; every key is optional and
// unset keys keep their default. Command-line flags override the file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/pill"
	"github.com/matzehuels/kintree/pkg/render"
	"github.com/matzehuels/kintree/pkg/render/sink"
)

// Config holds kintree configuration.
type Config struct {
	Source SourceConfig `toml:"source"`
	Canvas sink.Canvas  `toml:"canvas"`
	Render RenderConfig `toml:"render"`
	Pill   PillConfig   `toml:"pill"`
	Layout LayoutConfig `toml:"layout"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// SourceConfig controls data acquisition.
type SourceConfig struct {
	URI     string   `toml:"uri"`
	Timeout Duration `toml:"timeout"`
	Retries int      `toml:"retries"`
}

// RenderConfig controls the render cycle.
type RenderConfig struct {
	Duration Duration `toml:"duration"`
	// CollapseDepth collapses every node at this depth or deeper on load.
	// Zero shows the whole tree.
	CollapseDepth int `toml:"collapse_depth"`
}

// PillConfig controls pill geometry and colors.
type PillConfig struct {
	pill.Metrics
	pill.Palette
}

// LayoutConfig selects and tunes the layout engine.
type LayoutConfig struct {
	Engine       string  `toml:"engine"` // "tidy", "graphviz"
	DepthSpacing float64 `toml:"depth_spacing"`
	SiblingGap   float64 `toml:"sibling_gap"`
	CousinGap    float64 `toml:"cousin_gap"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr     string   `toml:"addr"`
	ViewTTL  Duration `toml:"view_ttl"`
	MaxViews int      `toml:"max_views"`
}

// CacheConfig controls the source cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // "file", "redis", "none"
	Dir       string   `toml:"dir"`
	RedisURL  string   `toml:"redis_url"`
	TTL       Duration `toml:"ttl"`
	// Namespace prefixes every key, for caches shared between deployments.
	Namespace string `toml:"namespace"`
}

// Duration is a time.Duration written as a string such as "750ms".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{URI: "data.json", Timeout: Duration{30 * time.Second}, Retries: 3},
		Canvas: sink.DefaultCanvas(),
		Render: RenderConfig{Duration: Duration{render.DefaultDuration}},
		Pill:   PillConfig{Metrics: pill.DefaultMetrics(), Palette: pill.DefaultPalette()},
		Layout: LayoutConfig{
			Engine:       layout.EngineTidy,
			DepthSpacing: layout.DefaultDepthSpacing,
			SiblingGap:   1,
			CousinGap:    1.5,
		},
		Server: ServerConfig{Addr: "localhost:8080", ViewTTL: Duration{30 * time.Minute}, MaxViews: 1000},
		Cache:  CacheConfig{Backend: "file", TTL: Duration{24 * time.Hour}},
	}
}

// Dir returns the kintree config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "kintree")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path, or at [Path] when path is empty. A
// missing file returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, or to [Path] when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate rejects settings the renderer cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.Canvas.Width <= c.Canvas.Left+c.Canvas.Right:
		return errors.New(errors.ErrCodeInvalidConfig, "canvas width %.0f leaves no room inside the margins", c.Canvas.Width)
	case c.Canvas.Height <= c.Canvas.Top+c.Canvas.Bottom:
		return errors.New(errors.ErrCodeInvalidConfig, "canvas height %.0f leaves no room inside the margins", c.Canvas.Height)
	case c.Render.Duration.Duration < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "negative render duration")
	case c.Render.CollapseDepth < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "negative collapse depth")
	case c.Pill.Height <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "pill height must be positive")
	case c.Layout.SiblingGap <= 0 || c.Layout.CousinGap <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout gaps must be positive")
	}
	if _, ok := layout.New(c.Layout.Engine, layout.Options{}); !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown layout engine %q", c.Layout.Engine)
	}
	switch c.Cache.Backend {
	case "", "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// LayoutOptions returns the layout extent derived from the canvas.
func (c *Config) LayoutOptions() layout.Options {
	w, h := c.Canvas.Inner()
	return layout.Options{
		Height:       h,
		Width:        w,
		DepthSpacing: c.Layout.DepthSpacing,
		Separation:   layout.Gaps(c.Layout.SiblingGap, c.Layout.CousinGap),
	}
}

// Style returns the pill style.
func (c *Config) Style() pill.Style {
	return pill.Style{Metrics: c.Pill.Metrics, Palette: c.Pill.Palette}
}
