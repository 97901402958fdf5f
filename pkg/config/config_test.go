package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/kintree/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Render.Duration.Duration != 750*time.Millisecond {
		t.Errorf("expected 750ms duration, got %v", cfg.Render.Duration)
	}
	if cfg.Canvas.Width != 2000 || cfg.Canvas.Height != 900 {
		t.Errorf("expected 2000x900 canvas, got %vx%v", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Layout.DepthSpacing != 180 {
		t.Errorf("expected depth spacing 180, got %v", cfg.Layout.DepthSpacing)
	}
	if cfg.Pill.MarkerWidth != 20 || cfg.Pill.CharWidth != 8 || cfg.Pill.Padding != 20 {
		t.Errorf("unexpected pill metrics %+v", cfg.Pill.Metrics)
	}
	if cfg.Pill.Highlight != "green" || cfg.Pill.Default != "gray" || cfg.Pill.Stroke != "steelblue" {
		t.Errorf("unexpected palette %+v", cfg.Pill.Palette)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	if dir := Dir(); dir != "/tmp/test-xdg/kintree" {
		t.Errorf("expected /tmp/test-xdg/kintree, got %q", dir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	if dir := Dir(); dir != filepath.Join(home, ".config", "kintree") {
		t.Errorf("unexpected dir %q", dir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Render.Duration.Duration = time.Second
	cfg.Render.CollapseDepth = 2
	cfg.Layout.Engine = "graphviz"
	cfg.Pill.Highlight = "teal"
	if err := Save(cfg, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Render.Duration.Duration != time.Second {
		t.Errorf("duration = %v", loaded.Render.Duration)
	}
	if loaded.Render.CollapseDepth != 2 || loaded.Layout.Engine != "graphviz" || loaded.Pill.Highlight != "teal" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("missing file should yield defaults, got addr %q", cfg.Server.Addr)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[render]
duration = "250ms"

[canvas]
width = 1200

[pill]
char_width = 7.5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Duration.Duration != 250*time.Millisecond {
		t.Errorf("duration = %v", cfg.Render.Duration)
	}
	if cfg.Canvas.Width != 1200 || cfg.Canvas.Height != 900 {
		t.Errorf("canvas = %+v", cfg.Canvas)
	}
	if cfg.Pill.CharWidth != 7.5 || cfg.Pill.MarkerWidth != 20 {
		t.Errorf("pill = %+v", cfg.Pill.Metrics)
	}

	opts := cfg.LayoutOptions()
	if opts.Width != 1200-180 || opts.Height != 810 {
		t.Errorf("layout extent = %vx%v", opts.Width, opts.Height)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[render\n"},
		{"duration", "[render]\nduration = \"soon\"\n"},
		{"engine", "[layout]\nengine = \"radial\"\n"},
		{"cache", "[cache]\nbackend = \"memcached\"\n"},
		{"canvas", "[canvas]\nwidth = 100\n"},
		{"gaps", "[layout]\ncousin_gap = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
		})
	}
}
