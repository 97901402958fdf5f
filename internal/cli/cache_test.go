package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".cache", appName)
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		c, err := newCache(ctx, config.CacheConfig{Backend: cacheNone})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := c.(cache.NullCache); !ok {
			t.Errorf("got %T, want cache.NullCache", c)
		}
	})

	t.Run("file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "docs")
		c, err := newCache(ctx, config.CacheConfig{Backend: "file", Dir: dir})
		if err != nil {
			t.Fatal(err)
		}
		fc, ok := c.(*cache.FileCache)
		if !ok {
			t.Fatalf("got %T, want *cache.FileCache", c)
		}
		if fc.Dir() != dir {
			t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
		}
	})

	t.Run("redis without url", func(t *testing.T) {
		if _, err := newCache(ctx, config.CacheConfig{Backend: "redis"}); err == nil {
			t.Error("expected error for redis backend without url")
		}
	})
}
