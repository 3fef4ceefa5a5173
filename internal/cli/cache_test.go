package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/geotrig/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	c := New(os.Stderr, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(base, "geotrig"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	c.Config.Cache.Dir = "/srv/geotrig-cache"
	dir, err = c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/srv/geotrig-cache" {
		t.Errorf("configured cacheDir() = %q", dir)
	}
}

func TestCachePathCommand(t *testing.T) {
	env := isolate(t)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(env, "cache", "geotrig"); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	env := isolate(t)

	// Clearing a cache that was never created is not an error.
	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear (empty): %v", err)
	}

	fc, err := cache.NewFileCache(filepath.Join(env, "cache", "geotrig"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"one", "two"} {
		if err := fc.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "one"); ok {
		t.Error("entry survived cache clear")
	}
}
