package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chordial/chordial/pkg/cache"
)

func TestCacheCommandSubcommands(t *testing.T) {
	c := testCLI()
	cmd := c.cacheCommand()

	want := map[string]bool{"info": false, "clear": false, "path": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("cache command missing subcommand %q", name)
		}
	}
}

func TestCacheClear(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}

	// Seed a couple of entries the way the pipeline would.
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()
	if err := fc.Set(ctx, "matrix:abc", []byte("one"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := fc.Set(ctx, "layout:def", []byte("two"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	fc.Close()

	c := testCLI()
	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	// Directory may remain but must hold no files.
	var files int
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files++
		}
		return nil
	})
	if files != 0 {
		t.Errorf("cache still holds %d files after clear", files)
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", filepath.Join(t.TempDir(), "nope"))

	c := testCLI()
	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("clearing a missing cache should succeed, got %v", err)
	}
}

func TestCacheInfo(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := testCLI()
	cmd := c.cacheInfoCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache info: %v", err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
