package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/sankey/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	custom := filepath.Join(t.TempDir(), "xdg")

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"home fallback", "", filepath.Join(home, ".cache", appName)},
		{"XDG_CACHE_HOME", custom, filepath.Join(custom, appName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestNewCache_Backends(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(os.Stderr, LogInfo)
	ctx := t.Context()

	null, err := c.newCache(ctx, cacheFlags{noCache: true}.apply(config.Cache{Dir: t.TempDir()}))
	if err != nil {
		t.Fatalf("newCache(disabled) error: %v", err)
	}
	if _, ok := null.(interface{ Dir() string }); ok {
		t.Error("disabled cache should not be a file cache")
	}

	dir := filepath.Join(t.TempDir(), "layouts")
	fc, err := c.newCache(ctx, config.Cache{Dir: dir})
	if err != nil {
		t.Fatalf("newCache(dir) error: %v", err)
	}
	if d, ok := fc.(interface{ Dir() string }); !ok || d.Dir() != dir {
		t.Errorf("newCache(dir) = %T, want file cache at %s", fc, dir)
	}
}

func TestTrimBase(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"doses.csv", "doses"},
		{"out/flows.graph.json", "out/flows"},
		{"flows.layout.json", "flows"},
		{"flows.json", "flows"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := trimBase(tt.path); got != tt.want {
			t.Errorf("trimBase(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
