package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/chordial/chordial/pkg/graph"
)

// testCLI returns a CLI that logs nowhere.
func testCLI() *CLI {
	return New(io.Discard, LogInfo)
}

// testDataset is a small dataset with three categories and one
// disconnected node.
func testDataset() graph.Dataset {
	return graph.Dataset{
		Nodes: []graph.Node{
			{ID: "gold", Category: "metals"},
			{ID: "silver", Category: "metals"},
			{ID: "wheat", Category: "grains"},
			{ID: "oil", Category: "fuels"},
		},
		Links: []graph.Link{
			{Source: "gold", Target: "wheat", Value: 4},
			{Source: "silver", Target: "oil", Value: 2},
			{Source: "wheat", Target: "oil", Value: 1},
		},
	}
}

// writeTestDataset writes the test dataset to a temp file and returns
// its path.
func writeTestDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := graph.WriteDatasetFile(testDataset(), path); err != nil {
		t.Fatalf("WriteDatasetFile: %v", err)
	}
	return path
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	if dir == "" {
		t.Error("cacheDir() returned empty string")
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}

	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single", "png", []string{"png"}},
		{"multiple", "svg,png,json", []string{"svg", "png", "json"}},
		{"spaces trimmed", "svg, png", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	root := testCLI().RootCommand()

	want := []string{"render", "layout", "animate", "serve", "config", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func styleTestCommand() (*cobra.Command, *styleFlags) {
	cmd := &cobra.Command{Use: "test"}
	style := &styleFlags{}
	style.register(cmd)
	return cmd, style
}

func TestStyleFlagsDefaults(t *testing.T) {
	cmd, style := styleTestCommand()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg, err := style.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if cfg.Width != 900 || cfg.Height != 900 {
		t.Errorf("default canvas = %gx%g, want 900x900", cfg.Width, cfg.Height)
	}
	if cfg.ParticleMode {
		t.Error("particles should default to off")
	}
	if !cfg.ShowAllNodes {
		t.Error("show-all should default to on")
	}
}

func TestStyleFlagsOverride(t *testing.T) {
	cmd, style := styleTestCommand()
	args := []string{"--width", "500", "--particles", "--seed", "7", "--no-labels"}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg, err := style.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if cfg.Width != 500 {
		t.Errorf("Width = %g, want 500", cfg.Width)
	}
	if cfg.Height != 900 {
		t.Errorf("Height = %g, want default 900", cfg.Height)
	}
	if !cfg.ParticleMode {
		t.Error("ParticleMode should be on")
	}
	if cfg.ParticleSeed != 7 {
		t.Errorf("ParticleSeed = %d, want 7", cfg.ParticleSeed)
	}
	if cfg.LabelsEnabled {
		t.Error("LabelsEnabled should be off with --no-labels")
	}
}

func TestStyleFlagsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.toml")
	toml := "width = 700.0\nparticle_mode = true\n"
	if err := os.WriteFile(path, []byte(toml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd, style := styleTestCommand()
	if err := cmd.ParseFlags([]string{"--config", path, "--height", "400"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg, err := style.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// File value survives, explicit flag wins, untouched field defaults.
	if cfg.Width != 700 {
		t.Errorf("Width = %g, want 700 from file", cfg.Width)
	}
	if cfg.Height != 400 {
		t.Errorf("Height = %g, want 400 from flag", cfg.Height)
	}
	if !cfg.ParticleMode {
		t.Error("ParticleMode should come from the file")
	}
	if cfg.Background == "" {
		t.Error("Background should keep its default")
	}
}

func TestStyleFlagsBadConfigFile(t *testing.T) {
	cmd, style := styleTestCommand()
	if err := cmd.ParseFlags([]string{"--config", "/nonexistent/style.toml"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	if _, err := style.resolve(cmd); err == nil {
		t.Error("resolve should fail for a missing config file")
	}
}
