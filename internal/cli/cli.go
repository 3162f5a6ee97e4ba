package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chordial/chordial/pkg/buildinfo"
	"github.com/chordial/chordial/pkg/cache"
	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "chordial"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
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
		Use:          "chordial",
		Short:        "Chordial renders relationship datasets as chord diagrams",
		Long:         `Chordial turns node/link datasets into circular chord diagrams: weighted arcs around a circle with ribbons between them, decorated with particles or shapes, exported as SVG, PNG, or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/chordial/).
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
// Style Flags
// =============================================================================

// styleFlags collects the configuration overrides shared by the render,
// layout, animate, and serve commands.
type styleFlags struct {
	configPath  string
	width       float64
	height      float64
	detailed    bool
	showAll     bool
	even        bool
	particles   bool
	shapes      bool
	accelerated bool
	seed        int64
	noLabels    bool
}

// register binds the style flags to cmd.
func (f *styleFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "TOML style configuration file")
	flags.Float64Var(&f.width, "width", 0, "canvas width in pixels")
	flags.Float64Var(&f.height, "height", 0, "canvas height in pixels")
	flags.BoolVar(&f.detailed, "detailed", false, "per-node detailed view instead of category view")
	flags.BoolVar(&f.showAll, "show-all", true, "keep disconnected nodes visible")
	flags.BoolVar(&f.even, "even", false, "distribute groups evenly around the circle")
	flags.BoolVar(&f.particles, "particles", false, "particle decoration along ribbons")
	flags.BoolVar(&f.shapes, "shapes", false, "geometric shape decoration along ribbons")
	flags.BoolVar(&f.accelerated, "accelerated", false, "raster decoration backend")
	flags.Int64Var(&f.seed, "seed", 0, "particle placement seed")
	flags.BoolVar(&f.noLabels, "no-labels", false, "hide group labels")
}

// resolve merges the configuration file and explicit flag overrides over
// the defaults. Only flags the user actually set override file values.
func (f *styleFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.LoadFile(f.configPath, cfg)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	set := cmd.Flags().Changed
	if set("width") {
		cfg.Width = f.width
	}
	if set("height") {
		cfg.Height = f.height
	}
	if set("detailed") {
		cfg.DetailedView = f.detailed
	}
	if set("show-all") {
		cfg.ShowAllNodes = f.showAll
	}
	if set("even") {
		cfg.EvenDistribution = f.even
	}
	if set("particles") {
		cfg.ParticleMode = f.particles
	}
	if set("shapes") {
		cfg.ShapesEnabled = f.shapes
	}
	if set("accelerated") {
		cfg.Accelerated = f.accelerated
	}
	if set("seed") {
		cfg.ParticleSeed = f.seed
	}
	if set("no-labels") {
		cfg.LabelsEnabled = !f.noLabels
	}

	cfg = cfg.Normalize()
	return cfg, cfg.Validate()
}

// =============================================================================
// Format Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	formats := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}
