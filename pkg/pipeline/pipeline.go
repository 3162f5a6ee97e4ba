// Package pipeline provides the core rendering pipeline for Chordial.
//
// This package implements the complete build → layout → render pipeline
// that can be used by the CLI and the server. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Derive the weight matrix from a relationship dataset
//  2. Layout: Compute angular positions for groups and chords
//  3. Render: Generate output in various formats (SVG, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    DataPath: "trade.json",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Build only
//	m, err := runner.BuildMatrix(ctx, dataset, opts)
//
//	// Layout with an existing matrix
//	l, err := runner.ComputeLayout(ctx, m, opts)
//
//	// Render with an existing dataset and layout
//	artifacts, err := runner.Render(ctx, dataset, l, opts)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chordial/chordial/pkg/cache"
	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/errors"
	"github.com/chordial/chordial/pkg/graph"
	"github.com/chordial/chordial/pkg/matrix"
	"github.com/chordial/chordial/pkg/render/chord/layout"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options. Exactly one of DataPath or Dataset must be set.
	DataPath string         `json:"data_path,omitempty"`
	Dataset  *graph.Dataset `json:"dataset,omitempty"`

	// Style options. Config, when set, is a complete configuration and
	// wins over ConfigPath. ConfigPath names a TOML file applied over
	// the defaults.
	ConfigPath string         `json:"config_path,omitempty"`
	Config     *config.Config `json:"config,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// resolved carries the merged style config once validated.
	resolved config.Config `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the loaded relationship dataset.
	Dataset graph.Dataset

	// DatasetHash is the content hash of the dataset.
	DatasetHash string

	// Matrix is the built weight matrix.
	Matrix matrix.Matrix

	// Layout contains the angular layout (groups and chords).
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GroupCount int
	ChordCount int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the matrix came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks required fields for the build stage and
// resolves the style configuration.
func (o *Options) ValidateForBuild() error {
	if o.DataPath == "" && o.Dataset == nil {
		return errors.New(errors.ErrCodeInvalidInput, "data path or inline dataset is required")
	}

	cfg, err := o.resolveConfig()
	if err != nil {
		return err
	}
	o.resolved = cfg

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// StyleConfig returns the merged style configuration. Valid only after
// one of the validation methods has run.
func (o *Options) StyleConfig() config.Config {
	if o.resolved == (config.Config{}) {
		return config.Default().Normalize()
	}
	return o.resolved
}

// resolveConfig merges defaults, the TOML file, and the inline config
// into one normalized, validated configuration.
func (o *Options) resolveConfig() (config.Config, error) {
	cfg := config.Default()
	if o.Config != nil {
		cfg = *o.Config
	} else if o.ConfigPath != "" {
		loaded, err := config.LoadFile(o.ConfigPath, cfg)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// MatrixKeyOpts returns cache key options for the build stage.
func (o *Options) MatrixKeyOpts() cache.MatrixKeyOpts {
	cfg := o.StyleConfig()
	return cache.MatrixKeyOpts{
		Detailed: cfg.DetailedView,
		ShowAll:  cfg.ShowAllNodes,
	}
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	cfg := o.StyleConfig()
	return cache.LayoutKeyOpts{
		PadAngle:         cfg.PadAngle,
		EvenDistribution: cfg.EvenDistribution,
	}
}

// ArtifactKeyOpts returns cache key options for the render stage.
// The full config is hashed so any visual tunable invalidates artifacts.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	data, _ := json.Marshal(o.StyleConfig())
	return cache.ArtifactKeyOpts{
		Format:     format,
		ConfigHash: cache.Hash(data),
	}
}
