// Package config defines the render configuration for chord diagrams.
//
// Config is a flat struct of comparable scalars, replaced wholesale on
// every update. Renderers compare the pending config against the last
// rendered one with ==; any difference marks the scene dirty. There is no
// per-field change tracking.
//
// TOML files carry partial configs: decoding applies only the fields the
// file sets, everything else keeps its prior value.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/chordial/chordial/pkg/errors"
)

// Width anchor positions for variable-width ribbons.
const (
	PositionStart  = "start"
	PositionMiddle = "middle"
	PositionEnd    = "end"
	PositionCustom = "custom"
)

// Particle distribution names.
const (
	DistributionUniform  = "uniform"
	DistributionRandom   = "random"
	DistributionGaussian = "gaussian"
)

// Shape type names.
const (
	ShapeCircle  = "circle"
	ShapeSquare  = "square"
	ShapeDiamond = "diamond"
)

// Config holds every tunable of the diagram. All fields are comparable
// scalars so two configs can be compared with ==. The toml tags drive
// config files, the json tags the HTTP config endpoint; both use the
// same snake_case names.
type Config struct {
	// Canvas
	Width      float64 `toml:"width" json:"width"`
	Height     float64 `toml:"height" json:"height"`
	Background string  `toml:"background" json:"background"`

	// Geometry
	InnerRadiusRatio float64 `toml:"inner_radius_ratio" json:"inner_radius_ratio"`
	PadAngle         float64 `toml:"pad_angle" json:"pad_angle"`
	LabelsEnabled    bool    `toml:"labels_enabled" json:"labels_enabled"`

	// View
	DetailedView       bool    `toml:"detailed_view" json:"detailed_view"`
	ShowAllNodes       bool    `toml:"show_all_nodes" json:"show_all_nodes"`
	EvenDistribution   bool    `toml:"even_distribution" json:"even_distribution"`
	Accelerated        bool    `toml:"accelerated" json:"accelerated"`
	AcceleratedQuality float64 `toml:"accelerated_quality" json:"accelerated_quality"`

	// Ribbons
	StrokeWidth      float64 `toml:"stroke_width" json:"stroke_width"`
	StrokeOpacity    float64 `toml:"stroke_opacity" json:"stroke_opacity"`
	ArcOpacity       float64 `toml:"arc_opacity" json:"arc_opacity"`
	RibbonOpacity    float64 `toml:"ribbon_opacity" json:"ribbon_opacity"`
	ColoredRibbons   bool    `toml:"colored_ribbons" json:"colored_ribbons"`
	RibbonFill       string  `toml:"ribbon_fill" json:"ribbon_fill"`
	SourceColor      string  `toml:"source_color" json:"source_color"`
	SourceOpacity    float64 `toml:"source_opacity" json:"source_opacity"`
	TargetColor      string  `toml:"target_color" json:"target_color"`
	TargetOpacity    float64 `toml:"target_opacity" json:"target_opacity"`
	DirectionalStyle bool    `toml:"directional_style" json:"directional_style"`

	// Variable width
	WidthVariation            float64 `toml:"width_variation" json:"width_variation"`
	WidthPosition             string  `toml:"width_position" json:"width_position"`
	WidthCustomPosition       float64 `toml:"width_custom_position" json:"width_custom_position"`
	StrokeWidthVariation      float64 `toml:"stroke_width_variation" json:"stroke_width_variation"`
	StrokeWidthPosition       string  `toml:"stroke_width_position" json:"stroke_width_position"`
	StrokeWidthCustomPosition float64 `toml:"stroke_width_custom_position" json:"stroke_width_custom_position"`

	// Shapes
	ShapesEnabled    bool    `toml:"shapes_enabled" json:"shapes_enabled"`
	ShapeType        string  `toml:"shape_type" json:"shape_type"`
	ShapeSize        float64 `toml:"shape_size" json:"shape_size"`
	ShapeSpacing     float64 `toml:"shape_spacing" json:"shape_spacing"`
	ShapeFill        string  `toml:"shape_fill" json:"shape_fill"`
	ShapeStroke      string  `toml:"shape_stroke" json:"shape_stroke"`
	ShapeStrokeWidth float64 `toml:"shape_stroke_width" json:"shape_stroke_width"`

	// Particles
	ParticleMode           bool    `toml:"particle_mode" json:"particle_mode"`
	ParticleDensity        float64 `toml:"particle_density" json:"particle_density"`
	ParticleSize           float64 `toml:"particle_size" json:"particle_size"`
	ParticleSizeVariation  float64 `toml:"particle_size_variation" json:"particle_size_variation"`
	ParticleBlur           float64 `toml:"particle_blur" json:"particle_blur"`
	ParticleDistribution   string  `toml:"particle_distribution" json:"particle_distribution"`
	ParticleColor          string  `toml:"particle_color" json:"particle_color"`
	ParticleOpacity        float64 `toml:"particle_opacity" json:"particle_opacity"`
	ParticleMovement       bool    `toml:"particle_movement" json:"particle_movement"`
	ParticleMovementAmount float64 `toml:"particle_movement_amount" json:"particle_movement_amount"`
	ParticleSeed           int64   `toml:"particle_seed" json:"particle_seed"`

	// Minimal connection overrides
	MinimalParticleColor         string  `toml:"minimal_particle_color" json:"minimal_particle_color"`
	MinimalParticleOpacity       float64 `toml:"minimal_particle_opacity" json:"minimal_particle_opacity"`
	MinimalParticleSize          float64 `toml:"minimal_particle_size" json:"minimal_particle_size"`
	MinimalParticleDensityFactor float64 `toml:"minimal_particle_density_factor" json:"minimal_particle_density_factor"`

	// Caps
	MaxParticlesPerChord     int `toml:"max_particles_per_chord" json:"max_particles_per_chord"`
	MaxParticlesDetailedView int `toml:"max_particles_detailed_view" json:"max_particles_detailed_view"`
	MaxShapesDetailedView    int `toml:"max_shapes_detailed_view" json:"max_shapes_detailed_view"`

	// Animation
	Animate            bool    `toml:"animate" json:"animate"`
	AnimationSpeed     float64 `toml:"animation_speed" json:"animation_speed"`
	FadeTransition     bool    `toml:"fade_transition" json:"fade_transition"`
	TransitionDuration float64 `toml:"transition_duration" json:"transition_duration"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Width:      900,
		Height:     900,
		Background: "#16213e",

		InnerRadiusRatio: 0.9,
		PadAngle:         0.05,
		LabelsEnabled:    true,

		ShowAllNodes:       true,
		AcceleratedQuality: 1,

		StrokeWidth:      1,
		StrokeOpacity:    0.8,
		ArcOpacity:       0.9,
		RibbonOpacity:    0.7,
		ColoredRibbons:   true,
		SourceOpacity:    0.8,
		TargetOpacity:    0.8,
		DirectionalStyle: true,

		WidthVariation:            1,
		WidthPosition:             PositionMiddle,
		WidthCustomPosition:       0.5,
		StrokeWidthVariation:      1,
		StrokeWidthPosition:       PositionMiddle,
		StrokeWidthCustomPosition: 0.5,

		ShapeType:        ShapeCircle,
		ShapeSize:        3,
		ShapeSpacing:     30,
		ShapeStrokeWidth: 0.5,

		ParticleDensity:        50,
		ParticleSize:           2,
		ParticleSizeVariation:  0.5,
		ParticleDistribution:   DistributionUniform,
		ParticleOpacity:        0.7,
		ParticleMovementAmount: 1,
		ParticleSeed:           1,

		MinimalParticleOpacity:       0.3,
		MinimalParticleSize:          1.5,
		MinimalParticleDensityFactor: 0.3,

		MaxParticlesPerChord:     500,
		MaxParticlesDetailedView: 150,
		MaxShapesDetailedView:    60,

		AnimationSpeed:     1,
		FadeTransition:     true,
		TransitionDuration: 1000,
	}
}

// Normalize clamps numeric fields to their documented ranges and returns
// the result. Out-of-range values never fail a render.
func (c Config) Normalize() Config {
	c.Width = clampMin(c.Width, 100)
	c.Height = clampMin(c.Height, 100)
	c.InnerRadiusRatio = clamp(c.InnerRadiusRatio, 0.1, 1)
	c.PadAngle = clamp(c.PadAngle, 0, 0.5)
	c.AcceleratedQuality = clamp(c.AcceleratedQuality, 1, 4)

	c.StrokeWidth = clampMin(c.StrokeWidth, 0)
	c.StrokeOpacity = clamp(c.StrokeOpacity, 0, 1)
	c.ArcOpacity = clamp(c.ArcOpacity, 0, 1)
	c.RibbonOpacity = clamp(c.RibbonOpacity, 0, 1)
	c.SourceOpacity = clamp(c.SourceOpacity, 0, 1)
	c.TargetOpacity = clamp(c.TargetOpacity, 0, 1)

	c.WidthVariation = clamp(c.WidthVariation, 0.1, 10)
	c.WidthCustomPosition = clamp(c.WidthCustomPosition, 0, 1)
	c.StrokeWidthVariation = clamp(c.StrokeWidthVariation, 0.1, 10)
	c.StrokeWidthCustomPosition = clamp(c.StrokeWidthCustomPosition, 0, 1)

	c.ShapeSize = clampMin(c.ShapeSize, 0.1)
	c.ShapeSpacing = clampMin(c.ShapeSpacing, 1)
	c.ShapeStrokeWidth = clampMin(c.ShapeStrokeWidth, 0)

	c.ParticleDensity = clampMin(c.ParticleDensity, 0)
	c.ParticleSize = clampMin(c.ParticleSize, 0.1)
	c.ParticleSizeVariation = clamp(c.ParticleSizeVariation, 0, 1)
	c.ParticleBlur = clampMin(c.ParticleBlur, 0)
	c.ParticleOpacity = clamp(c.ParticleOpacity, 0, 1)
	c.ParticleMovementAmount = clamp(c.ParticleMovementAmount, 0, 10)

	c.MinimalParticleOpacity = clamp(c.MinimalParticleOpacity, 0, 1)
	c.MinimalParticleSize = clampMin(c.MinimalParticleSize, 0.1)
	c.MinimalParticleDensityFactor = clamp(c.MinimalParticleDensityFactor, 0, 1)

	c.MaxParticlesPerChord = clampIntMin(c.MaxParticlesPerChord, 5)
	c.MaxParticlesDetailedView = clampIntMin(c.MaxParticlesDetailedView, 5)
	c.MaxShapesDetailedView = clampIntMin(c.MaxShapesDetailedView, 1)

	c.AnimationSpeed = clamp(c.AnimationSpeed, 0.1, 10)
	c.TransitionDuration = clampMin(c.TransitionDuration, 0)

	return c
}

// Validate checks enum and color fields. Numeric ranges are handled by
// Normalize and never fail validation.
func (c Config) Validate() error {
	if err := errors.ValidateWidthAnchor(c.WidthPosition); err != nil {
		return err
	}
	if err := errors.ValidateWidthAnchor(c.StrokeWidthPosition); err != nil {
		return err
	}
	if err := errors.ValidateDistribution(c.ParticleDistribution); err != nil {
		return err
	}
	if err := errors.ValidateShapeType(c.ShapeType); err != nil {
		return err
	}
	for _, col := range []string{
		c.Background, c.RibbonFill, c.SourceColor, c.TargetColor,
		c.ShapeFill, c.ShapeStroke, c.ParticleColor, c.MinimalParticleColor,
	} {
		if err := errors.ValidateHexColor(col); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile applies the fields set in a TOML file on top of base.
// Fields absent from the file keep their base values.
func LoadFile(path string, base Config) (Config, error) {
	cfg := base
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// Load applies TOML data on top of base, with LoadFile semantics.
func Load(data string, base Config) (Config, error) {
	cfg := base
	if _, err := toml.Decode(data, &cfg); err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// WriteFile writes the full config as TOML.
func WriteFile(path string, c Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampMin(v, lo float64) float64 {
	if v < lo {
		return lo
	}
	return v
}

func clampIntMin(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}
