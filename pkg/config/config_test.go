package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default() should validate, got %v", err)
	}
	if c != c.Normalize() {
		t.Error("Default() should already be normalized")
	}
}

func TestConfigComparable(t *testing.T) {
	a := Default()
	b := Default()
	if a != b {
		t.Fatal("identical configs should compare equal")
	}

	b.ParticleDensity = 80
	if a == b {
		t.Fatal("differing configs should compare unequal")
	}
}

func TestNormalizeClamps(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		check func(Config) bool
	}{
		{
			name:  "opacity above one",
			mut:   func(c *Config) { c.RibbonOpacity = 3 },
			check: func(c Config) bool { return c.RibbonOpacity == 1 },
		},
		{
			name:  "negative opacity",
			mut:   func(c *Config) { c.StrokeOpacity = -1 },
			check: func(c Config) bool { return c.StrokeOpacity == 0 },
		},
		{
			name:  "quality above range",
			mut:   func(c *Config) { c.AcceleratedQuality = 9 },
			check: func(c Config) bool { return c.AcceleratedQuality == 4 },
		},
		{
			name:  "custom position above one",
			mut:   func(c *Config) { c.WidthCustomPosition = 1.5 },
			check: func(c Config) bool { return c.WidthCustomPosition == 1 },
		},
		{
			name:  "particle cap below floor",
			mut:   func(c *Config) { c.MaxParticlesPerChord = 0 },
			check: func(c Config) bool { return c.MaxParticlesPerChord == 5 },
		},
		{
			name:  "animation speed zero",
			mut:   func(c *Config) { c.AnimationSpeed = 0 },
			check: func(c Config) bool { return c.AnimationSpeed == 0.1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mut(&c)
			if got := c.Normalize(); !tt.check(got) {
				t.Errorf("Normalize() did not clamp: %+v", got)
			}
		})
	}
}

func TestValidateEnums(t *testing.T) {
	c := Default()
	c.ParticleDistribution = "poisson"
	if err := c.Validate(); err == nil {
		t.Error("bad distribution should fail validation")
	}

	c = Default()
	c.ShapeType = "hexagon"
	if err := c.Validate(); err == nil {
		t.Error("bad shape type should fail validation")
	}

	c = Default()
	c.ParticleColor = "red"
	if err := c.Validate(); err == nil {
		t.Error("named color should fail validation")
	}
}

func TestLoadPartialMerge(t *testing.T) {
	base := Default()
	base.ParticleDensity = 75
	base.ParticleMode = true

	// The file sets only two fields; everything else keeps base values.
	data := `
particle_size = 4.0
ribbon_opacity = 0.5
`
	got, err := Load(data, base)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.ParticleSize != 4 {
		t.Errorf("ParticleSize = %v, want 4 (set by file)", got.ParticleSize)
	}
	if got.RibbonOpacity != 0.5 {
		t.Errorf("RibbonOpacity = %v, want 0.5 (set by file)", got.RibbonOpacity)
	}
	if got.ParticleDensity != 75 {
		t.Errorf("ParticleDensity = %v, want 75 (kept from base)", got.ParticleDensity)
	}
	if !got.ParticleMode {
		t.Error("ParticleMode should keep base value true")
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	base := Default()

	if _, err := Load(`particle_distribution = "poisson"`, base); err == nil {
		t.Error("invalid enum in file should fail")
	}

	if _, err := Load(`width = "wide"`, base); err == nil {
		t.Error("type mismatch should fail")
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chordial.toml")

	in := Default()
	in.ParticleMode = true
	in.ParticleDensity = 120
	in.WidthPosition = PositionEnd

	if err := WriteFile(path, in); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}

	out, err := LoadFile(path, Default())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if out != in {
		t.Errorf("round trip changed config:\n in: %+v\nout: %+v", in, out)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/chordial.toml", Default()); err == nil {
		t.Error("missing file should fail")
	}
}
