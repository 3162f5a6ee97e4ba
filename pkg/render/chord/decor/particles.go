// Package decor populates ribbon paths with particles and geometric shapes.
//
// Decorations are ephemeral: regenerated on every redraw, never persisted,
// no identity across frames. Counts are hard-capped because the render loop
// is single-threaded and nothing yields cooperatively; the caps in the
// config are a correctness requirement, not a tuning nicety.
//
// Placement randomness comes from an explicit seeded source so a given
// seed always reproduces the same scatter.
package decor

import (
	"math"
	"math/rand/v2"

	"honnef.co/go/curve"

	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/palette"
)

const minParticles = 5

// Particle is one decoration dot on a ribbon.
type Particle struct {
	Pos         curve.Point
	Along       float64
	Size        float64
	Opacity     float64
	Color       string
	StrokeColor string
	StrokeWidth float64
	Real        bool
}

// NewRand returns the seeded source used for decoration placement.
func NewRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0xdeadbeef))
}

// Particles fills one ribbon with particles. Real connections use the
// standard particle style; minimal connections use the muted override
// style at a reduced density so placeholders never read as genuine links.
func Particles(s *Sampler, cfg config.Config, real bool, baseColor string, rng *rand.Rand) []Particle {
	length := s.Length()
	if length <= 0 {
		return nil
	}

	density := cfg.ParticleDensity
	size := cfg.ParticleSize
	opacity := cfg.ParticleOpacity
	color := cfg.ParticleColor
	if color == "" {
		color = baseColor
	}
	if !real {
		density *= cfg.MinimalParticleDensityFactor
		size = cfg.MinimalParticleSize
		opacity = cfg.MinimalParticleOpacity
		color = cfg.MinimalParticleColor
		if color == "" {
			color = palette.DefaultMinimal
		}
	}

	n := particleCount(density, length, cfg.DetailedView,
		cfg.MaxParticlesPerChord, cfg.MaxParticlesDetailedView)
	stroke := palette.Darken(color, 0.7)

	out := make([]Particle, 0, n)
	for i := range n {
		frac := along(i, n, cfg.ParticleDistribution, rng)
		sz := size * (1 + (2*rng.Float64()-1)*cfg.ParticleSizeVariation)
		if sz < 0.1 {
			sz = 0.1
		}
		out = append(out, Particle{
			Pos:         s.At(frac),
			Along:       frac,
			Size:        sz,
			Opacity:     opacity * (0.5 + 0.5*rng.Float64()),
			Color:       color,
			StrokeColor: stroke,
			StrokeWidth: sz * 0.15,
			Real:        real,
		})
	}
	return out
}

// particleCount scales density by path length, de-rates in detailed view,
// then clamps. The cap always wins over the floor of 5.
func particleCount(density, pathLen float64, detailed bool, perChord, detailedCap int) int {
	raw := density * pathLen / 300
	if detailed {
		raw *= detailRate(density)
	}
	n := int(math.Round(raw))
	if n < minParticles {
		n = minParticles
	}
	limit := perChord
	if detailed {
		limit = detailedCap
	}
	if n > limit {
		n = limit
	}
	return n
}

// detailRate de-rates counts in detailed view, 0.7x at low density sliding
// to 0.3x at density 100 and beyond.
func detailRate(density float64) float64 {
	return 0.7 - 0.4*min(density/100, 1)
}

func along(i, n int, distribution string, rng *rand.Rand) float64 {
	switch distribution {
	case config.DistributionRandom:
		return rng.Float64()
	case config.DistributionGaussian:
		return min(max(rng.NormFloat64()*0.25+0.5, 0), 1)
	default:
		return (float64(i) + 0.5) / float64(n)
	}
}
