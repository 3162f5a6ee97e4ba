package decor

import (
	"sort"

	"honnef.co/go/curve"
)

const arclenAccuracy = 1e-3

// Sampler resolves fractions of a ribbon's total arc length to points on
// the path. Segment lengths are measured once up front so repeated lookups
// stay cheap under movement mode.
type Sampler struct {
	segs  []curve.PathSegment
	cum   []float64
	total float64
}

// NewSampler measures the path and returns a sampler over it. Zero-length
// segments are skipped.
func NewSampler(path curve.BezPath) *Sampler {
	s := &Sampler{}
	for seg := range path.Segments() {
		length := seg.Arclen(arclenAccuracy)
		if length <= 0 {
			continue
		}
		s.total += length
		s.segs = append(s.segs, seg)
		s.cum = append(s.cum, s.total)
	}
	return s
}

// Length returns the total arc length of the sampled path.
func (s *Sampler) Length() float64 { return s.total }

// At returns the point at frac of the total length, clamping frac to [0, 1].
func (s *Sampler) At(frac float64) curve.Point {
	if len(s.segs) == 0 {
		return curve.Point{}
	}
	frac = min(max(frac, 0), 1)
	target := frac * s.total

	i := sort.SearchFloat64s(s.cum, target)
	if i >= len(s.segs) {
		i = len(s.segs) - 1
	}
	prev := 0.0
	if i > 0 {
		prev = s.cum[i-1]
	}
	seg := s.segs[i]
	t := seg.SolveForArclen(target-prev, arclenAccuracy)
	return seg.Eval(t)
}
