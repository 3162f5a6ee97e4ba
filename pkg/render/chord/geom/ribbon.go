package geom

import (
	"math"

	"honnef.co/go/curve"

	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/errors"
	"github.com/chordial/chordial/pkg/render/chord/layout"
)

// RibbonStyle controls the shape of ribbon bodies.
type RibbonStyle struct {
	// Variation scales ribbon width near the anchor. Values at or below
	// 1 produce the standard constant-profile ribbon.
	Variation float64

	// Anchor is the position of the width peak along the ribbon,
	// 0 at the source and 1 at the target.
	Anchor float64
}

// ResolveAnchor maps a width position name to its anchor parameter.
func ResolveAnchor(position string, custom float64) float64 {
	switch position {
	case config.PositionStart:
		return 0.1
	case config.PositionEnd:
		return 0.9
	case config.PositionCustom:
		if custom < 0 {
			return 0
		}
		if custom > 1 {
			return 1
		}
		return custom
	default:
		return 0.5
	}
}

// Weight is the width profile along a ribbon: a Gaussian bump peaking at
// the anchor, near zero two tenths away from it.
func Weight(t, anchor float64) float64 {
	d := t - anchor
	return math.Exp(-16 * d * d)
}

// WidthScale returns the width multiplier at position t for the style.
func (s RibbonStyle) WidthScale(t float64) float64 {
	if s.Variation <= 1 {
		return 1
	}
	return 1 + (s.Variation-1)*Weight(t, s.Anchor)
}

// EffectiveStrokeWidth derives a per-ribbon stroke width from a base
// width and a variation profile, sampled at the ribbon's midpoint.
func EffectiveStrokeWidth(base, variation float64, anchor float64) float64 {
	if variation <= 1 {
		return base
	}
	return base * (1 + (variation-1)*Weight(0.5, anchor))
}

// Ribbon returns the closed path for a chord: the source flank arc, a
// connecting edge to the target flank, the target arc, and the edge back.
//
// The connecting edges are cubics pulled toward the center. With width
// variation active, each edge's control points are pushed radially
// outward by the profile weight at their position, so the two edges
// separate near the anchor and the ribbon visibly widens there. The
// profile is applied through control radii only, not as a true offset
// envelope.
//
// Collapsed or non-finite flank angles return an error; callers
// substitute an empty path and keep rendering.
func (g Geometry) Ribbon(c layout.Chord, style RibbonStyle) (curve.BezPath, error) {
	sa0, sa1 := c.Source.StartAngle, c.Source.EndAngle
	ta0, ta1 := c.Target.StartAngle, c.Target.EndAngle

	if degenerateAngles(sa0, sa1, ta0, ta1) {
		return nil, &errors.DegenerateError{
			Source: c.Source.Index,
			Target: c.Target.Index,
			Reason: "non-finite flank angle",
		}
	}
	if sa1 < sa0 || ta1 < ta0 {
		return nil, &errors.DegenerateError{
			Source: c.Source.Index,
			Target: c.Target.Index,
			Reason: "negative flank span",
		}
	}

	r := g.Inner
	var path curve.BezPath

	path.MoveTo(g.PointAt(sa0, r))
	g.appendArc(&path, r, sa0, sa1, false)
	g.edge(&path, sa1, ta0, style, forwardEdge)
	g.appendArc(&path, r, ta0, ta1, false)
	g.edge(&path, ta1, sa0, style, returnEdge)
	path.ClosePath()

	if path.IsNaN() || path.IsInf() {
		return nil, &errors.DegenerateError{
			Source: c.Source.Index,
			Target: c.Target.Index,
			Reason: "non-finite path",
		}
	}
	return path, nil
}

// Edge direction relative to the ribbon's source→target parameter.
const (
	forwardEdge = iota
	returnEdge
)

// edge appends a cubic from the point at fromAngle to the point at
// toAngle, both on the inner radius, bowed toward the center.
func (g Geometry) edge(path *curve.BezPath, fromAngle, toAngle float64, style RibbonStyle, dir int) {
	r := g.Inner

	// Control positions along the ribbon's source→target parameter.
	// The return edge runs target→source, so its parameter mirrors.
	t1, t2 := 1.0/3, 2.0/3
	if dir == returnEdge {
		t1, t2 = t2, t1
	}

	// A plain quadratic through the center, elevated to a cubic, puts
	// both controls at a third of the radius. The width profile scales
	// those radii outward, capped at the attachment radius.
	r1 := math.Min(r, r/3*style.WidthScale(t1))
	r2 := math.Min(r, r/3*style.WidthScale(t2))

	path.CubicTo(
		g.PointAt(fromAngle, r1),
		g.PointAt(toAngle, r2),
		g.PointAt(toAngle, r),
	)
}
