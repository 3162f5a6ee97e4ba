// Package geom builds the path geometry of a chord diagram.
//
// All paths are [curve.BezPath] values in canvas coordinates. Angles are
// radians measured clockwise from 12 o'clock, matching the layout package.
// Group arcs occupy the ring between the inner and outer radius; ribbons
// attach at the inner radius.
package geom

import (
	"math"

	"honnef.co/go/curve"

	"github.com/chordial/chordial/pkg/render/chord/layout"
)

// Flattening tolerance for arc segments, in canvas units.
const arcTolerance = 0.1

// labelMargin reserves canvas space outside the outer radius for labels.
const labelMargin = 40

// labelGap is the distance between the outer radius and a label anchor.
const labelGap = 8

// Geometry holds the resolved dimensions of one diagram.
type Geometry struct {
	Center curve.Point
	Outer  float64 // arc ring outer radius
	Inner  float64 // arc ring inner radius, ribbon attachment radius
}

// New derives the diagram geometry from canvas dimensions.
// innerRatio scales the inner radius relative to the outer.
func New(width, height, innerRatio float64) Geometry {
	outer := math.Min(width, height)/2 - labelMargin
	if outer < 10 {
		outer = 10
	}
	return Geometry{
		Center: curve.Pt(width/2, height/2),
		Outer:  outer,
		Inner:  outer * innerRatio,
	}
}

// PointAt returns the canvas point at the given angle and radius.
func (g Geometry) PointAt(angle, radius float64) curve.Point {
	sin, cos := math.Sincos(angle)
	return curve.Pt(g.Center.X+radius*sin, g.Center.Y-radius*cos)
}

// appendArc extends path with a circular arc from a0 to a1 at the given
// radius. withMove starts a new subpath at the arc's first point;
// otherwise the arc is assumed to continue from the current point.
func (g Geometry) appendArc(path *curve.BezPath, radius, a0, a1 float64, withMove bool) {
	arc := curve.Arc{
		Center:     g.Center,
		Radii:      curve.Vec2{X: radius, Y: radius},
		StartAngle: a0 - math.Pi/2,
		SweepAngle: a1 - a0,
	}
	first := true
	for el := range arc.PathElements(arcTolerance) {
		if first {
			first = false
			if withMove {
				path.Push(el)
			}
			continue
		}
		path.Push(el)
	}
}

// GroupArc returns the annular sector for a group: the outer arc swept
// forward, a radial edge, the inner arc swept back, and the closing edge.
func (g Geometry) GroupArc(grp layout.Group) curve.BezPath {
	var path curve.BezPath
	if degenerateAngles(grp.StartAngle, grp.EndAngle) {
		return path
	}

	g.appendArc(&path, g.Outer, grp.StartAngle, grp.EndAngle, true)
	path.LineTo(g.PointAt(grp.EndAngle, g.Inner))
	g.appendArc(&path, g.Inner, grp.EndAngle, grp.StartAngle, false)
	path.ClosePath()
	return path
}

// LabelAnchor describes where and how a group label renders.
type LabelAnchor struct {
	// AngleDeg rotates the label's coordinate system so its x axis
	// points along the group's mid-angle, in SVG degrees.
	AngleDeg float64

	// Radius is the distance from the center to the label start.
	Radius float64

	// Flip marks labels on the left half of the circle, which render
	// mirrored and end-anchored to stay upright.
	Flip bool

	// Pos is the anchor point in canvas coordinates.
	Pos curve.Point
}

// LabelAnchor returns the label placement for a group.
func (g Geometry) LabelAnchor(grp layout.Group) LabelAnchor {
	mid := (grp.StartAngle + grp.EndAngle) / 2
	flip := math.Mod(mid, 2*math.Pi) > math.Pi
	return LabelAnchor{
		AngleDeg: mid*180/math.Pi - 90,
		Radius:   g.Outer + labelGap,
		Flip:     flip,
		Pos:      g.PointAt(mid, g.Outer+labelGap),
	}
}

func degenerateAngles(angles ...float64) bool {
	for _, a := range angles {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return true
		}
	}
	return false
}
