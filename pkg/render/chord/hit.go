package chord

import "honnef.co/go/curve"

// HitKind classifies what lies under a pointer position.
type HitKind int

const (
	HitNone HitKind = iota
	HitArc
	HitRibbon
)

// Hit is the result of a pointer lookup against the rendered scene.
type Hit struct {
	Kind   HitKind
	Arc    *Arc
	Ribbon *Ribbon
}

// HitTest maps a screen point to the element under it. The viewport
// transform maps model space to screen space, so the point runs through
// its inverse first. Arcs take priority over ribbons; ribbons are tested
// topmost first, matching paint order.
//
// Hit-testing works the same under both decoration backends: ribbons
// stay in the vector layer (at near-zero opacity under the accelerated
// backend) precisely so their paths remain testable.
func (s *Scene) HitTest(x, y float64, t Transform) Hit {
	mx, my := t.Invert(x, y)
	pt := curve.Pt(mx, my)

	for i := range s.Arcs {
		a := &s.Arcs[i]
		if a.Path.Winding(pt) != 0 {
			return Hit{Kind: HitArc, Arc: a}
		}
	}
	for i := len(s.Ribbons) - 1; i >= 0; i-- {
		r := &s.Ribbons[i]
		if r.Empty {
			continue
		}
		if r.Path.Winding(pt) != 0 {
			return Hit{Kind: HitRibbon, Ribbon: r}
		}
	}
	return Hit{}
}
