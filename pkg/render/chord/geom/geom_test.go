package geom

import (
	"math"
	"strings"
	"testing"

	"honnef.co/go/curve"

	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/render/chord/layout"
)

func testGeometry() Geometry {
	return New(900, 900, 0.9)
}

func TestNew(t *testing.T) {
	g := testGeometry()

	if g.Center.X != 450 || g.Center.Y != 450 {
		t.Errorf("Center = %v, want (450, 450)", g.Center)
	}
	if g.Outer != 450-labelMargin {
		t.Errorf("Outer = %v, want %v", g.Outer, 450-labelMargin)
	}
	if !almost(g.Inner, g.Outer*0.9) {
		t.Errorf("Inner = %v, want %v", g.Inner, g.Outer*0.9)
	}

	// Tiny canvases clamp instead of inverting.
	tiny := New(20, 20, 0.9)
	if tiny.Outer <= 0 {
		t.Errorf("tiny canvas Outer = %v, want positive", tiny.Outer)
	}
}

func TestPointAt(t *testing.T) {
	g := testGeometry()
	r := 100.0

	tests := []struct {
		name  string
		angle float64
		want  curve.Point
	}{
		{"twelve o'clock", 0, curve.Pt(450, 350)},
		{"three o'clock", math.Pi / 2, curve.Pt(550, 450)},
		{"six o'clock", math.Pi, curve.Pt(450, 550)},
		{"nine o'clock", 3 * math.Pi / 2, curve.Pt(350, 450)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.PointAt(tt.angle, r)
			if !almost(got.X, tt.want.X) || !almost(got.Y, tt.want.Y) {
				t.Errorf("PointAt(%v, %v) = %v, want %v", tt.angle, r, got, tt.want)
			}
		})
	}
}

func TestGroupArc(t *testing.T) {
	g := testGeometry()
	grp := layout.Group{Index: 0, StartAngle: 0, EndAngle: 1.2}

	path := g.GroupArc(grp)
	if !path.HasSegments() {
		t.Fatal("GroupArc should produce segments")
	}

	// A point in the middle of the ring sector is inside.
	mid := g.PointAt(0.6, (g.Inner+g.Outer)/2)
	if path.Winding(mid) == 0 {
		t.Error("ring sector midpoint should be inside the arc path")
	}

	// A point inside the inner radius is outside the ring.
	hole := g.PointAt(0.6, g.Inner*0.5)
	if path.Winding(hole) != 0 {
		t.Error("point inside the inner radius should be outside the arc path")
	}

	// A point on the far side of the circle is outside.
	far := g.PointAt(math.Pi+0.6, (g.Inner+g.Outer)/2)
	if path.Winding(far) != 0 {
		t.Error("point in another sector should be outside the arc path")
	}
}

func TestGroupArcDegenerate(t *testing.T) {
	g := testGeometry()
	path := g.GroupArc(layout.Group{StartAngle: math.NaN(), EndAngle: 1})
	if path.HasSegments() {
		t.Error("degenerate group should produce an empty path")
	}
}

func TestLabelAnchor(t *testing.T) {
	g := testGeometry()

	right := g.LabelAnchor(layout.Group{StartAngle: 0.4, EndAngle: 0.8})
	if right.Flip {
		t.Error("right-half label should not flip")
	}
	if !almost(right.AngleDeg, 0.6*180/math.Pi-90) {
		t.Errorf("AngleDeg = %v", right.AngleDeg)
	}
	if !almost(right.Radius, g.Outer+labelGap) {
		t.Errorf("Radius = %v, want %v", right.Radius, g.Outer+labelGap)
	}

	left := g.LabelAnchor(layout.Group{StartAngle: math.Pi + 0.4, EndAngle: math.Pi + 0.8})
	if !left.Flip {
		t.Error("left-half label should flip to stay upright")
	}
}

func TestRibbon(t *testing.T) {
	g := testGeometry()
	c := layout.Chord{
		Source: layout.Flank{Index: 0, Subindex: 1, StartAngle: 0, EndAngle: 0.8, Value: 4},
		Target: layout.Flank{Index: 1, Subindex: 0, StartAngle: 2.0, EndAngle: 2.5, Value: 2},
	}

	path, err := g.Ribbon(c, RibbonStyle{Variation: 1})
	if err != nil {
		t.Fatalf("Ribbon: %v", err)
	}
	if !path.HasSegments() {
		t.Fatal("ribbon should produce segments")
	}

	svg := path.SVG(curve.SVGOptions{})
	if !strings.HasPrefix(svg, "M") {
		t.Errorf("ribbon SVG should start with a move, got %q", svg[:min(20, len(svg))])
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "Z") {
		t.Errorf("ribbon path should close, got suffix %q", svg[max(0, len(svg)-10):])
	}

	// Just inside the source flank the ribbon is filled.
	probe := g.PointAt(0.4, g.Inner-2)
	if path.Winding(probe) == 0 {
		t.Error("point just inside the source flank should be inside the ribbon")
	}

	// Outside the attachment radius is not part of the ribbon.
	out := g.PointAt(0.4, g.Inner+20)
	if path.Winding(out) != 0 {
		t.Error("point beyond the attachment radius should be outside the ribbon")
	}
}

func TestRibbonDegenerate(t *testing.T) {
	g := testGeometry()

	tests := []struct {
		name string
		c    layout.Chord
	}{
		{
			name: "NaN angle",
			c: layout.Chord{
				Source: layout.Flank{StartAngle: math.NaN(), EndAngle: 1},
				Target: layout.Flank{StartAngle: 2, EndAngle: 2.5},
			},
		},
		{
			name: "infinite angle",
			c: layout.Chord{
				Source: layout.Flank{StartAngle: 0, EndAngle: math.Inf(1)},
				Target: layout.Flank{StartAngle: 2, EndAngle: 2.5},
			},
		},
		{
			name: "negative span",
			c: layout.Chord{
				Source: layout.Flank{StartAngle: 1, EndAngle: 0.5},
				Target: layout.Flank{StartAngle: 2, EndAngle: 2.5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Ribbon(tt.c, RibbonStyle{Variation: 1}); err == nil {
				t.Error("degenerate chord should error")
			}
		})
	}
}

func TestRibbonZeroWidthTarget(t *testing.T) {
	// Chords into synthesized groups anchor on a zero-width flank.
	g := testGeometry()
	c := layout.Chord{
		Source: layout.Flank{Index: 0, StartAngle: 0, EndAngle: 0.5, Value: 2},
		Target: layout.Flank{Index: 1, StartAngle: 3, EndAngle: 3, Value: 0},
	}

	path, err := g.Ribbon(c, RibbonStyle{Variation: 1})
	if err != nil {
		t.Fatalf("Ribbon: %v", err)
	}
	if !path.HasSegments() {
		t.Error("zero-width target should still produce a path")
	}
}

func TestRibbonWidthVariation(t *testing.T) {
	g := testGeometry()
	c := layout.Chord{
		Source: layout.Flank{StartAngle: 0, EndAngle: 0.5, Value: 3},
		Target: layout.Flank{StartAngle: math.Pi, EndAngle: math.Pi + 0.5, Value: 1},
	}

	std, err := g.Ribbon(c, RibbonStyle{Variation: 1})
	if err != nil {
		t.Fatalf("standard ribbon: %v", err)
	}
	wide, err := g.Ribbon(c, RibbonStyle{Variation: 3, Anchor: 0.5})
	if err != nil {
		t.Fatalf("wide ribbon: %v", err)
	}

	// Pushing the edges apart encloses more area.
	stdArea := math.Abs(std.SignedArea())
	wideArea := math.Abs(wide.SignedArea())
	if wideArea <= stdArea {
		t.Errorf("width variation should grow the enclosed area: standard %v, varied %v",
			stdArea, wideArea)
	}
}

func TestResolveAnchor(t *testing.T) {
	tests := []struct {
		position string
		custom   float64
		want     float64
	}{
		{config.PositionStart, 0, 0.1},
		{config.PositionMiddle, 0, 0.5},
		{config.PositionEnd, 0, 0.9},
		{config.PositionCustom, 0.3, 0.3},
		{config.PositionCustom, -1, 0},
		{config.PositionCustom, 2, 1},
		{"unknown", 0, 0.5},
	}

	for _, tt := range tests {
		if got := ResolveAnchor(tt.position, tt.custom); !almost(got, tt.want) {
			t.Errorf("ResolveAnchor(%q, %v) = %v, want %v", tt.position, tt.custom, got, tt.want)
		}
	}
}

func TestWeight(t *testing.T) {
	if !almost(Weight(0.5, 0.5), 1) {
		t.Error("weight should peak at the anchor")
	}
	if !almost(Weight(0.25, 0.5), math.Exp(-1)) {
		t.Errorf("Weight(0.25, 0.5) = %v, want e^-1", Weight(0.25, 0.5))
	}
	if !almost(Weight(0.3, 0.5), Weight(0.7, 0.5)) {
		t.Error("weight should be symmetric around the anchor")
	}
}

func TestWidthScale(t *testing.T) {
	flat := RibbonStyle{Variation: 1, Anchor: 0.5}
	for _, tt := range []float64{0, 0.25, 0.5, 1} {
		if got := flat.WidthScale(tt); got != 1 {
			t.Errorf("variation 1 WidthScale(%v) = %v, want 1", tt, got)
		}
	}

	s := RibbonStyle{Variation: 3, Anchor: 0.5}
	if !almost(s.WidthScale(0.5), 3) {
		t.Errorf("WidthScale at anchor = %v, want 3", s.WidthScale(0.5))
	}
	if s.WidthScale(0) >= s.WidthScale(0.5) {
		t.Error("scale away from the anchor should be smaller than at the peak")
	}
}

func TestEffectiveStrokeWidth(t *testing.T) {
	if got := EffectiveStrokeWidth(2, 1, 0.5); got != 2 {
		t.Errorf("no variation = %v, want base 2", got)
	}
	if got := EffectiveStrokeWidth(2, 2, 0.5); !almost(got, 4) {
		t.Errorf("mid anchor doubles = %v, want 4", got)
	}
	end := EffectiveStrokeWidth(2, 2, 0.9)
	if end >= 4 || end <= 2 {
		t.Errorf("off-center anchor = %v, want between base and peak", end)
	}
}

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
