package decor

import (
	"honnef.co/go/curve"

	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/palette"
)

// Shape is one geometric marker on a ribbon. All shapes on a chord share
// type, size, and style; only position varies.
type Shape struct {
	Pos         curve.Point
	Along       float64
	Type        string
	Size        float64
	Fill        string
	Stroke      string
	StrokeWidth float64
}

// Shapes places evenly spaced markers along one ribbon, one per spacing
// interval of arc length.
func Shapes(s *Sampler, cfg config.Config, baseColor string) []Shape {
	length := s.Length()
	if length <= 0 || cfg.ShapeSpacing <= 0 {
		return nil
	}

	n := int(length / cfg.ShapeSpacing)
	if cfg.DetailedView && n > cfg.MaxShapesDetailedView {
		n = cfg.MaxShapesDetailedView
	}
	if n <= 0 {
		return nil
	}

	fill := cfg.ShapeFill
	if fill == "" {
		fill = baseColor
	}
	stroke := cfg.ShapeStroke
	if stroke == "" {
		stroke = palette.Darken(fill, 0.7)
	}

	out := make([]Shape, 0, n)
	for i := range n {
		frac := (float64(i) + 0.5) / float64(n)
		out = append(out, Shape{
			Pos:         s.At(frac),
			Along:       frac,
			Type:        cfg.ShapeType,
			Size:        cfg.ShapeSize,
			Fill:        fill,
			Stroke:      stroke,
			StrokeWidth: cfg.ShapeStrokeWidth,
		})
	}
	return out
}
