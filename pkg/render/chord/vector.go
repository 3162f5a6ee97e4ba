package chord

import (
	"fmt"
	"io"

	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/render/chord/decor"
)

// Vector is the default decoration backend: every particle and shape is
// emitted as an inline SVG primitive. Cheap for small counts, and the
// only backend with per-element structure (chords stay addressable in
// the output).
type Vector struct {
	scene     *Scene
	transform Transform
}

func NewVector() *Vector {
	return &Vector{transform: Identity()}
}

func (v *Vector) Prepare(s *Scene) error {
	v.scene = s
	return nil
}

// Render writes the decoration layer. Each chord's decorations live in
// their own group tagged with the chord key.
func (v *Vector) Render(w io.Writer) error {
	if v.scene == nil {
		return nil
	}

	filter := ""
	if v.scene.Config.ParticleBlur > 0 {
		filter = ` filter="url(#particle-blur)"`
	}
	fmt.Fprintf(w, "  <g class=\"decorations\" transform=\"%s\"%s>\n", v.transform.SVG(), filter)

	for _, key := range v.scene.Decorations.Keys() {
		fmt.Fprintf(w, "    <g data-chord=%q>\n", key)
		for _, p := range v.scene.Decorations.Particles(key) {
			fmt.Fprintf(w,
				"      <circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\" fill-opacity=\"%.3g\" stroke=\"%s\" stroke-width=\"%.2f\"/>\n",
				p.Pos.X, p.Pos.Y, p.Size, p.Color, p.Opacity, p.StrokeColor, p.StrokeWidth)
		}
		for _, sh := range v.scene.Decorations.Shapes(key) {
			writeShape(w, sh)
		}
		fmt.Fprintf(w, "    </g>\n")
	}

	fmt.Fprintf(w, "  </g>\n")
	return nil
}

func (v *Vector) SetTransform(t Transform) { v.transform = t }

// Start is a no-op: the vector layer re-renders with the scene, it has
// no frame loop of its own.
func (v *Vector) Start() {}

func (v *Vector) Stop() {}

func (v *Vector) Close() error { return nil }

func writeShape(w io.Writer, sh decor.Shape) {
	x, y, s := sh.Pos.X, sh.Pos.Y, sh.Size
	style := fmt.Sprintf("fill=\"%s\" stroke=\"%s\" stroke-width=\"%.2f\"", sh.Fill, sh.Stroke, sh.StrokeWidth)

	switch sh.Type {
	case config.ShapeSquare:
		fmt.Fprintf(w, "      <rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" %s/>\n",
			x-s, y-s, 2*s, 2*s, style)
	case config.ShapeDiamond:
		fmt.Fprintf(w, "      <polygon points=\"%.2f,%.2f %.2f,%.2f %.2f,%.2f %.2f,%.2f\" %s/>\n",
			x, y-s, x+s, y, x, y+s, x-s, y, style)
	default:
		fmt.Fprintf(w, "      <circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" %s/>\n", x, y, s, style)
	}
}
