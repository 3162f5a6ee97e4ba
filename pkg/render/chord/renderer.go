package chord

import (
	"fmt"
	"io"
)

// Transform is the pan/zoom state of the diagram viewport. It is pushed
// into backends by value; backends never share a reference to it.
type Transform struct {
	TranslateX float64
	TranslateY float64
	Scale      float64
}

// Identity returns the no-op transform.
func Identity() Transform { return Transform{Scale: 1} }

// SVG renders the transform as an SVG transform attribute value.
func (t Transform) SVG() string {
	return fmt.Sprintf("translate(%.3f %.3f) scale(%.3f)", t.TranslateX, t.TranslateY, t.Scale)
}

// Apply maps a model-space point to screen space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.TranslateX + t.Scale*x, t.TranslateY + t.Scale*y
}

// Invert maps a screen-space point back to model space.
func (t Transform) Invert(x, y float64) (float64, float64) {
	if t.Scale == 0 {
		return x, y
	}
	return (x - t.TranslateX) / t.Scale, (y - t.TranslateY) / t.Scale
}

// ParticleRenderer is the decoration backend contract. The diagram core
// talks only to this interface; backend internals stay private.
//
// Prepare receives the full scene once per redraw. Render writes the
// backend's decoration layer as an SVG fragment for the current frame.
// SetTransform pushes the viewport transform ahead of the backend's next
// frame; pushing the same transform twice is a no-op. Start and Stop
// control the backend's own per-frame movement loop where one exists.
type ParticleRenderer interface {
	Prepare(s *Scene) error
	Render(w io.Writer) error
	SetTransform(t Transform)
	Start()
	Stop()
	Close() error
}
