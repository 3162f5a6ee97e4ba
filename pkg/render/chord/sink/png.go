package sink

import (
	"bytes"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"honnef.co/go/curve"

	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/errors"
	"github.com/chordial/chordial/pkg/palette"
	"github.com/chordial/chordial/pkg/render/chord"
)

// flattenTolerance bounds the deviation when curves are turned into
// polylines for rasterization, in canvas pixels before scaling.
const flattenTolerance = 0.1

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
	transform  chord.Transform
	face       font.Face
}

// WithScale sets the raster scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPNGBackground fills the canvas before drawing; without it the
// image keeps an alpha background.
func WithPNGBackground(color string) PNGOption {
	return func(r *pngRenderer) { r.background = color }
}

// WithPNGTransform applies the viewport pan/zoom transform.
func WithPNGTransform(t chord.Transform) PNGOption {
	return func(r *pngRenderer) { r.transform = t }
}

// WithLabelFont draws labels with the given face instead of the tiny
// built-in bitmap font. Build one with fonts.LoadFace.
func WithLabelFont(face font.Face) PNGOption {
	return func(r *pngRenderer) { r.face = face }
}

// RenderPNG rasterizes the scene natively: paths are flattened and
// filled, decorations drawn on top, labels last.
func RenderPNG(s *chord.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2, transform: chord.Identity()}
	for _, opt := range opts {
		opt(&r)
	}

	cfg := s.Config
	w := int(cfg.Width * r.scale)
	h := int(cfg.Height * r.scale)
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "raster size %dx%d", w, h)
	}
	dc := gg.NewContext(w, h)

	if r.background != "" {
		if c, err := palette.ParseHex(r.background); err == nil {
			dc.SetRGBA255(int(c.R), int(c.G), int(c.B), 255)
			dc.Clear()
		}
	}

	dc.Scale(r.scale, r.scale)
	dc.Translate(r.transform.TranslateX, r.transform.TranslateY)
	dc.Scale(r.transform.Scale, r.transform.Scale)

	drawArcs(dc, s)
	drawRibbons(dc, s)
	drawDecorations(dc, s)
	if cfg.LabelsEnabled {
		drawLabels(dc, s, r.face)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

func drawArcs(dc *gg.Context, s *chord.Scene) {
	cfg := s.Config
	for i := range s.Arcs {
		a := &s.Arcs[i]
		tracePath(dc, a.Path)
		fillStroke(dc, a.Fill, cfg.ArcOpacity, a.Stroke, 1)
	}
}

func drawRibbons(dc *gg.Context, s *chord.Scene) {
	for i := range s.Ribbons {
		r := &s.Ribbons[i]
		if r.Empty {
			continue
		}
		tracePath(dc, r.Path)
		fillStroke(dc, r.Fill, r.Opacity, r.StrokeColor, r.StrokeWidth)
	}
}

// drawDecorations renders particles and shapes at their rest
// positions; a static export has no movement phase.
func drawDecorations(dc *gg.Context, s *chord.Scene) {
	for _, key := range s.Decorations.Keys() {
		for _, p := range s.Decorations.Particles(key) {
			c, err := palette.ParseHex(p.Color)
			if err != nil {
				continue
			}
			dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(255*p.Opacity))
			dc.DrawCircle(p.Pos.X, p.Pos.Y, p.Size)
			dc.Fill()
		}
		for _, sh := range s.Decorations.Shapes(key) {
			fill, err := palette.ParseHex(sh.Fill)
			if err != nil {
				continue
			}
			x, y, size := sh.Pos.X, sh.Pos.Y, sh.Size
			switch sh.Type {
			case config.ShapeSquare:
				dc.DrawRectangle(x-size, y-size, 2*size, 2*size)
			case config.ShapeDiamond:
				dc.MoveTo(x, y-size)
				dc.LineTo(x+size, y)
				dc.LineTo(x, y+size)
				dc.LineTo(x-size, y)
				dc.ClosePath()
			default:
				dc.DrawCircle(x, y, size)
			}
			dc.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), 255)
			dc.Fill()
		}
	}
}

func drawLabels(dc *gg.Context, s *chord.Scene, face font.Face) {
	if face != nil {
		dc.SetFontFace(face)
	}
	dc.SetRGB(0, 0, 0)
	for i := range s.Arcs {
		a := &s.Arcs[i]
		ax := 0.0
		if a.Anchor.Flip {
			ax = 1.0
		}
		dc.Push()
		dc.RotateAbout(gg.Radians(a.Anchor.AngleDeg+flipDeg(a.Anchor.Flip)), a.Anchor.Pos.X, a.Anchor.Pos.Y)
		dc.DrawStringAnchored(a.Label, a.Anchor.Pos.X, a.Anchor.Pos.Y, ax, 0.5)
		dc.Pop()
	}
}

func flipDeg(flip bool) float64 {
	if flip {
		return 180
	}
	return 0
}

// tracePath walks a flattened path into the raster context.
func tracePath(dc *gg.Context, p curve.BezPath) {
	for el := range p.Flatten(flattenTolerance) {
		switch el.Kind {
		case curve.MoveToKind:
			dc.MoveTo(el.P0.X, el.P0.Y)
		case curve.LineToKind:
			dc.LineTo(el.P0.X, el.P0.Y)
		case curve.ClosePathKind:
			dc.ClosePath()
		}
	}
}

func fillStroke(dc *gg.Context, fill string, opacity float64, stroke string, strokeWidth float64) {
	f, err := palette.ParseHex(fill)
	if err != nil {
		dc.ClearPath()
		return
	}
	dc.SetRGBA255(int(f.R), int(f.G), int(f.B), int(255*opacity))
	if strokeWidth > 0 {
		if sc, err := palette.ParseHex(stroke); err == nil {
			dc.FillPreserve()
			dc.SetRGBA255(int(sc.R), int(sc.G), int(sc.B), int(255*opacity))
			dc.SetLineWidth(strokeWidth)
			dc.Stroke()
			return
		}
	}
	dc.Fill()
}
