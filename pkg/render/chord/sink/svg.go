package sink

import (
	"bytes"
	"fmt"
	"html"

	"honnef.co/go/curve"

	"github.com/chordial/chordial/pkg/anim"
	"github.com/chordial/chordial/pkg/fonts"
	"github.com/chordial/chordial/pkg/render/chord"
	"github.com/chordial/chordial/pkg/render/chord/layout"
)

const hoverCSS = `
    .arc { transition: fill-opacity 0.2s ease; cursor: pointer; }
    .ribbon { transition: fill-opacity 0.2s ease; }
    .ribbon.dimmed { fill-opacity: 0.04; }`

const hoverJS = `
    const ribbons = Array.from(document.querySelectorAll('.ribbon'));
    function focus(index) {
      ribbons.forEach(r => r.classList.toggle('dimmed',
        r.dataset.source !== index && r.dataset.target !== index));
    }
    function clearFocus() {
      ribbons.forEach(r => r.classList.remove('dimmed'));
    }
    document.querySelectorAll('.arc').forEach(a => {
      a.addEventListener('mouseenter', () => focus(a.dataset.index));
      a.addEventListener('mouseleave', clearFocus);
    });`

// hitOpacity keeps ribbons in the document for pointer events while
// the raster layer carries their pixels.
const hitOpacity = 0.001

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	decorations chord.ParticleRenderer
	transform   chord.Transform
	reveal      int
	interactive bool
	background  string
}

// WithDecorations injects the active particle backend. Its layer is
// rendered after the core geometry; an accelerated backend also
// switches ribbons to hit-target opacity.
func WithDecorations(r chord.ParticleRenderer) SVGOption {
	return func(s *svgRenderer) { s.decorations = r }
}

// WithTransform applies the viewport pan/zoom transform to the core
// geometry. Decoration backends carry their own copy.
func WithTransform(t chord.Transform) SVGOption {
	return func(s *svgRenderer) { s.transform = t }
}

// WithReveal limits the document to the first visible ribbons; the
// rest render with a hidden class the reveal animation can fade in.
func WithReveal(visible int) SVGOption {
	return func(s *svgRenderer) { s.reveal = visible }
}

// WithInteraction embeds hover highlighting: pointing at an arc dims
// every ribbon not touching it.
func WithInteraction() SVGOption {
	return func(s *svgRenderer) { s.interactive = true }
}

// WithBackground paints a full-canvas rectangle behind the diagram.
func WithBackground(color string) SVGOption {
	return func(s *svgRenderer) { s.background = color }
}

// RenderSVG assembles the complete SVG document for a rendered scene.
func RenderSVG(s *chord.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	cfg := s.Config

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %.0f %.0f\" width=\"%.0f\" height=\"%.0f\">\n",
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)

	renderDefs(&buf, s)

	if r.background != "" {
		fmt.Fprintf(&buf, "  <rect width=\"100%%\" height=\"100%%\" fill=%q/>\n", r.background)
	}

	fmt.Fprintf(&buf, "  <g class=\"chord\" transform=%q>\n", r.transform.SVG())
	renderArcs(&buf, s)
	renderRibbons(&buf, s, &r)
	if cfg.LabelsEnabled {
		renderLabels(&buf, s)
	}
	buf.WriteString("  </g>\n")

	if r.decorations != nil {
		_ = r.decorations.Render(&buf)
	}

	if r.reveal >= 0 || cfg.Animate {
		renderRevealStyle(&buf, s)
	}
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", hoverCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", hoverJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{transform: chord.Identity(), reveal: -1}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderDefs(buf *bytes.Buffer, s *chord.Scene) {
	cfg := s.Config
	blur := cfg.ParticleBlur > 0
	gradients := cfg.DirectionalStyle
	if !blur && !gradients {
		return
	}

	buf.WriteString("  <defs>\n")
	if blur {
		fmt.Fprintf(buf, "    <filter id=\"particle-blur\" x=\"-50%%\" y=\"-50%%\" width=\"200%%\" height=\"200%%\">\n")
		fmt.Fprintf(buf, "      <feGaussianBlur in=\"SourceGraphic\" stdDeviation=\"%.2f\"/>\n", cfg.ParticleBlur)
		buf.WriteString("    </filter>\n")
	}
	if gradients {
		for i := range s.Ribbons {
			r := &s.Ribbons[i]
			if !r.Real || r.Empty {
				continue
			}
			from := flankMidpoint(s, r.Chord.Source)
			to := flankMidpoint(s, r.Chord.Target)
			fmt.Fprintf(buf,
				"    <linearGradient id=%q gradientUnits=\"userSpaceOnUse\" x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\">\n",
				gradientID(r), from.X, from.Y, to.X, to.Y)
			fmt.Fprintf(buf, "      <stop offset=\"0\" stop-color=%q stop-opacity=\"%.3g\"/>\n",
				r.SourceColor, cfg.SourceOpacity)
			fmt.Fprintf(buf, "      <stop offset=\"1\" stop-color=%q stop-opacity=\"%.3g\"/>\n",
				r.TargetColor, cfg.TargetOpacity)
			buf.WriteString("    </linearGradient>\n")
		}
	}
	buf.WriteString("  </defs>\n")
}

func flankMidpoint(s *chord.Scene, f layout.Flank) curve.Point {
	return s.Geometry.PointAt((f.StartAngle+f.EndAngle)/2, s.Geometry.Inner)
}

func gradientID(r *chord.Ribbon) string {
	return fmt.Sprintf("grad-%d-%d", r.Chord.Source.Index, r.Chord.Source.Subindex)
}

func renderArcs(buf *bytes.Buffer, s *chord.Scene) {
	cfg := s.Config
	buf.WriteString("    <g class=\"arcs\">\n")
	for i := range s.Arcs {
		a := &s.Arcs[i]
		fmt.Fprintf(buf,
			"      <path id=\"arc-%d\" class=\"arc\" data-index=\"%d\" d=%q fill=%q fill-opacity=\"%.3g\" stroke=%q stroke-width=\"1\"/>\n",
			a.Group.Index, a.Group.Index, a.Path.SVG(curve.SVGOptions{}),
			a.Fill, cfg.ArcOpacity, a.Stroke)
	}
	buf.WriteString("    </g>\n")
}

func renderRibbons(buf *bytes.Buffer, s *chord.Scene, r *svgRenderer) {
	cfg := s.Config
	_, accel := r.decorations.(*chord.Accelerated)

	buf.WriteString("    <g class=\"ribbons\">\n")
	for i := range s.Ribbons {
		rb := &s.Ribbons[i]
		if rb.Empty {
			continue
		}

		fill := rb.Fill
		if cfg.DirectionalStyle && rb.Real {
			fill = fmt.Sprintf("url(#%s)", gradientID(rb))
		}
		opacity := rb.Opacity
		if accel {
			opacity = hitOpacity
		}
		class := "ribbon"
		if r.reveal >= 0 && i >= r.reveal {
			class = "ribbon hidden"
		}

		fmt.Fprintf(buf,
			"      <path id=\"ribbon-%d-%d\" class=%q data-source=\"%d\" data-target=\"%d\" d=%q fill=%q fill-opacity=\"%.3g\" stroke=%q stroke-width=\"%.2f\" stroke-opacity=\"%.3g\"/>\n",
			rb.Chord.Source.Index, rb.Chord.Source.Subindex, class,
			rb.Chord.Source.Index, rb.Chord.Target.Index,
			rb.Path.SVG(curve.SVGOptions{}), fill, opacity,
			rb.StrokeColor, rb.StrokeWidth, cfg.StrokeOpacity)
	}
	buf.WriteString("    </g>\n")
}

func renderLabels(buf *bytes.Buffer, s *chord.Scene) {
	fmt.Fprintf(buf, "    <g class=\"labels\" font-family=%q font-size=\"%d\">\n", fonts.Family, fonts.LabelSize)
	for i := range s.Arcs {
		a := &s.Arcs[i]
		angle := a.Anchor.AngleDeg
		anchor := "start"
		if a.Anchor.Flip {
			angle += 180
			anchor = "end"
		}
		fmt.Fprintf(buf,
			"      <text class=\"label\" transform=\"translate(%.2f %.2f) rotate(%.2f)\" text-anchor=%q dominant-baseline=\"middle\">%s</text>\n",
			a.Anchor.Pos.X, a.Anchor.Pos.Y, angle, anchor, html.EscapeString(a.Label))
	}
	buf.WriteString("    </g>\n")
}

// renderRevealStyle writes the fade rules the reveal animation drives:
// hidden ribbons sit at zero opacity and transition in when the class
// is removed.
func renderRevealStyle(buf *bytes.Buffer, s *chord.Scene) {
	cfg := s.Config
	fade := int64(0)
	if cfg.FadeTransition {
		fade = anim.FadeDuration(cfg).Milliseconds()
	}
	fmt.Fprintf(buf, "  <style>\n")
	fmt.Fprintf(buf, "    .ribbon { transition: fill-opacity %dms ease, stroke-opacity %dms ease; }\n", fade, fade)
	fmt.Fprintf(buf, "    .ribbon.hidden { fill-opacity: 0; stroke-opacity: 0; }\n")
	fmt.Fprintf(buf, "  </style>\n")
}
