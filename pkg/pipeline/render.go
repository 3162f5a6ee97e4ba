package pipeline

import (
	"github.com/chordial/chordial/pkg/errors"
	"github.com/chordial/chordial/pkg/graph"
	"github.com/chordial/chordial/pkg/render/chord"
	"github.com/chordial/chordial/pkg/render/chord/sink"
)

// =============================================================================
// Render Stage
// =============================================================================

// Render generates output artifacts in the requested formats.
//
// A Diagram is built over the dataset for the duration of the call; the
// scene it produces feeds every requested sink so the geometry work
// happens once per render, not once per format.
func Render(d graph.Dataset, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	cfg := opts.StyleConfig()

	diagram := chord.New(d, chord.WithConfig(cfg))
	defer diagram.Close()

	scene, err := diagram.Redraw()
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			svgOpts := []sink.SVGOption{
				sink.WithBackground(cfg.Background),
				sink.WithInteraction(),
			}
			if cfg.ParticleMode || cfg.ShapesEnabled {
				svgOpts = append(svgOpts, sink.WithDecorations(diagram.Renderer()))
			}
			artifacts[format] = sink.RenderSVG(scene, svgOpts...)

		case FormatPNG:
			data, err := sink.RenderPNG(scene, sink.WithPNGBackground(cfg.Background))
			if err != nil {
				return nil, err
			}
			artifacts[format] = data

		case FormatJSON:
			data, err := sink.RenderJSON(scene, sink.WithJSONMatrix())
			if err != nil {
				return nil, err
			}
			artifacts[format] = data

		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
		}
	}
	return artifacts, nil
}
