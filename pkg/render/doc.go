// Package render provides diagram rendering for relationship datasets.
//
// # Overview
//
// This package contains the rendering pipeline that transforms relationship
// datasets into chord diagrams. All rendering lives in the [chord] subpackage
// family:
//
//   - Scene assembly and dual decoration backends ([chord])
//   - Circular layout computation ([chord/layout])
//   - Arc and ribbon path geometry ([chord/geom])
//   - Particle and shape decorations ([chord/decor])
//   - Output sinks for SVG, PNG, and JSON ([chord/sink])
//
// # Rendering
//
// A [chord.Diagram] owns the full cycle from dataset to scene; sinks turn a
// scene into bytes. SVG is the primary format and carries the interactive
// hover script; PNG rasterizes natively through gg; JSON exports the layout
// for external tooling.
//
//	dg := chord.New(dataset, chord.WithConfig(cfg))
//	scene, err := dg.Redraw()
//	svg := sink.RenderSVG(scene, sink.WithDecorations(dg.Renderer()))
//	png, err := sink.RenderPNG(scene, sink.WithScale(2.0))  // 2x scale
//
// # Decoration Backends
//
// The [chord.Vector] backend emits every particle and shape as an SVG
// primitive. The [chord.Accelerated] backend rasterizes decorations into a
// supersampled image layer for dense particle fields and continuous movement;
// sinks composite the layer behind the vector ribbons. Backend choice is a
// config flag and falls back to vector when raster resources are unavailable.
//
// [chord]: github.com/chordial/chordial/pkg/render/chord
// [chord/layout]: github.com/chordial/chordial/pkg/render/chord/layout
// [chord/geom]: github.com/chordial/chordial/pkg/render/chord/geom
// [chord/decor]: github.com/chordial/chordial/pkg/render/chord/decor
// [chord/sink]: github.com/chordial/chordial/pkg/render/chord/sink
package render
