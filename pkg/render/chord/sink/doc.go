// Package sink provides output format renderers for chord diagrams.
//
// # Overview
//
// A "sink" transforms a rendered [chord.Scene] into a final output
// format. This package provides renderers for:
//
//   - SVG: Scalable vector graphics with reveal animation and hover
//     interactivity
//   - PNG: Raster image output, drawn natively (no external converter)
//   - JSON: Layout and matrix export for external tools
//
// # SVG Output
//
// [RenderSVG] produces a complete SVG document: defs (blur filter,
// directional gradients), the arc ring, ribbons, labels, and the
// decoration layer of whichever particle backend is active.
//
// Basic usage:
//
//	svg := sink.RenderSVG(scene,
//	    sink.WithDecorations(diagram.Renderer()),
//	    sink.WithInteraction(),
//	)
//
// # SVG Options
//
//   - [WithDecorations]: inject the active particle backend's layer
//   - [WithTransform]: apply the viewport pan/zoom transform
//   - [WithReveal]: limit visible ribbons for animation frames
//   - [WithInteraction]: embed hover highlighting CSS/JS
//   - [WithBackground]: paint a background rectangle
//
// When the accelerated backend is injected, ribbons render at
// near-zero opacity: the raster layer carries their pixels while the
// paths stay in the document as pointer hit targets.
//
// # PNG Output
//
// [RenderPNG] rasterizes the scene directly: arc and ribbon paths are
// flattened to polygons and filled at a configurable supersampling
// scale. Unlike SVG-to-PNG conversion it needs no external tooling.
//
// # JSON Output
//
// [RenderJSON] exports groups, chords, and optionally the matrix and
// path data, enabling:
//
//   - Integration with external visualization tools
//   - Caching of layout computations
//   - Round-trip rendering (re-import and render identically)
package sink
