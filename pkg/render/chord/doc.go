// Package chord renders relationship data as an interactive chord diagram.
//
// # Overview
//
// Categories or individual nodes occupy arcs around a circle, connected by
// curved ribbons. A [Diagram] drives the full pipeline:
//
//  1. Matrix: aggregate node/link data into a square connectivity matrix.
//  2. Layout ([layout]): partition the circle into arc groups and chords.
//  3. Geometry ([geom]): generate arc and ribbon paths.
//  4. Decoration ([decor]): populate ribbon paths with particles or shapes.
//  5. Backend: hand decorations to the active [ParticleRenderer].
//
// # Redraw Model
//
// Scene computation is synchronous and single-threaded. Configuration
// updates mark the diagram dirty; [Diagram.Redraw] rebuilds the [Scene]
// only when dirty, so bursts of updates coalesce into one recomputation.
// A failed redraw keeps the last good scene on screen and reports the
// error through [Diagram.Err].
//
// Matrices and layouts are rebuilt only when the data or the view flags
// change. Ribbons and decorations are rebuilt on every redraw and have no
// identity across frames.
//
// # Decoration Backends
//
// Exactly one backend is active per redraw: [Vector] emits decoration
// primitives inline (the default), [Accelerated] rasterizes them into an
// image layer at a supersampled resolution for large particle counts and
// continuous movement. If the accelerated backend cannot acquire its
// raster context, the diagram falls back to the vector backend and keeps
// rendering. When the accelerated backend is active, ribbons still render
// as near-invisible vector paths so pointer hit-testing keeps working.
//
// [layout]: github.com/chordial/chordial/pkg/render/chord/layout
// [geom]: github.com/chordial/chordial/pkg/render/chord/geom
// [decor]: github.com/chordial/chordial/pkg/render/chord/decor
package chord
