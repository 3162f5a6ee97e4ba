// Package pkg provides the core libraries for Chordial chord-diagram rendering.
//
// # Overview
//
// Chordial transforms relationship datasets into circular chord diagrams where
// categories occupy arcs around a ring and weighted connections flow between
// them as curved ribbons. The pkg directory is organized into four main areas:
//
//  1. [render/chord] - Domain logic (layout, geometry, decoration, hit-testing)
//  2. [pipeline] - Orchestration (build -> layout -> render) with caching
//  3. [graph] / [matrix] / [config] - Data model and configuration
//  4. [cache] / [store] / [anim] / [observability] - Infrastructure and support
//
// # Architecture
//
// The typical data flow through Chordial:
//
//	Dataset (JSON nodes + links)
//	         |
//	    [matrix] package (aggregate into a connectivity matrix)
//	         |
//	    [render/chord/layout] package (partition the circle)
//	         |
//	    [render/chord] package (geometry + decorations + scene)
//	         |
//	    SVG/PNG/JSON output
//
// # Quick Start
//
// Load a dataset and render a chord diagram:
//
//	import (
//	    "github.com/chordial/chordial/pkg/config"
//	    "github.com/chordial/chordial/pkg/graph"
//	    "github.com/chordial/chordial/pkg/render/chord"
//	    "github.com/chordial/chordial/pkg/render/chord/sink"
//	)
//
//	// 1. Load the dataset
//	d, _ := graph.ReadDatasetFile("data.json")
//
//	// 2. Build the diagram and materialize a scene
//	dg := chord.New(d, chord.WithConfig(config.Default()))
//	defer dg.Close()
//	scene, _ := dg.Redraw()
//
//	// 3. Render to SVG
//	svg := sink.RenderSVG(scene, sink.WithDecorations(dg.Renderer()))
//
// # Main Packages
//
// ## Core Domain Logic
//
// [render/chord] - The diagram engine. Owns the redraw cycle, the dual
// decoration backends (vector and accelerated raster), viewport transforms,
// hit-testing, and tooltips.
//
// [render/chord/layout] - Circular layout: converts a weight matrix into arc
// groups and chords with angular spans, including synthesized groups for
// isolated categories and even-distribution mode.
//
// [render/chord/geom] - Path geometry on [honnef.co/go/curve]: annular group
// arcs, ribbons with width variation, label anchors.
//
// [render/chord/decor] - Ribbon decorations: arc-length samplers, seeded
// particle distributions, evenly spaced shapes, per-view caps.
//
// [render/chord/sink] - Output formats (SVG, PNG, JSON).
//
// ## Data Model
//
// [graph] - Dataset types (nodes with categories, weighted links) and JSON IO.
//
// [matrix] - Aggregates a dataset into the square connectivity matrix the
// layout consumes, in category or detailed per-node view.
//
// [config] - The rendering configuration: ~50 fields across ribbons, shapes,
// particles, animation, and view modes, with TOML file support and
// partial-update semantics.
//
// [palette] - Arc color resolution and hex color utilities.
//
// ## Infrastructure
//
// [pipeline] - Complete rendering pipeline (build -> layout -> render) used by
// the CLI and the preview server. Each stage is cache-keyed by a hash of its
// inputs so repeated renders of the same dataset are cheap.
//
// [cache] - Cache backends: FileCache (CLI), RedisCache (server), NullCache
// (tests and --no-cache).
//
// [store] - Saved-diagram persistence: MongoDB and in-memory backends behind
// one Store interface.
//
// ## Support
//
// [anim] - The reveal animation sequencer: timer-driven ribbon reveal with
// play/pause/step/reset transport.
//
// [observability] - Hook interfaces for render, animation, and cache events,
// with no-op defaults. Hosts register implementations to observe the engine
// without coupling it to a logger.
//
// [errors] - Coded errors shared by all packages; codes map to user messages
// and HTTP statuses at the edges.
//
// [fonts] - Label typography: the SVG font stack and TTF face loading for
// raster output.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Common Workflows
//
// Render through the cached pipeline:
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    DataPath: "data.json",
//	    Formats:  []string{"svg", "png"},
//	})
//	os.WriteFile("out.svg", result.Artifacts["svg"], 0o644)
//
// Animate the ribbon reveal:
//
//	seq := anim.NewSequencer(len(scene.Ribbons), cfg)
//	defer seq.Close()
//	seq.Play()
//	svg := sink.RenderSVG(scene, sink.WithReveal(seq.Index()))
//
// Hit-test a pointer position:
//
//	if tip, ok := dg.Hover(x, y); ok {
//	    fmt.Println(tip.HTML)
//	}
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                      # All tests
//	go test ./pkg/render/chord/...         # Specific package
//	go test -run Example                   # Examples only
//
// [render/chord]: https://pkg.go.dev/github.com/chordial/chordial/pkg/render/chord
// [render/chord/layout]: https://pkg.go.dev/github.com/chordial/chordial/pkg/render/chord/layout
// [render/chord/geom]: https://pkg.go.dev/github.com/chordial/chordial/pkg/render/chord/geom
// [render/chord/decor]: https://pkg.go.dev/github.com/chordial/chordial/pkg/render/chord/decor
// [render/chord/sink]: https://pkg.go.dev/github.com/chordial/chordial/pkg/render/chord/sink
// [graph]: https://pkg.go.dev/github.com/chordial/chordial/pkg/graph
// [matrix]: https://pkg.go.dev/github.com/chordial/chordial/pkg/matrix
// [config]: https://pkg.go.dev/github.com/chordial/chordial/pkg/config
// [palette]: https://pkg.go.dev/github.com/chordial/chordial/pkg/palette
// [pipeline]: https://pkg.go.dev/github.com/chordial/chordial/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/chordial/chordial/pkg/cache
// [store]: https://pkg.go.dev/github.com/chordial/chordial/pkg/store
// [anim]: https://pkg.go.dev/github.com/chordial/chordial/pkg/anim
// [observability]: https://pkg.go.dev/github.com/chordial/chordial/pkg/observability
// [errors]: https://pkg.go.dev/github.com/chordial/chordial/pkg/errors
// [fonts]: https://pkg.go.dev/github.com/chordial/chordial/pkg/fonts
// [buildinfo]: https://pkg.go.dev/github.com/chordial/chordial/pkg/buildinfo
// [honnef.co/go/curve]: https://pkg.go.dev/honnef.co/go/curve
package pkg
