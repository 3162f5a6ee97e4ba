package chord

import (
	"context"
	"time"

	"honnef.co/go/curve"

	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/errors"
	"github.com/chordial/chordial/pkg/graph"
	"github.com/chordial/chordial/pkg/matrix"
	"github.com/chordial/chordial/pkg/observability"
	"github.com/chordial/chordial/pkg/palette"
	"github.com/chordial/chordial/pkg/render/chord/decor"
	"github.com/chordial/chordial/pkg/render/chord/geom"
	"github.com/chordial/chordial/pkg/render/chord/layout"
)

// minimalDim mutes ribbon opacity for sentinel connections.
const minimalDim = 0.4

// Arc is one rendered group arc.
type Arc struct {
	Group  layout.Group
	Path   curve.BezPath
	Fill   string
	Stroke string
	Label  string
	Anchor geom.LabelAnchor
}

// Ribbon is one rendered chord. Empty marks a chord whose geometry was
// degenerate; its path is blank and hit-testing skips it.
type Ribbon struct {
	Chord       layout.Chord
	Path        curve.BezPath
	Empty       bool
	Real        bool
	Fill        string
	SourceColor string
	TargetColor string
	StrokeColor string
	StrokeWidth float64
	Opacity     float64
}

// Key returns the chord identity used to tag decorations.
func (r *Ribbon) Key() string { return r.Chord.Key() }

// Scene is one fully materialized diagram frame. Nothing in it is
// pending or asynchronous; a scene handed to a sink can be exported
// as-is.
type Scene struct {
	Config      config.Config
	Matrix      matrix.Matrix
	Layout      layout.Layout
	Geometry    geom.Geometry
	Arcs        []Arc
	Ribbons     []Ribbon
	Decorations *decor.Collection
	Samplers    map[string]*decor.Sampler
}

// matrixKey captures the view flags that force a matrix rebuild.
type matrixKey struct {
	detailed bool
	showAll  bool
}

// Diagram owns the chord pipeline for one dataset: it caches the matrix,
// tracks the pending configuration against the last rendered one, and
// swaps decoration backends as the config demands.
//
// All methods are meant for a single goroutine; only the accelerated
// backend runs its own frame loop internally.
type Diagram struct {
	data   graph.Dataset
	colors palette.ColorFunc

	pending  config.Config
	rendered config.Config
	dirty    bool

	mat      matrix.Matrix
	matKey   matrixKey
	matValid bool

	scene   *Scene
	lastErr error

	transform Transform
	vector    *Vector
	accel     *Accelerated
	renderer  ParticleRenderer
}

// Option configures a Diagram.
type Option func(*Diagram)

// WithColors overrides the arc color resolution.
func WithColors(f palette.ColorFunc) Option {
	return func(d *Diagram) { d.colors = f }
}

// WithConfig sets the initial configuration.
func WithConfig(cfg config.Config) Option {
	return func(d *Diagram) { d.pending = cfg.Normalize() }
}

// New creates a diagram over the dataset. The first Redraw builds the
// initial scene.
func New(data graph.Dataset, opts ...Option) *Diagram {
	d := &Diagram{
		data:      data,
		colors:    palette.Default(),
		pending:   config.Default(),
		transform: Identity(),
		vector:    NewVector(),
		dirty:     true,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.renderer = d.vector
	return d
}

// Update replaces the pending configuration. The diagram goes dirty only
// if the config actually differs from the last rendered one, so repeated
// identical updates cost nothing.
func (d *Diagram) Update(cfg config.Config) {
	cfg = cfg.Normalize()
	d.pending = cfg
	if cfg != d.rendered || d.scene == nil {
		d.dirty = true
	}
}

// UpdateData replaces the dataset and invalidates the cached matrix.
func (d *Diagram) UpdateData(data graph.Dataset) {
	d.data = data
	d.matValid = false
	d.dirty = true
}

// Config returns the pending configuration.
func (d *Diagram) Config() config.Config { return d.pending }

// Scene returns the last successfully rendered scene, which may be nil
// before the first Redraw.
func (d *Diagram) Scene() *Scene { return d.scene }

// Err returns the error state of the last redraw, nil after a clean one.
func (d *Diagram) Err() error { return d.lastErr }

// Renderer returns the active decoration backend.
func (d *Diagram) Renderer() ParticleRenderer { return d.renderer }

// SetTransform pushes the viewport transform to the active backend.
func (d *Diagram) SetTransform(t Transform) {
	d.transform = t
	d.renderer.SetTransform(t)
}

// Transform returns the current viewport transform.
func (d *Diagram) Transform() Transform { return d.transform }

// Redraw rebuilds the scene if the diagram is dirty. On failure the last
// good scene is returned alongside the error and stays on screen; a
// successful redraw clears the error state.
func (d *Diagram) Redraw() (*Scene, error) {
	if !d.dirty && d.scene != nil {
		return d.scene, nil
	}

	ctx := context.Background()
	hooks := observability.Render()
	hooks.OnRedrawStart(ctx)
	start := time.Now()

	scene, err := d.buildScene(ctx, d.pending)
	if err != nil {
		d.lastErr = err
		hooks.OnRedrawComplete(ctx, time.Since(start), err)
		return d.scene, err
	}

	d.ensureRenderer(ctx, scene.Config)
	if err := d.renderer.Prepare(scene); err != nil {
		hooks.OnBackendFallback(ctx, err.Error())
		d.dropAccelerated()
		d.renderer = d.vector
		d.vector.Prepare(scene)
	}
	d.renderer.SetTransform(d.transform)

	d.scene = scene
	d.rendered = scene.Config
	d.dirty = false
	d.lastErr = nil
	hooks.OnRedrawComplete(ctx, time.Since(start), nil)
	return scene, nil
}

// Close stops any backend frame loop and releases backend resources.
func (d *Diagram) Close() error {
	d.dropAccelerated()
	return d.vector.Close()
}

// ensureRenderer picks the backend for this redraw. Toggling away from
// the accelerated backend cancels its frame loop.
func (d *Diagram) ensureRenderer(ctx context.Context, cfg config.Config) {
	if !cfg.Accelerated {
		d.dropAccelerated()
		d.renderer = d.vector
		return
	}

	w, h := int(cfg.Width), int(cfg.Height)
	if d.accel != nil && !d.accel.Fits(w, h, cfg.AcceleratedQuality) {
		d.dropAccelerated()
	}
	if d.accel == nil {
		a, err := NewAccelerated(w, h, cfg.AcceleratedQuality)
		if err != nil {
			observability.Render().OnBackendFallback(ctx, err.Error())
			d.renderer = d.vector
			return
		}
		d.accel = a
	}
	d.renderer = d.accel
	if cfg.ParticleMovement {
		d.accel.Start()
	} else {
		d.accel.Stop()
	}
}

func (d *Diagram) dropAccelerated() {
	if d.accel == nil {
		return
	}
	d.accel.Close()
	d.accel = nil
}

// buildScene runs the full pipeline for one configuration. A panic in
// any stage is caught here so a malformed input degrades to an error
// instead of taking down the host.
func (d *Diagram) buildScene(ctx context.Context, cfg config.Config) (s *Scene, err error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = errors.New(errors.ErrCodeRenderFailed, "redraw panicked: %v", r)
		}
	}()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := d.matrixFor(cfg)
	lay := layout.Compute(m, layout.Options{
		PadAngle:         cfg.PadAngle,
		EvenDistribution: cfg.EvenDistribution,
	})
	g := geom.New(cfg.Width, cfg.Height, cfg.InnerRadiusRatio)

	scene := &Scene{
		Config:      cfg,
		Matrix:      m,
		Layout:      lay,
		Geometry:    g,
		Decorations: decor.NewCollection(),
		Samplers:    make(map[string]*decor.Sampler),
	}

	for _, grp := range lay.Groups {
		fill := d.colors(grp.Index, grp.Label)
		scene.Arcs = append(scene.Arcs, Arc{
			Group:  grp,
			Path:   g.GroupArc(grp),
			Fill:   fill,
			Stroke: palette.Darken(fill, 0.3),
			Label:  grp.Label,
			Anchor: g.LabelAnchor(grp),
		})
	}

	d.buildRibbons(ctx, scene, g, cfg)
	return scene, nil
}

// buildRibbons generates ribbon paths and their decorations. A chord
// whose geometry degenerates gets an empty path and no decorations;
// every other chord renders normally.
func (d *Diagram) buildRibbons(ctx context.Context, scene *Scene, g geom.Geometry, cfg config.Config) {
	style := geom.RibbonStyle{
		Variation: cfg.WidthVariation,
		Anchor:    geom.ResolveAnchor(cfg.WidthPosition, cfg.WidthCustomPosition),
	}
	strokeWidth := geom.EffectiveStrokeWidth(cfg.StrokeWidth, cfg.StrokeWidthVariation,
		geom.ResolveAnchor(cfg.StrokeWidthPosition, cfg.StrokeWidthCustomPosition))
	rng := decor.NewRand(cfg.ParticleSeed)
	hooks := observability.Render()

	for _, c := range scene.Layout.Chords {
		rb := Ribbon{Chord: c, Real: c.Real()}

		path, err := g.Ribbon(c, style)
		if err != nil {
			hooks.OnDegenerateChord(ctx, c.Source.Index, c.Target.Index)
			rb.Empty = true
		} else {
			rb.Path = path
		}

		d.styleRibbon(&rb, scene, cfg, strokeWidth)
		scene.Ribbons = append(scene.Ribbons, rb)

		if rb.Empty || (!cfg.ParticleMode && !cfg.ShapesEnabled) {
			continue
		}
		key := c.Key()
		sampler := decor.NewSampler(rb.Path)
		scene.Samplers[key] = sampler
		if cfg.ParticleMode {
			scene.Decorations.SetParticles(key, decor.Particles(sampler, cfg, rb.Real, rb.Fill, rng))
		}
		if cfg.ShapesEnabled {
			scene.Decorations.SetShapes(key, decor.Shapes(sampler, cfg, rb.Fill))
		}
	}
}

// styleRibbon resolves the fill, stroke, and opacity for one ribbon from
// the configuration and the color function.
func (d *Diagram) styleRibbon(rb *Ribbon, scene *Scene, cfg config.Config, strokeWidth float64) {
	src := d.groupColor(scene, rb.Chord.Source.Index)
	tgt := d.groupColor(scene, rb.Chord.Target.Index)
	if cfg.SourceColor != "" {
		src = cfg.SourceColor
	}
	if cfg.TargetColor != "" {
		tgt = cfg.TargetColor
	}

	fill := src
	if !cfg.ColoredRibbons {
		fill = cfg.RibbonFill
		if fill == "" {
			fill = palette.DefaultMinimal
		}
	}

	opacity := cfg.RibbonOpacity
	if !rb.Real {
		fill = palette.DefaultMinimal
		opacity *= minimalDim
	}

	rb.Fill = fill
	rb.SourceColor = src
	rb.TargetColor = tgt
	rb.StrokeColor = palette.Darken(fill, 0.4)
	rb.StrokeWidth = strokeWidth
	rb.Opacity = opacity
}

func (d *Diagram) groupColor(scene *Scene, index int) string {
	if grp := scene.Layout.GroupFor(index); grp != nil {
		return d.colors(grp.Index, grp.Label)
	}
	return palette.DefaultMinimal
}

// matrixFor rebuilds the matrix only when the data or view flags changed
// since the last build.
func (d *Diagram) matrixFor(cfg config.Config) matrix.Matrix {
	key := matrixKey{detailed: cfg.DetailedView, showAll: cfg.ShowAllNodes}
	if !d.matValid || key != d.matKey {
		d.mat = matrix.Build(d.data, matrix.Options{
			Detailed: key.detailed,
			ShowAll:  key.showAll,
		})
		d.matKey = key
		d.matValid = true
	}
	return d.mat
}
