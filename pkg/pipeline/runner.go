package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chordial/chordial/pkg/cache"
	"github.com/chordial/chordial/pkg/errors"
	"github.com/chordial/chordial/pkg/graph"
	"github.com/chordial/chordial/pkg/matrix"
	"github.com/chordial/chordial/pkg/observability"
	"github.com/chordial/chordial/pkg/render/chord/layout"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)
	hooks := observability.Pipeline()

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Load the dataset once; every stage key derives from its hash.
	d, err := LoadDataset(opts)
	if err != nil {
		return nil, err
	}
	result.Dataset = d
	if data, err := graph.MarshalDataset(d); err == nil {
		result.DatasetHash = cache.Hash(data)
	}

	// Stage 1: Build
	buildStart := time.Now()
	hooks.OnBuildStart(ctx, len(d.Nodes), len(d.Links))
	m, buildHit, err := r.BuildMatrixWithCacheInfo(ctx, d, opts)
	result.Stats.BuildTime = time.Since(buildStart)
	hooks.OnBuildComplete(ctx, m.Size(), m.Dropped, result.Stats.BuildTime, err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "build matrix")
	}
	result.Matrix = m
	result.CacheInfo.BuildHit = buildHit

	r.Logger.Info("built matrix",
		"size", m.Size(),
		"dropped", m.Dropped,
		"duration", result.Stats.BuildTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	hooks.OnLayoutStart(ctx, m.Size())
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, m, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, len(l.Groups), len(l.Chords), result.Stats.LayoutTime, err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "compute layout")
	}
	result.Layout = l
	result.Stats.GroupCount = len(l.Groups)
	result.Stats.ChordCount = len(l.Chords)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"groups", len(l.Groups),
		"chords", len(l.Chords),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, l, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildMatrixWithCacheInfo builds the matrix with caching and returns
// cache hit info.
func (r *Runner) BuildMatrixWithCacheInfo(ctx context.Context, d graph.Dataset, opts Options) (matrix.Matrix, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return matrix.Matrix{}, false, err
	}
	r.applyLogger(&opts)
	cacheHooks := observability.Cache()

	// Compute cache key
	data, err := graph.MarshalDataset(d)
	if err != nil {
		return matrix.Matrix{}, false, err
	}
	cacheKey := r.Keyer.MatrixKey(cache.Hash(data), opts.MatrixKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var m matrix.Matrix
			if err := json.Unmarshal(cached, &m); err == nil {
				cacheHooks.OnCacheHit(ctx, "matrix")
				return m, true, nil // Cache hit
			}
		}
	}
	cacheHooks.OnCacheMiss(ctx, "matrix")

	// Build
	m := BuildMatrix(d, opts)

	// Cache the result
	if encoded, err := json.Marshal(m); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, encoded, cache.TTLMatrix)
		cacheHooks.OnCacheSet(ctx, "matrix", len(encoded))
	}

	return m, false, nil // Cache miss
}

// BuildMatrix is a convenience wrapper that calls BuildMatrixWithCacheInfo
// and discards the cache hit info.
func (r *Runner) BuildMatrix(ctx context.Context, d graph.Dataset, opts Options) (matrix.Matrix, error) {
	m, _, err := r.BuildMatrixWithCacheInfo(ctx, d, opts)
	return m, err
}

// ComputeLayoutWithCacheInfo computes the layout with caching and returns
// cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, m matrix.Matrix, opts Options) (layout.Layout, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return layout.Layout{}, false, err
	}
	r.applyLogger(&opts)
	cacheHooks := observability.Cache()

	// Compute cache key
	matrixData, err := json.Marshal(m)
	if err != nil {
		return layout.Layout{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(matrixData), opts.LayoutKeyOpts())

	// Try cache first
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var l layout.Layout
			if err := json.Unmarshal(cached, &l); err == nil {
				cacheHooks.OnCacheHit(ctx, "layout")
				return l, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}
	cacheHooks.OnCacheMiss(ctx, "layout")

	// Compute layout
	l := ComputeLayout(m, opts)

	// Cache the result
	if encoded, err := json.Marshal(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, encoded, cache.TTLLayout)
		cacheHooks.OnCacheSet(ctx, "layout", len(encoded))
	}

	return l, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo
// and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, m matrix.Matrix, opts Options) (layout.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, m, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info. The layout keys the artifact cache; the dataset feeds the
// scene build on a miss.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d graph.Dataset, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	cacheHooks := observability.Cache()

	// Compute cache key from layout data
	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		cacheHooks.OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	cacheHooks.OnCacheMiss(ctx, "artifact")

	// Render all formats
	rendered, err := Render(d, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		cacheHooks.OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, d graph.Dataset, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
