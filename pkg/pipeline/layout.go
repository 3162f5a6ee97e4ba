package pipeline

import (
	"github.com/chordial/chordial/pkg/matrix"
	"github.com/chordial/chordial/pkg/render/chord/layout"
)

// =============================================================================
// Layout Stage
// =============================================================================

// ComputeLayout computes the angular layout for a matrix.
// This is the serializable intermediate form: group arcs sorted by value
// with their start/end angles, and one chord per connected cell pair.
//
// The layout depends only on the matrix and two style knobs (pad angle,
// even distribution), so it caches well across visual-only config edits.
func ComputeLayout(m matrix.Matrix, opts Options) layout.Layout {
	cfg := opts.StyleConfig()
	return layout.Compute(m, layout.Options{
		PadAngle:         cfg.PadAngle,
		EvenDistribution: cfg.EvenDistribution,
	})
}
