// Package layout assigns circular arc space to matrix indices.
//
// The partition follows the classic chord layout: each index claims an arc
// proportional to its outgoing weight, subdivided into flanks (one per
// outgoing cell) sorted by descending weight, with a fixed pad angle
// between adjacent arcs. Indices whose row carries no weight are omitted
// by the partition and then synthesized, so the layout always emits
// exactly one group per matrix index.
//
// Angles are radians, measured clockwise from 12 o'clock.
package layout

import (
	"fmt"
	"math"
	"sort"

	"github.com/chordial/chordial/pkg/matrix"
)

// DefaultPadAngle is the gap between adjacent groups, in radians.
const DefaultPadAngle = 0.05

// synthSlotShare is the fraction of a circle segment a synthesized group
// occupies, leaving breathing room toward its neighbors.
const synthSlotShare = 0.9

// Flank is one side of a chord: the angular span a single matrix cell
// claims on its group's arc.
type Flank struct {
	Index      int     `json:"index"`
	Subindex   int     `json:"subindex"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	Value      float64 `json:"value"`
}

// Group is the full arc claimed by one matrix index.
type Group struct {
	Index      int     `json:"index"`
	Label      string  `json:"label"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	Value      float64 `json:"value"`

	// Synthesized marks groups the partition omitted (zero outgoing
	// weight) that received an equal-segment slot instead.
	Synthesized bool `json:"synthesized,omitempty"`
}

// Chord connects two flanks: the source span on one arc and the target
// span on another. Source always carries the larger weight.
type Chord struct {
	Source Flank `json:"source"`
	Target Flank `json:"target"`
}

// Key returns a stable identity for the chord, used to tag decorations
// for per-chord regeneration.
func (c *Chord) Key() string {
	return fmt.Sprintf("%d:%d", c.Source.Index, c.Target.Index)
}

// Real reports whether the chord represents a real connection rather
// than a sentinel placeholder.
func (c *Chord) Real() bool {
	return matrix.IsReal(c.Source.Value)
}

// Layout is the angular assignment for a whole matrix.
type Layout struct {
	Groups []Group `json:"groups"`
	Chords []Chord `json:"chords"`
}

// Options tunes the partition.
type Options struct {
	// PadAngle is the gap between adjacent groups in radians.
	// Zero means DefaultPadAngle.
	PadAngle float64

	// EvenDistribution rescales the matrix before partitioning so hubs
	// and leaves claim comparable arc space.
	EvenDistribution bool
}

// Compute partitions the circle for the given matrix.
//
// The same matrix and options always produce the same angles.
func Compute(m matrix.Matrix, opts Options) Layout {
	if opts.EvenDistribution {
		m = m.Rescaled()
	}

	pad := opts.PadAngle
	if pad == 0 {
		pad = DefaultPadAngle
	}

	n := m.Size()
	if n == 0 {
		return Layout{}
	}

	// Rows with weight participate in the partition; empty rows are
	// synthesized afterwards.
	var active []int
	var total float64
	rowSums := make([]float64, n)
	for i := 0; i < n; i++ {
		rowSums[i] = m.RowSum(i)
		if rowSums[i] > 0 {
			active = append(active, i)
			total += rowSums[i]
		}
	}

	groups := make([]Group, 0, n)
	// flanks[i][j] is the span matrix cell [i][j] claims on group i.
	flanks := make(map[[2]int]Flank, n)

	if total > 0 {
		k := math.Max(0, 2*math.Pi-pad*float64(len(active))) / total

		x := 0.0
		for _, i := range active {
			start := x

			// Subgroup order: descending cell weight, stable on index.
			order := make([]int, n)
			for j := range order {
				order[j] = j
			}
			sort.SliceStable(order, func(a, b int) bool {
				return m.At(i, order[a]) > m.At(i, order[b])
			})

			for _, j := range order {
				v := m.At(i, j)
				f := Flank{Index: i, Subindex: j, StartAngle: x, EndAngle: x + v*k, Value: v}
				x = f.EndAngle
				flanks[[2]int{i, j}] = f
			}

			groups = append(groups, Group{
				Index:      i,
				Label:      m.Labels[i],
				StartAngle: start,
				EndAngle:   x,
				Value:      rowSums[i],
			})
			x += pad
		}
	}

	// Synthesize groups for omitted indices: the circle divided into n
	// equal segments, each missing index centered in its own segment.
	covered := make(map[int]bool, len(groups))
	for _, g := range groups {
		covered[g.Index] = true
	}
	segment := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		if covered[i] {
			continue
		}
		inset := segment * (1 - synthSlotShare) / 2
		groups = append(groups, Group{
			Index:       i,
			Label:       m.Labels[i],
			StartAngle:  float64(i)*segment + inset,
			EndAngle:    float64(i+1)*segment - inset,
			Synthesized: true,
		})
	}

	sort.Slice(groups, func(a, b int) bool { return groups[a].Index < groups[b].Index })

	byIndex := make(map[int]*Group, len(groups))
	for i := range groups {
		byIndex[groups[i].Index] = &groups[i]
	}

	// zeroAnchor returns the recorded zero-width span for [i][j], or a
	// flank pinned to the group's arc midpoint when the row never
	// partitioned (synthesized groups have no flanks of their own).
	zeroAnchor := func(i, j int) Flank {
		if f, ok := flanks[[2]int{i, j}]; ok {
			return f
		}
		mid := 0.0
		if g := byIndex[i]; g != nil {
			mid = (g.StartAngle + g.EndAngle) / 2
		}
		return Flank{Index: i, Subindex: j, StartAngle: mid, EndAngle: mid}
	}

	// One chord per index pair with any flow, larger flow as source.
	var chords []Chord
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			src, srcOK := flanks[[2]int{i, j}]
			tgt, tgtOK := flanks[[2]int{j, i}]
			if srcOK && src.Value == 0 {
				srcOK = false
			}
			if tgtOK && tgt.Value == 0 {
				tgtOK = false
			}
			switch {
			case srcOK && tgtOK:
				if src.Value < tgt.Value {
					src, tgt = tgt, src
				}
				chords = append(chords, Chord{Source: src, Target: tgt})
			case srcOK:
				chords = append(chords, Chord{Source: src, Target: zeroAnchor(j, i)})
			case tgtOK:
				chords = append(chords, Chord{Source: tgt, Target: zeroAnchor(i, j)})
			}
		}
	}

	return Layout{Groups: groups, Chords: chords}
}

// GroupFor returns the group with the given index, or nil.
func (l *Layout) GroupFor(index int) *Group {
	for i := range l.Groups {
		if l.Groups[i].Index == index {
			return &l.Groups[i]
		}
	}
	return nil
}
