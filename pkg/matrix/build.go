package matrix

import (
	"github.com/chordial/chordial/pkg/graph"
)

// Options controls matrix synthesis.
type Options struct {
	// Detailed switches from one-index-per-category to one-index-per-node.
	Detailed bool

	// ShowAll indexes every entity, not just linked ones, and writes
	// Sentinel weights so disconnected entities keep arc space.
	ShowAll bool
}

// Build synthesizes a relationship matrix from the dataset.
//
// Links whose source or target id resolves to no node are dropped and
// counted in [Matrix.Dropped]; a partially-resolved dataset still renders.
// Self-relationships (same index on both ends) are ignored, so the
// diagonal is always zero.
func Build(d graph.Dataset, opts Options) Matrix {
	if opts.Detailed {
		return buildDetailed(d, opts)
	}
	return buildCategories(d, opts)
}

func buildCategories(d graph.Dataset, opts Options) Matrix {
	categories := d.Categories()

	index := make(map[string]int, len(categories))
	counts := make([]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}
	byNode := make(map[string]int, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		ci := index[n.CategoryOrDefault()]
		byNode[n.ID] = ci
		counts[ci]++
	}

	m := newMatrix(categories, counts, false)

	for i := range d.Links {
		l := &d.Links[i]
		si, ok := byNode[l.Source]
		if !ok {
			m.Dropped++
			continue
		}
		ti, ok := byNode[l.Target]
		if !ok {
			m.Dropped++
			continue
		}
		if si == ti {
			continue
		}
		m.Cells[si][ti] += l.Weight()
	}

	if opts.ShowAll {
		fillSentinels(&m)
	}
	return m
}

func buildDetailed(d graph.Dataset, opts Options) Matrix {
	known := make(map[string]bool, len(d.Nodes))
	for i := range d.Nodes {
		known[d.Nodes[i].ID] = true
	}

	// Without ShowAll only nodes that participate in a resolved link
	// claim an index, in first-seen dataset order.
	var labels []string
	if opts.ShowAll {
		labels = make([]string, len(d.Nodes))
		for i := range d.Nodes {
			labels[i] = d.Nodes[i].ID
		}
	} else {
		linked := make(map[string]bool, len(d.Nodes))
		for i := range d.Links {
			l := &d.Links[i]
			if known[l.Source] && known[l.Target] {
				linked[l.Source] = true
				linked[l.Target] = true
			}
		}
		for i := range d.Nodes {
			if linked[d.Nodes[i].ID] {
				labels = append(labels, d.Nodes[i].ID)
			}
		}
	}

	index := make(map[string]int, len(labels))
	counts := make([]int, len(labels))
	for i, id := range labels {
		index[id] = i
		counts[i] = 1
	}

	m := newMatrix(labels, counts, true)

	for i := range d.Links {
		l := &d.Links[i]
		si, ok := index[l.Source]
		if !ok {
			m.Dropped++
			continue
		}
		ti, ok := index[l.Target]
		if !ok {
			m.Dropped++
			continue
		}
		if si == ti {
			continue
		}
		m.Cells[si][ti] += l.Weight()
	}

	if opts.ShowAll {
		fillSentinels(&m)
	}
	return m
}

// fillSentinels gives every index at least one outgoing and one incoming
// entry. Indices with an empty row get Sentinel toward every other index;
// indices with an empty column get Sentinel from every other index, only
// into cells that are still zero.
func fillSentinels(m *Matrix) {
	n := m.Size()
	for i := 0; i < n; i++ {
		if m.RowSum(i) == 0 {
			for j := 0; j < n; j++ {
				if j != i {
					m.Cells[i][j] = Sentinel
				}
			}
		}
	}
	for j := 0; j < n; j++ {
		if m.ColSum(j) == 0 {
			for i := 0; i < n; i++ {
				if i != j && m.Cells[i][j] == 0 {
					m.Cells[i][j] = Sentinel
				}
			}
		}
	}
}
