// Package matrix synthesizes square relationship matrices from datasets.
//
// A chord diagram is driven by a square matrix: cell [i][j] holds the weight
// of the directed relationship from index i to index j. This package builds
// that matrix from a [graph.Dataset] in two granularities:
//
//   - category view: one index per category, cells aggregate link weights
//     between the categories of the endpoints
//   - detailed view: one index per node, cells aggregate link weights
//     between individual nodes
//
// Entities without real connections can still claim arc space: with
// [Options.ShowAll], the builder writes [Sentinel] weights into the empty
// rows and columns so every index keeps at least one incoming and one
// outgoing entry. Downstream styling distinguishes these minimal
// connections from real ones via [IsReal].
package matrix

// Sentinel is the weight written for minimal connections: placeholder
// entries that give disconnected entities arc space without pretending a
// real relationship exists. Values at or below Sentinel render muted and
// report as "minimal" in tooltips.
const Sentinel = 0.2

// IsReal reports whether a cell weight represents a real connection,
// as opposed to a sentinel placeholder.
func IsReal(v float64) bool { return v > Sentinel }

// Matrix is a square relationship matrix plus the labeling needed to map
// indices back to categories or node ids.
type Matrix struct {
	// Labels maps index → category name (category view) or node id
	// (detailed view), in first-seen dataset order.
	Labels []string

	// Counts maps index → number of dataset nodes behind the index.
	// Always 1 in detailed view.
	Counts []int

	// Cells holds the weights. Cells[i][j] is the flow from i to j.
	// The diagonal is always zero.
	Cells [][]float64

	// Detailed is true when indices are individual nodes.
	Detailed bool

	// Dropped counts links that referenced unknown ids and were skipped.
	Dropped int
}

// Size returns the number of indices.
func (m *Matrix) Size() int { return len(m.Labels) }

// At returns the weight of the cell [i][j].
func (m *Matrix) At(i, j int) float64 { return m.Cells[i][j] }

// RowSum returns the total outgoing weight of index i.
func (m *Matrix) RowSum(i int) float64 {
	var sum float64
	for _, v := range m.Cells[i] {
		sum += v
	}
	return sum
}

// ColSum returns the total incoming weight of index j.
func (m *Matrix) ColSum(j int) float64 {
	var sum float64
	for i := range m.Cells {
		sum += m.Cells[i][j]
	}
	return sum
}

// HasRealRow reports whether index i has at least one real outgoing entry.
func (m *Matrix) HasRealRow(i int) bool {
	for _, v := range m.Cells[i] {
		if IsReal(v) {
			return true
		}
	}
	return false
}

// IndexOf returns the index of the given label, or -1.
func (m *Matrix) IndexOf(label string) int {
	for i, l := range m.Labels {
		if l == label {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the matrix.
func (m *Matrix) Clone() Matrix {
	out := Matrix{
		Labels:   append([]string(nil), m.Labels...),
		Counts:   append([]int(nil), m.Counts...),
		Cells:    make([][]float64, len(m.Cells)),
		Detailed: m.Detailed,
		Dropped:  m.Dropped,
	}
	for i := range m.Cells {
		out.Cells[i] = append([]float64(nil), m.Cells[i]...)
	}
	return out
}

func newMatrix(labels []string, counts []int, detailed bool) Matrix {
	cells := make([][]float64, len(labels))
	for i := range cells {
		cells[i] = make([]float64, len(labels))
	}
	return Matrix{Labels: labels, Counts: counts, Cells: cells, Detailed: detailed}
}
