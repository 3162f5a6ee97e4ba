package matrix

// Even-distribution bounds. Real rows are normalized by their own row sum
// into [realMin, realMax], so a hub with many links and a leaf with one
// claim comparable arc space. Minimal-only rows are floored at minimalFloor
// to stay visible next to the rescaled rows.
const (
	realMin      = 1.0
	realMax      = 10.0
	minimalFloor = 0.3
)

// Rescaled returns a copy of the matrix with even-distribution weights.
//
// Rows with real connections have each real cell mapped to
// realMin + (realMax-realMin) * cell/rowSum; sentinel cells in those rows
// keep their sentinel weight. Rows carrying only minimal connections have
// every entry floored at minimalFloor.
func (m *Matrix) Rescaled() Matrix {
	out := m.Clone()
	n := out.Size()

	for i := 0; i < n; i++ {
		if !out.HasRealRow(i) {
			for j := 0; j < n; j++ {
				if out.Cells[i][j] > 0 && out.Cells[i][j] < minimalFloor {
					out.Cells[i][j] = minimalFloor
				}
			}
			continue
		}

		var realSum float64
		for j := 0; j < n; j++ {
			if IsReal(out.Cells[i][j]) {
				realSum += out.Cells[i][j]
			}
		}
		for j := 0; j < n; j++ {
			if IsReal(out.Cells[i][j]) {
				out.Cells[i][j] = realMin + (realMax-realMin)*out.Cells[i][j]/realSum
			}
		}
	}

	return out
}
