package chord

import (
	"fmt"
	"html"
	"strconv"

	"github.com/chordial/chordial/pkg/matrix"
)

// tooltipOffset nudges the payload position away from the pointer.
const tooltipOffset = 12

// Tooltip is the payload the host places next to the pointer. The HTML
// is ready to inject; hiding is signalled by Hover returning ok=false.
type Tooltip struct {
	HTML string  `json:"html"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Hover hit-tests the last rendered scene and formats a tooltip payload
// for the element under the pointer. ok=false means nothing is there and
// any visible tooltip should hide.
func (d *Diagram) Hover(x, y float64) (Tooltip, bool) {
	if d.scene == nil {
		return Tooltip{}, false
	}
	return tooltipFor(d.scene, d.scene.HitTest(x, y, d.transform), x, y)
}

func tooltipFor(s *Scene, hit Hit, x, y float64) (Tooltip, bool) {
	var content string
	switch hit.Kind {
	case HitArc:
		content = arcTooltip(s, hit.Arc)
	case HitRibbon:
		content = ribbonTooltip(s, hit.Ribbon)
	default:
		return Tooltip{}, false
	}
	return Tooltip{HTML: content, X: x + tooltipOffset, Y: y + tooltipOffset}, true
}

func arcTooltip(s *Scene, a *Arc) string {
	label := html.EscapeString(a.Label)
	i := a.Group.Index
	out, in := realTotals(s.Matrix, i)

	if s.Matrix.Detailed {
		return fmt.Sprintf("<strong>%s</strong><br/>out %s · in %s",
			label, formatValue(out), formatValue(in))
	}
	nodes := 0
	if i < len(s.Matrix.Counts) {
		nodes = s.Matrix.Counts[i]
	}
	return fmt.Sprintf("<strong>%s</strong><br/>%d nodes · out %s · in %s",
		label, nodes, formatValue(out), formatValue(in))
}

// ribbonTooltip reads true connection weights from the matrix rather
// than the flank values, which may be rescaled for even distribution.
func ribbonTooltip(s *Scene, r *Ribbon) string {
	srcIdx, tgtIdx := r.Chord.Source.Index, r.Chord.Target.Index
	src := html.EscapeString(labelOf(s, srcIdx))
	tgt := html.EscapeString(labelOf(s, tgtIdx))

	if !r.Real {
		return fmt.Sprintf("<strong>%s · %s</strong><br/>minimal connection, kept for layout visibility",
			src, tgt)
	}

	fwd := s.Matrix.At(srcIdx, r.Chord.Source.Subindex)
	text := fmt.Sprintf("<strong>%s → %s</strong><br/>%s connections",
		src, tgt, formatValue(fwd))
	if rev := s.Matrix.At(tgtIdx, r.Chord.Target.Subindex); matrix.IsReal(rev) {
		text += fmt.Sprintf("<br/>%s → %s: %s", tgt, src, formatValue(rev))
	}
	return text
}

func labelOf(s *Scene, index int) string {
	if grp := s.Layout.GroupFor(index); grp != nil {
		return grp.Label
	}
	return strconv.Itoa(index)
}

// realTotals sums a group's real outgoing and incoming weight, skipping
// sentinel cells.
func realTotals(m matrix.Matrix, i int) (out, in float64) {
	for j := 0; j < m.Size(); j++ {
		if v := m.At(i, j); matrix.IsReal(v) {
			out += v
		}
		if v := m.At(j, i); matrix.IsReal(v) {
			in += v
		}
	}
	return out, in
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
