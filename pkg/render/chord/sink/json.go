package sink

import (
	"encoding/json"

	"honnef.co/go/curve"

	"github.com/chordial/chordial/pkg/render/chord"
	"github.com/chordial/chordial/pkg/render/chord/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	matrix bool
	paths  bool
}

// WithJSONMatrix includes the full weight matrix. Sentinel cells keep
// their 0.2 placeholder value so a re-import lays out identically.
func WithJSONMatrix() JSONOption { return func(r *jsonRenderer) { r.matrix = true } }

// WithJSONPaths includes the SVG path data of every arc and ribbon,
// for tools that draw without re-running the geometry.
func WithJSONPaths() JSONOption { return func(r *jsonRenderer) { r.paths = true } }

type jsonOutput struct {
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Detailed bool        `json:"detailed,omitempty"`
	Dropped  int         `json:"dropped_links,omitempty"`
	Labels   []string    `json:"labels"`
	Counts   []int       `json:"counts,omitempty"`
	Groups   []jsonGroup `json:"groups"`
	Chords   []jsonChord `json:"chords"`
	Matrix   [][]float64 `json:"matrix,omitempty"`
}

type jsonGroup struct {
	layout.Group
	Path string `json:"path,omitempty"`
}

type jsonChord struct {
	Source layout.Flank `json:"source"`
	Target layout.Flank `json:"target"`
	Real   bool         `json:"real"`
	Path   string       `json:"path,omitempty"`
}

// RenderJSON exports the scene's layout and matrix data as a
// pretty-printed JSON document. This is the primary data interchange
// format, enabling:
//
//   - Integration with external visualization tools
//   - Caching computed layouts for fast re-rendering
//   - Round-trip rendering (re-import and render identically)
//
// It does not modify the scene and is safe to call concurrently with
// reads.
func RenderJSON(s *chord.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:    s.Config.Width,
		Height:   s.Config.Height,
		Detailed: s.Matrix.Detailed,
		Dropped:  s.Matrix.Dropped,
		Labels:   s.Matrix.Labels,
		Counts:   s.Matrix.Counts,
		Groups:   buildJSONGroups(s, r.paths),
		Chords:   buildJSONChords(s, r.paths),
	}
	if r.matrix {
		out.Matrix = s.Matrix.Cells
	}

	return json.MarshalIndent(out, "", "  ")
}

func buildJSONGroups(s *chord.Scene, paths bool) []jsonGroup {
	groups := make([]jsonGroup, 0, len(s.Arcs))
	for i := range s.Arcs {
		a := &s.Arcs[i]
		jg := jsonGroup{Group: a.Group}
		if paths {
			jg.Path = a.Path.SVG(curve.SVGOptions{})
		}
		groups = append(groups, jg)
	}
	return groups
}

func buildJSONChords(s *chord.Scene, paths bool) []jsonChord {
	chords := make([]jsonChord, 0, len(s.Ribbons))
	for i := range s.Ribbons {
		r := &s.Ribbons[i]
		jc := jsonChord{
			Source: r.Chord.Source,
			Target: r.Chord.Target,
			Real:   r.Real,
		}
		if paths && !r.Empty {
			jc.Path = r.Path.SVG(curve.SVGOptions{})
		}
		chords = append(chords, jc)
	}
	return chords
}
