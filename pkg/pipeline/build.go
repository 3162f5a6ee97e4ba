package pipeline

import (
	"github.com/chordial/chordial/pkg/errors"
	"github.com/chordial/chordial/pkg/graph"
	"github.com/chordial/chordial/pkg/matrix"
)

// =============================================================================
// Build Stage
// =============================================================================

// LoadDataset resolves the input dataset from the options, either from
// the inline dataset or from a JSON file on disk. The dataset is
// validated before it is returned.
func LoadDataset(opts Options) (graph.Dataset, error) {
	var (
		d   graph.Dataset
		err error
	)
	switch {
	case opts.Dataset != nil:
		d = *opts.Dataset
	case opts.DataPath != "":
		d, err = graph.ReadDatasetFile(opts.DataPath)
		if err != nil {
			return graph.Dataset{}, err
		}
	default:
		return graph.Dataset{}, errors.New(errors.ErrCodeInvalidInput,
			"data path or inline dataset is required")
	}

	if err := d.Validate(); err != nil {
		return graph.Dataset{}, err
	}
	return d, nil
}

// BuildMatrix derives the weight matrix from a dataset.
//
// The view flags in the style config select between the category matrix
// (rows are categories) and the detailed matrix (rows are entities).
// Disconnected rows are padded with sentinel weights so every group
// keeps a visible arc.
func BuildMatrix(d graph.Dataset, opts Options) matrix.Matrix {
	cfg := opts.StyleConfig()
	return matrix.Build(d, matrix.Options{
		Detailed: cfg.DetailedView,
		ShowAll:  cfg.ShowAllNodes,
	})
}
