package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/graph"
	"github.com/chordial/chordial/pkg/matrix"
	"github.com/chordial/chordial/pkg/pipeline"
	"github.com/chordial/chordial/pkg/render/chord/layout"
)

// layoutCommand creates the layout command for computing angular layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)
	style := &styleFlags{}

	cmd := &cobra.Command{
		Use:   "layout [dataset.json]",
		Short: "Compute the angular layout for a relationship dataset",
		Long: `Compute the angular layout for a relationship dataset.

The layout command builds the weight matrix and computes group arcs and
chord flanks without rendering anything. The output is a JSON file with
the matrix and the layout, useful for external tooling or for inspecting
how the circle is divided.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := style.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], cfg, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	style.register(cmd)

	return cmd
}

// runLayout loads the dataset, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, cfg config.Config, output string, noCache, refresh bool) error {
	d, err := graph.ReadDatasetFile(input)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Dataset: &d,
		Config:  &cfg,
		Refresh: refresh,
		Logger:  c.Logger,
	}

	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()

	m, _, err := runner.BuildMatrixWithCacheInfo(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("build matrix: %w", err)
	}
	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := writeLayoutFile(outputPath, m, l); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(l.Groups), len(l.Chords), cacheHit)
	printNewline()
	printNextStep("Render", "chordial render "+input)

	return nil
}

// writeLayoutFile writes the matrix and layout as indented JSON.
func writeLayoutFile(path string, m matrix.Matrix, l layout.Layout) error {
	doc := struct {
		Labels []string      `json:"labels"`
		Matrix [][]float64   `json:"matrix"`
		Layout layout.Layout `json:"layout"`
	}{m.Labels, m.Cells, l}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
