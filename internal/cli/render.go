package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/pipeline"
)

// renderCommand creates the render command for generating diagram artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
		refresh bool
	)
	style := &styleFlags{}

	cmd := &cobra.Command{
		Use:   "render [dataset.json]",
		Short: "Render a chord diagram from a relationship dataset",
		Long: `Render a chord diagram from a relationship dataset.

The render command takes a dataset file (nodes with categories, links
with values) and runs the full pipeline: weight matrix, angular layout,
and one artifact per requested format. SVG output embeds hover
highlighting; JSON output carries the layout for external tooling.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := style.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], cfg, parseFormats(formats), output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output basename (default: input name)")
	cmd.Flags().StringVarP(&formats, "formats", "f", "svg", "comma-separated output formats: svg, png, json")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	style.register(cmd)

	return cmd
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, cfg config.Config, formats []string, output string, noCache, refresh bool) error {
	for _, f := range formats {
		if err := pipeline.ValidateFormat(f); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		DataPath: input,
		Config:   &cfg,
		Formats:  formats,
		Refresh:  refresh,
		Logger:   c.Logger,
	}

	spinner := newSpinner(ctx, "Rendering chord diagram...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	printSuccess("Render complete")
	for _, format := range formats {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.GroupCount, result.Stats.ChordCount, result.CacheInfo.RenderHit)
	printNewline()
	printNextStep("Animate", "chordial animate "+input)

	return nil
}
