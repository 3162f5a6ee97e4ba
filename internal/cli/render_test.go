package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chordial/chordial/pkg/config"
)

func TestRunRenderWritesArtifacts(t *testing.T) {
	input := writeTestDataset(t)
	cfg := config.Default()
	cfg.LabelsEnabled = false

	err := testCLI().runRender(context.Background(), input, cfg,
		[]string{"svg", "json"}, "", true, false)
	if err != nil {
		t.Fatalf("runRender: %v", err)
	}

	base := strings.TrimSuffix(input, filepath.Ext(input))

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("read svg output: %v", err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg output should start with <svg, got %q", svg[:min(len(svg), 20)])
	}

	if _, err := os.Stat(base + ".json"); err != nil {
		t.Errorf("json output missing: %v", err)
	}
}

func TestRunRenderOutputOverride(t *testing.T) {
	input := writeTestDataset(t)
	out := filepath.Join(t.TempDir(), "diagram")
	cfg := config.Default()
	cfg.LabelsEnabled = false

	err := testCLI().runRender(context.Background(), input, cfg,
		[]string{"svg"}, out, true, false)
	if err != nil {
		t.Fatalf("runRender: %v", err)
	}

	if _, err := os.Stat(out + ".svg"); err != nil {
		t.Errorf("output override not honored: %v", err)
	}
}

func TestRunRenderInvalidFormat(t *testing.T) {
	input := writeTestDataset(t)

	err := testCLI().runRender(context.Background(), input, config.Default(),
		[]string{"gif"}, "", true, false)
	if err == nil {
		t.Error("runRender should reject unknown formats")
	}
}

func TestRunRenderMissingInput(t *testing.T) {
	err := testCLI().runRender(context.Background(), "/nonexistent/data.json",
		config.Default(), []string{"svg"}, "", true, false)
	if err == nil {
		t.Error("runRender should fail for a missing dataset")
	}
}

func TestRenderCommandFlags(t *testing.T) {
	cmd := testCLI().renderCommand()

	for _, name := range []string{"output", "formats", "no-cache", "refresh", "config", "width", "particles"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("render command is missing flag %q", name)
		}
	}
}
