package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMarshalDataset(t *testing.T) {
	tests := []struct {
		name      string
		dataset   Dataset
		wantNodes int
		wantLinks int
		check     func(t *testing.T, d Dataset)
	}{
		{
			name:      "Empty",
			dataset:   Dataset{},
			wantNodes: 0,
			wantLinks: 0,
		},
		{
			name: "Simple",
			dataset: Dataset{
				Nodes: []Node{
					{ID: "auth", Category: "Services"},
					{ID: "web", Category: "Apps"},
				},
				Links: []Link{{Source: "web", Target: "auth"}},
			},
			wantNodes: 2,
			wantLinks: 1,
		},
		{
			name: "PreservesMetadata",
			dataset: Dataset{
				Nodes: []Node{
					{
						ID:       "auth",
						Category: "Services",
						Meta: map[string]any{
							"owner": "platform",
							"tier":  "1",
						},
					},
				},
			},
			wantNodes: 1,
			wantLinks: 0,
			check: func(t *testing.T, d Dataset) {
				if d.Nodes[0].Meta["owner"] != "platform" {
					t.Errorf("owner = %v, want platform", d.Nodes[0].Meta["owner"])
				}
				if d.Nodes[0].Meta["tier"] != "1" {
					t.Errorf("tier = %v, want 1", d.Nodes[0].Meta["tier"])
				}
			},
		},
		{
			name: "WeightedLinks",
			dataset: Dataset{
				Nodes: []Node{
					{ID: "a", Category: "X"},
					{ID: "b", Category: "Y"},
				},
				Links: []Link{
					{Source: "a", Target: "b", Value: 3},
					{Source: "b", Target: "a"},
				},
			},
			wantNodes: 2,
			wantLinks: 2,
			check: func(t *testing.T, d Dataset) {
				if d.Links[0].Weight() != 3 {
					t.Errorf("Weight() = %v, want 3", d.Links[0].Weight())
				}
				if d.Links[1].Weight() != 1 {
					t.Errorf("zero value Weight() = %v, want 1", d.Links[1].Weight())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalDataset(tt.dataset)
			if err != nil {
				t.Fatalf("MarshalDataset: %v", err)
			}

			var result Dataset
			if err := json.Unmarshal(data, &result); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			if got := len(result.Nodes); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := len(result.Links); got != tt.wantLinks {
				t.Errorf("links = %d, want %d", got, tt.wantLinks)
			}
			if tt.check != nil {
				tt.check(t, result)
			}
		})
	}
}

func TestReadDataset(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		in := Dataset{
			Nodes: []Node{
				{ID: "auth", Category: "Services", Label: "Auth Service"},
				{ID: "web", Category: "Apps"},
			},
			Links: []Link{
				{Source: "web", Target: "auth"},
				{Source: "auth", Target: "web", Value: 2},
			},
		}

		var buf bytes.Buffer
		if err := WriteDataset(in, &buf); err != nil {
			t.Fatalf("WriteDataset: %v", err)
		}

		out, err := ReadDataset(&buf)
		if err != nil {
			t.Fatalf("ReadDataset: %v", err)
		}

		if len(out.Nodes) != 2 || len(out.Links) != 2 {
			t.Fatalf("round trip lost data: %d nodes, %d links", len(out.Nodes), len(out.Links))
		}
		if out.Nodes[0].Label != "Auth Service" {
			t.Errorf("label = %q, want %q", out.Nodes[0].Label, "Auth Service")
		}
	})

	t.Run("DanglingLinkAccepted", func(t *testing.T) {
		data := `{
			"nodes": [{"id": "a", "category": "X"}],
			"links": [{"source": "a", "target": "missing"}]
		}`

		d, err := ReadDataset(strings.NewReader(data))
		if err != nil {
			t.Fatalf("ReadDataset: %v", err)
		}
		if len(d.Links) != 1 {
			t.Errorf("links = %d, want 1 (dangling links pass validation)", len(d.Links))
		}
	})

	t.Run("DuplicateNodeRejected", func(t *testing.T) {
		data := `{
			"nodes": [{"id": "a", "category": "X"}, {"id": "a", "category": "Y"}],
			"links": []
		}`

		if _, err := ReadDataset(strings.NewReader(data)); err == nil {
			t.Error("duplicate node id should fail validation")
		}
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		if _, err := ReadDataset(strings.NewReader("{not json")); err == nil {
			t.Error("malformed JSON should fail")
		}
	})

	t.Run("EmptyEndpointRejected", func(t *testing.T) {
		data := `{
			"nodes": [{"id": "a", "category": "X"}],
			"links": [{"source": "", "target": "a"}]
		}`

		if _, err := ReadDataset(strings.NewReader(data)); err == nil {
			t.Error("empty link endpoint should fail validation")
		}
	})
}

func TestDatasetFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.json")

	in := Dataset{
		Nodes: []Node{
			{ID: "a", Category: "X"},
			{ID: "b", Category: "Y"},
		},
		Links: []Link{{Source: "a", Target: "b"}},
	}

	if err := WriteDatasetFile(in, path); err != nil {
		t.Fatalf("WriteDatasetFile: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}

	out, err := ReadDatasetFile(path)
	if err != nil {
		t.Fatalf("ReadDatasetFile: %v", err)
	}

	if d := cmp.Diff(in, out); d != "" {
		t.Errorf("file round trip changed the dataset (-in +out):\n%s", d)
	}
}

func TestCategories(t *testing.T) {
	d := Dataset{
		Nodes: []Node{
			{ID: "a", Category: "Services"},
			{ID: "b", Category: "Apps"},
			{ID: "c", Category: "Services"},
			{ID: "d"},
		},
	}

	got := d.Categories()
	want := []string{"Services", "Apps", "Uncategorized"}

	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q (first-seen order)", i, got[i], want[i])
		}
	}
}

func TestNodeByID(t *testing.T) {
	d := Dataset{
		Nodes: []Node{
			{ID: "a", Category: "X", Label: "Alpha"},
			{ID: "b", Category: "Y"},
		},
	}

	if n := d.NodeByID("a"); n == nil || n.Label != "Alpha" {
		t.Errorf("NodeByID(a) = %v, want Alpha node", n)
	}
	if n := d.NodeByID("missing"); n != nil {
		t.Errorf("NodeByID(missing) = %v, want nil", n)
	}
}

func TestDisplayLabel(t *testing.T) {
	n := Node{ID: "svc-auth"}
	if got := n.DisplayLabel(); got != "svc-auth" {
		t.Errorf("DisplayLabel() = %q, want id fallback", got)
	}

	n.Label = "Auth"
	if got := n.DisplayLabel(); got != "Auth" {
		t.Errorf("DisplayLabel() = %q, want %q", got, "Auth")
	}
}
