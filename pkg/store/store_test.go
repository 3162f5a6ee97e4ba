package store

import (
	"context"
	"testing"
	"time"

	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/errors"
	"github.com/chordial/chordial/pkg/graph"
)

func testDataset() graph.Dataset {
	return graph.Dataset{
		Nodes: []graph.Node{
			{ID: "a", Category: "one"},
			{ID: "b", Category: "two"},
		},
		Links: []graph.Link{
			{Source: "a", Target: "b", Value: 4},
		},
	}
}

func TestNewAssignsIdentity(t *testing.T) {
	d := New("trade", testDataset(), config.Default())
	if d.ID == "" {
		t.Error("New should assign an ID")
	}
	if d.CreatedAt.IsZero() || d.UpdatedAt.IsZero() {
		t.Error("New should set timestamps")
	}

	other := New("trade", testDataset(), config.Default())
	if other.ID == d.ID {
		t.Error("IDs should be unique")
	}
}

func TestMemStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	defer s.Close(ctx)

	d := New("trade", testDataset(), config.Default())
	if err := s.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if d.NodeCount != 2 || d.LinkCount != 1 {
		t.Errorf("Save should denormalize counts: %d nodes, %d links", d.NodeCount, d.LinkCount)
	}

	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "trade" {
		t.Errorf("Name = %q", got.Name)
	}
	if len(got.Dataset.Nodes) != 2 {
		t.Errorf("dataset nodes = %d, want 2", len(got.Dataset.Nodes))
	}

	// Mutating the returned document must not affect the store
	got.Name = "changed"
	again, _ := s.Get(ctx, d.ID)
	if again.Name != "trade" {
		t.Error("store should hand out copies")
	}
}

func TestMemStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	_, err := s.Get(ctx, "nope")
	if err == nil {
		t.Fatal("Get on missing id should fail")
	}
	if !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("error code = %v, want diagram_not_found", errors.GetCode(err))
	}
}

func TestMemStoreSaveFillsIdentity(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	d := &Diagram{Name: "anonymous", Dataset: testDataset()}
	if err := s.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if d.ID == "" {
		t.Error("Save should assign a missing ID")
	}
	if d.CreatedAt.IsZero() {
		t.Error("Save should set CreatedAt")
	}
}

func TestMemStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	first := New("first", testDataset(), config.Default())
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	// Force distinct UpdatedAt ordering
	time.Sleep(5 * time.Millisecond)
	second := New("second", testDataset(), config.Default())
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	summaries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("len = %d, want 2", len(summaries))
	}
	if summaries[0].Name != "second" {
		t.Errorf("most recent first: got %q", summaries[0].Name)
	}
	if summaries[0].NodeCount != 2 || summaries[0].LinkCount != 1 {
		t.Errorf("summary counts = %d/%d", summaries[0].NodeCount, summaries[0].LinkCount)
	}
}

func TestMemStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	d := New("doomed", testDataset(), config.Default())
	if err := s.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, d.ID); err == nil {
		t.Error("deleted diagram should be gone")
	}

	// Deleting again reports not found
	err := s.Delete(ctx, d.ID)
	if !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("second delete error = %v", err)
	}
}

func TestMemStoreUpdatePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	d := New("evolving", testDataset(), config.Default())
	if err := s.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	created := d.CreatedAt
	updated := d.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	d.Name = "evolved"
	if err := s.Save(ctx, d); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	if !d.CreatedAt.Equal(created) {
		t.Error("CreatedAt should be preserved on update")
	}
	if !d.UpdatedAt.After(updated) {
		t.Error("UpdatedAt should be bumped on update")
	}

	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "evolved" {
		t.Errorf("Name = %q, want evolved", got.Name)
	}
}
