// Package store provides persistence for saved diagrams.
//
// A saved diagram bundles a dataset with the configuration used to
// render it, so reopening one reproduces the exact picture. Two backends
// implement the Store interface:
//
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for server deployments
//
// # Usage
//
// Create a store:
//
//	// Development
//	s := store.NewMemStore()
//
//	// Production
//	s, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "chordial")
//
// Manage diagrams:
//
//	d := store.New("trade flows", dataset, cfg)
//	if err := s.Save(ctx, d); err != nil {
//	    return err
//	}
//
//	d, err := s.Get(ctx, id)
//	summaries, err := s.List(ctx)
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/graph"
)

// Diagram is one saved diagram document.
//
// NodeCount and LinkCount are denormalized at save time so List can
// project summaries without loading full datasets.
type Diagram struct {
	ID        string        `json:"id" bson:"_id"`
	Name      string        `json:"name" bson:"name"`
	Dataset   graph.Dataset `json:"dataset" bson:"dataset"`
	Config    config.Config `json:"config" bson:"config"`
	NodeCount int           `json:"node_count" bson:"node_count"`
	LinkCount int           `json:"link_count" bson:"link_count"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// Summary is the listing view of a saved diagram.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	NodeCount int       `json:"node_count" bson:"node_count"`
	LinkCount int       `json:"link_count" bson:"link_count"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// New creates a diagram document with a fresh ID.
func New(name string, dataset graph.Dataset, cfg config.Config) *Diagram {
	now := time.Now().UTC()
	return &Diagram{
		ID:        uuid.NewString(),
		Name:      name,
		Dataset:   dataset,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store is the interface for diagram storage backends.
type Store interface {
	// Save upserts a diagram. Missing IDs and timestamps are filled in,
	// UpdatedAt is always bumped.
	Save(ctx context.Context, d *Diagram) error

	// Get retrieves a diagram by ID.
	Get(ctx context.Context, id string) (*Diagram, error)

	// List returns summaries of all diagrams, most recently updated first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a diagram by ID.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// prepare normalizes a document before writing: fills the ID and
// timestamps and refreshes the denormalized counts.
func prepare(d *Diagram) {
	now := time.Now().UTC()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	d.NodeCount = len(d.Dataset.Nodes)
	d.LinkCount = len(d.Dataset.Links)
}

// Summarize returns the listing view of a diagram.
func (d *Diagram) Summarize() Summary {
	return Summary{
		ID:        d.ID,
		Name:      d.Name,
		NodeCount: len(d.Dataset.Nodes),
		LinkCount: len(d.Dataset.Links),
		UpdatedAt: d.UpdatedAt,
	}
}
