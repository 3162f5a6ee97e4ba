package store

import (
	"context"
	"sort"
	"sync"

	"github.com/chordial/chordial/pkg/errors"
)

// MemStore is an in-memory diagram store for development and testing.
// Documents are stored by value so callers cannot mutate stored state
// through retained pointers.
type MemStore struct {
	mu       sync.RWMutex
	diagrams map[string]Diagram
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{diagrams: make(map[string]Diagram)}
}

// Save upserts a diagram.
func (s *MemStore) Save(ctx context.Context, d *Diagram) error {
	prepare(d)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagrams[d.ID] = *d
	return nil
}

// Get retrieves a diagram by ID.
func (s *MemStore) Get(ctx context.Context, id string) (*Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.diagrams[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDiagramNotFound, "diagram %q not found", id)
	}
	return &d, nil
}

// List returns summaries sorted by most recently updated.
func (s *MemStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]Summary, 0, len(s.diagrams))
	for _, d := range s.diagrams {
		summaries = append(summaries, d.Summarize())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// Delete removes a diagram by ID.
func (s *MemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.diagrams[id]; !ok {
		return errors.New(errors.ErrCodeDiagramNotFound, "diagram %q not found", id)
	}
	delete(s.diagrams, id)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemStore implements Store.
var _ Store = (*MemStore)(nil)
