package graph

import (
	"github.com/chordial/chordial/pkg/errors"
)

// =============================================================================
// Dataset - Relationship Data Serialization
// =============================================================================

// Dataset is the canonical serialization format for relationship data.
// Used for API responses, storage, caching, and cross-tool compatibility.
//
// The format is human-readable and designed for round-trip fidelity:
// import → transform → export → re-import produces identical results.
type Dataset struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Links []Link `json:"links" bson:"links"`
}

// =============================================================================
// Node - Categorized Entity
// =============================================================================

// Node is an entity that occupies arc space on the circle, either through
// its category (category view) or directly (detailed view).
type Node struct {
	ID       string         `json:"id" bson:"id"`
	Category string         `json:"category" bson:"category"`
	Label    string         `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Meta     map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Link - Directed Relationship
// =============================================================================

// Link represents a directed relationship between two node ids.
// Value weights the link's matrix contribution; zero means 1.
type Link struct {
	Source string  `json:"source" bson:"source"`
	Target string  `json:"target" bson:"target"`
	Value  float64 `json:"value,omitempty" bson:"value,omitempty"`
}

// Weight returns the link's matrix contribution.
func (l *Link) Weight() float64 {
	if l.Value > 0 {
		return l.Value
	}
	return 1
}

// =============================================================================
// Dataset Helpers
// =============================================================================

// Categories returns the distinct categories in first-seen node order.
// Nodes with an empty category fall into "Uncategorized".
func (d *Dataset) Categories() []string {
	seen := make(map[string]bool, len(d.Nodes))
	var out []string
	for i := range d.Nodes {
		c := d.Nodes[i].CategoryOrDefault()
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// CategoryOrDefault returns the node's category, or "Uncategorized" when empty.
func (n *Node) CategoryOrDefault() string {
	if n.Category == "" {
		return "Uncategorized"
	}
	return n.Category
}

// NodeByID returns the node with the given id, or nil.
func (d *Dataset) NodeByID(id string) *Node {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}

// Validate checks structural constraints on the dataset.
// Duplicate node ids and malformed ids are rejected. Links referencing
// unknown ids are allowed; the matrix builder drops and counts them.
func (d *Dataset) Validate() error {
	seen := make(map[string]bool, len(d.Nodes))
	for i := range d.Nodes {
		id := d.Nodes[i].ID
		if err := errors.ValidateNodeID(id); err != nil {
			return err
		}
		if seen[id] {
			return errors.New(errors.ErrCodeInvalidData, "duplicate node id %q", id)
		}
		seen[id] = true
	}

	for i := range d.Links {
		l := &d.Links[i]
		if l.Source == "" || l.Target == "" {
			return errors.New(errors.ErrCodeInvalidData, "link %d has empty endpoint", i)
		}
		if l.Value < 0 {
			return errors.New(errors.ErrCodeInvalidData, "link %s->%s has negative value", l.Source, l.Target)
		}
	}

	return nil
}
