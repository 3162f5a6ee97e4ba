// Package graph provides serialization types for relationship datasets.
//
// This package defines the canonical wire format for Chordial's input data,
// used for JSON files, API responses, caching, and cross-tool interoperability.
//
// # Core Types
//
//   - [Dataset]: nodes plus directed links, the unit of input
//   - [Node]: an entity with an id and a category
//   - [Link]: a directed relationship between two node ids
//
// # Serialization
//
// Datasets use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "auth", "category": "Services"}, {"id": "web", "category": "Apps"}],
//	  "links": [{"source": "web", "target": "auth"}]
//	}
//
// Common operations:
//
//	ds, _ := graph.ReadDatasetFile("links.json")   // File → Dataset
//	graph.WriteDatasetFile(ds, "output.json")      // Dataset → File
//	data, _ := graph.MarshalDataset(ds)            // Dataset → []byte
//	parsed, _ := graph.UnmarshalDataset(data)      // []byte → Dataset
//
// # Dangling Links
//
// Links may reference ids with no matching node. Validation does not reject
// them; the matrix builder drops them and reports the count, so a dataset
// assembled from multiple sources renders whatever resolves.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
