package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Dataset Serialization API
// =============================================================================

// MarshalDataset converts a Dataset to pretty-printed JSON bytes.
func MarshalDataset(d Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDatasetTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalDataset deserializes JSON bytes to a Dataset and validates it.
func UnmarshalDataset(data []byte) (Dataset, error) {
	return readDatasetFrom(bytes.NewReader(data))
}

// WriteDatasetFile writes a Dataset to a JSON file.
// The file is created with 0644 permissions.
func WriteDatasetFile(d Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeDatasetTo(d, f)
}

// WriteDataset writes a Dataset as JSON to an io.Writer.
func WriteDataset(d Dataset, w io.Writer) error {
	return writeDatasetTo(d, w)
}

// ReadDatasetFile reads a JSON file and returns the decoded Dataset.
// Returns validation errors for malformed datasets.
func ReadDatasetFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readDatasetFrom(f)
}

// ReadDataset decodes a JSON dataset from an io.Reader.
func ReadDataset(r io.Reader) (Dataset, error) {
	return readDatasetFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeDatasetTo(d Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readDatasetFrom(r io.Reader) (Dataset, error) {
	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Dataset{}, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Dataset{}, err
	}
	return d, nil
}
