package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// MatrixKeyOpts are the build options that affect the matrix cache key.
type MatrixKeyOpts struct {
	Detailed bool
	ShowAll  bool
}

// LayoutKeyOpts are the layout options that affect the layout cache key.
type LayoutKeyOpts struct {
	PadAngle         float64
	EvenDistribution bool
}

// ArtifactKeyOpts are the render options that affect the artifact cache key.
// ConfigHash covers every visual tunable, so individual style fields do
// not need to be enumerated here.
type ArtifactKeyOpts struct {
	Format     string
	ConfigHash string
	Reveal     int
}

// Keyer generates cache keys for pipeline stages.
// Implementations must be deterministic: the same inputs always produce
// the same key.
type Keyer interface {
	// MatrixKey generates a key for a built matrix.
	MatrixKey(datasetHash string, opts MatrixKeyOpts) string

	// LayoutKey generates a key for a computed layout.
	LayoutKey(matrixHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
// Keys look like "matrix:<sha256>", "layout:<sha256>", "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// MatrixKey generates a key for a built matrix.
func (k *DefaultKeyer) MatrixKey(datasetHash string, opts MatrixKeyOpts) string {
	return hashKey("matrix", datasetHash, opts)
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(matrixHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", matrixHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The server uses this to keep per-diagram cache entries apart so that
// deleting a diagram can evict exactly its own keys.
//
// Example usage:
//
//	keyer := cache.NewScopedKeyer(nil, "diagram:"+id+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys. A nil inner keyer
// defaults to the standard one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// MatrixKey generates a prefixed key for a built matrix.
func (k *ScopedKeyer) MatrixKey(datasetHash string, opts MatrixKeyOpts) string {
	return k.prefix + k.inner.MatrixKey(datasetHash, opts)
}

// LayoutKey generates a prefixed key for a computed layout.
func (k *ScopedKeyer) LayoutKey(matrixHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(matrixHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Ensure both keyers implement Keyer.
var (
	_ Keyer = (*DefaultKeyer)(nil)
	_ Keyer = (*ScopedKeyer)(nil)
)
