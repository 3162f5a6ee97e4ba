package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// entryHeaderLen is the fixed size of the expiry header preceding the
// payload in every cache file: a big-endian uint64 of unix seconds,
// zero meaning no expiration.
const entryHeaderLen = 8

// FileCache implements a file-based cache for CLI usage.
//
// Entries are raw payload bytes behind a small expiry header, so large
// artifacts (PNG renders run to megabytes) are stored without encoding
// overhead. Files are sharded into subdirectories by key hash to keep
// any single directory small.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in the given directory.
// The directory will be created if it doesn't exist.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get retrieves a value from the cache.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if len(data) < entryHeaderLen {
		// Truncated entry - treat as miss
		_ = os.Remove(path)
		return nil, false, nil
	}

	expiry := binary.BigEndian.Uint64(data[:entryHeaderLen])
	if expiry != 0 && time.Now().Unix() > int64(expiry) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return data[entryHeaderLen:], true, nil
}

// Set stores a value in the cache.
// The entry is written to a temp file and renamed into place so a
// concurrent Get never observes a partial write.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expiry uint64
	if ttl > 0 {
		expiry = uint64(time.Now().Add(ttl).Unix())
	}

	entry := make([]byte, entryHeaderLen+len(data))
	binary.BigEndian.PutUint64(entry[:entryHeaderLen], expiry)
	copy(entry[entryHeaderLen:], data)

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(entry); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// Size walks the cache directory and returns the number of entries and
// their total size in bytes. Used by the CLI cache info command.
func (c *FileCache) Size() (entries int, bytes int64, err error) {
	err = filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		entries++
		bytes += info.Size()
		return nil
	})
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	return entries, bytes, err
}

// path converts a cache key to a file path.
// The first 2 hash chars pick the shard subdirectory.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], fmt.Sprintf("%s.bin", hash[2:]))
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
