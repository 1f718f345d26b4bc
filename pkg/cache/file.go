package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// entryExt is the filename extension for stored probe results. The cache
// clear command relies on it to distinguish entries from stray files.
const entryExt = ".json"

// FileCache stores probe results as JSON files under the busybody cache
// directory. Entries are sharded into subdirectories by the first byte
// of the hashed key so a filesystem with thousands of environments does
// not pile every entry into one directory.
type FileCache struct {
	root string
}

// NewFileCache creates a file-backed cache rooted at dir, creating the
// directory if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{root: dir}, nil
}

// probeEntry is the on-disk shape of one cached probe result. The result
// itself is kept opaque so the cache does not depend on the probe wire
// format.
type probeEntry struct {
	Result    json.RawMessage `json:"result"`
	ProbedAt  time.Time       `json:"probed_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// expired reports whether the entry is past its expiry. A zero ExpiresAt
// means the entry never expires.
func (e *probeEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get retrieves a cached probe result. Entries that are expired or that
// fail to parse are removed and reported as misses, so a damaged cache
// heals itself through re-probing.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.entryPath(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry probeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if entry.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return entry.Result, true, nil
}

// Set stores a probe result. The entry is written to a temporary file
// and renamed into place so a concurrent scan never reads a torn entry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := probeEntry{
		Result:   json.RawMessage(data),
		ProbedAt: time.Now().UTC(),
	}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes a cached probe result. Deleting a missing key is not
// an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.entryPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file cache.
func (c *FileCache) Close() error {
	return nil
}

// entryPath maps a probe key to its file, fanning entries out across
// shard directories named after the first byte of the hashed key.
func (c *FileCache) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	shard := fmt.Sprintf("%02x", sum[0])
	name := hex.EncodeToString(sum[1:]) + entryExt
	return filepath.Join(c.root, shard, name)
}

var _ Cache = (*FileCache)(nil)
