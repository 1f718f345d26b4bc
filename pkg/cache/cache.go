// Package cache provides probe-result caching for busybody.
//
// Probing a virtual environment spawns three child processes; on large
// filesystems with hundreds of environments this dominates scan time. The
// cache stores serialized probe results keyed by the environment's canonical
// path and a fingerprint of its interpreter binaries, so repeated scans only
// re-probe environments that changed.
//
// Three backends are provided:
//   - FileCache: files under the XDG cache directory (CLI default)
//   - RedisCache: shared cache for repeated scans across machines
//   - NullCache: caching disabled
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// TTLProbe is the default time-to-live for cached probe results.
// Environments change rarely; a day keeps repeat scans cheap without
// letting stale interpreter versions linger for long.
const TTLProbe = 24 * time.Hour

// Cache is the storage interface for cached probe results.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given time-to-live. A zero ttl means
	// the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ProbeKeyOpts captures everything beyond the environment path that affects
// a probe result. Including these in the key means a changed timeout or a
// reinstalled interpreter produces a fresh probe instead of a stale hit.
type ProbeKeyOpts struct {
	// Fingerprint identifies the environment's current contents,
	// typically derived from the size and mtime of its binaries.
	Fingerprint string

	// TimeoutMS is the probe timeout in milliseconds.
	TimeoutMS int64
}

// Keyer generates cache keys for probe results.
type Keyer interface {
	ProbeKey(env string, opts ProbeKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ProbeKey generates a key for a probe result. The environment path,
// fingerprint, and timeout are hashed with separators so that no two
// distinct probe configurations can collide on a shared boundary.
func (k *DefaultKeyer) ProbeKey(env string, opts ProbeKeyOpts) string {
	h := sha256.New()
	h.Write([]byte(env))
	h.Write([]byte{0})
	h.Write([]byte(opts.Fingerprint))
	h.Write([]byte{0})
	var timeout [8]byte
	binary.BigEndian.PutUint64(timeout[:], uint64(opts.TimeoutMS))
	h.Write(timeout[:])
	return "probe:" + hex.EncodeToString(h.Sum(nil))
}

// NullCache disables caching: every Get is a miss and every Set is
// discarded. Selected by --no-cache and by the "none" backend.
type NullCache struct{}

// NewNullCache creates a cache that stores nothing.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
