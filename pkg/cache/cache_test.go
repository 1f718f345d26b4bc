package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "probe:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss before Set")
	}

	// Set then hit
	if err := c.Set(ctx, "probe:abc", []byte("result"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "probe:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "result" {
		t.Errorf("Get data = %q, want %q", data, "result")
	}

	// Delete then miss
	if err := c.Delete(ctx, "probe:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "probe:abc")
	if hit {
		t.Error("expected miss after Delete")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "probe:missing"); err != nil {
		t.Errorf("Delete missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Negative TTL produces an already-expired entry
	if err := c.Set(ctx, "stale", []byte("old"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	_, hit, err := c.Get(ctx, "stale")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should be a miss")
	}

	// Zero TTL never expires
	if err := c.Set(ctx, "forever", []byte("keep"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "forever")
	if !hit {
		t.Error("zero-TTL entry should not expire")
	}
}

func TestFileCacheHealsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "probe:abc", []byte(`{"python_version":"Python 3.9.1"}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Damage the entry on disk
	path := c.(*FileCache).entryPath("probe:abc")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, hit, err := c.Get(ctx, "probe:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("corrupt entry should be a miss")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheOverwrite(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "probe:abc", []byte("first"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := c.Set(ctx, "probe:abc", []byte("second"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "probe:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after overwrite")
	}
	if string(data) != "second" {
		t.Errorf("Get data = %q, want %q", data, "second")
	}
}

func TestFileCacheEntryLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "probe:abc", []byte("result"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Entries live one level deep in a shard directory, with the
	// extension the cache clear command looks for.
	path := c.(*FileCache).entryPath("probe:abc")
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(strings.Split(rel, string(filepath.Separator))) != 2 {
		t.Errorf("entry path %q should be shard/name under the root", rel)
	}
	if filepath.Ext(path) != entryExt {
		t.Errorf("entry extension = %q, want %q", filepath.Ext(path), entryExt)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("entry file missing: %v", err)
	}
}

func TestDefaultKeyerFormat(t *testing.T) {
	k := NewDefaultKeyer()
	key := k.ProbeKey("/envs/a", ProbeKeyOpts{Fingerprint: "f1", TimeoutMS: 30000})

	if !strings.HasPrefix(key, "probe:") {
		t.Errorf("ProbeKey = %q, want probe: prefix", key)
	}
	if len(key) != len("probe:")+64 {
		t.Errorf("ProbeKey length = %d, want %d", len(key), len("probe:")+64)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// Same inputs produce the same key
	k1 := k.ProbeKey("/envs/a", ProbeKeyOpts{Fingerprint: "f1", TimeoutMS: 30000})
	k2 := k.ProbeKey("/envs/a", ProbeKeyOpts{Fingerprint: "f1", TimeoutMS: 30000})
	if k1 != k2 {
		t.Error("ProbeKey should be deterministic")
	}

	// A changed fingerprint produces a different key
	k3 := k.ProbeKey("/envs/a", ProbeKeyOpts{Fingerprint: "f2", TimeoutMS: 30000})
	if k1 == k3 {
		t.Error("Different fingerprints should produce different keys")
	}

	// A changed timeout produces a different key
	k4 := k.ProbeKey("/envs/a", ProbeKeyOpts{Fingerprint: "f1", TimeoutMS: 5000})
	if k1 == k4 {
		t.Error("Different timeouts should produce different keys")
	}

	// A different environment produces a different key
	k5 := k.ProbeKey("/envs/b", ProbeKeyOpts{Fingerprint: "f1", TimeoutMS: 30000})
	if k1 == k5 {
		t.Error("Different environments should produce different keys")
	}
}
