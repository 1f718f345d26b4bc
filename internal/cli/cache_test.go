package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zomglings/busybody/pkg/cache"
)

func TestClearProbeCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer store.Close()

	keys := []string{"probe:a", "probe:b", "probe:c"}
	for _, key := range keys {
		if err := store.Set(ctx, key, []byte(`{"python_version":"Python 3.9.1"}`), time.Hour); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}

	// A stray file in the cache directory must survive clearing.
	stray := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(stray, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := clearProbeCache(dir)
	if err != nil {
		t.Fatalf("clearProbeCache error: %v", err)
	}
	if removed != len(keys) {
		t.Errorf("removed = %d, want %d", removed, len(keys))
	}

	for _, key := range keys {
		if _, hit, _ := store.Get(ctx, key); hit {
			t.Errorf("key %q should be gone after clear", key)
		}
	}
	if _, err := os.Stat(stray); err != nil {
		t.Errorf("stray file should survive clearing: %v", err)
	}

	// Emptied shard directories are pruned.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			t.Errorf("shard directory %q should have been pruned", entry.Name())
		}
	}
}

func TestClearProbeCacheEmpty(t *testing.T) {
	removed, err := clearProbeCache(t.TempDir())
	if err != nil {
		t.Fatalf("clearProbeCache error: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}

func TestClearProbeCacheMissingDir(t *testing.T) {
	_, err := clearProbeCache(filepath.Join(t.TempDir(), "absent"))
	if !os.IsNotExist(err) {
		t.Errorf("expected IsNotExist error, got %v", err)
	}
}
