package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join(cacheHome, appName) {
		t.Errorf("cacheDir() = %q, want under %q", dir, cacheHome)
	}
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	os.Unsetenv("XDG_CONFIG_HOME")

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath() error: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join(appName, "config.toml")) {
		t.Errorf("configPath() = %q, want .../%s/config.toml", path, appName)
	}
	if !strings.Contains(path, ".config") {
		t.Errorf("configPath() = %q, should contain '.config'", path)
	}
}

func TestConfigPathXDG(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath() error: %v", err)
	}
	if path != filepath.Join(configHome, appName, "config.toml") {
		t.Errorf("configPath() = %q", path)
	}
}
