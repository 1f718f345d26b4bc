package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/zomglings/busybody/pkg/errors"
	"github.com/zomglings/busybody/pkg/venv"
)

// Cache backends selectable via the config file.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

const defaultConfigDescription = "~/.config/busybody/config.toml"

// Config is the on-disk configuration, loaded from a TOML file. Command
// flags override config values, which override built-in defaults.
type Config struct {
	// Tolerance is the number of detector checks allowed to fail.
	Tolerance int `toml:"tolerance"`

	Probe   ProbeConfig   `toml:"probe"`
	Cache   CacheConfig   `toml:"cache"`
	Archive ArchiveConfig `toml:"archive"`
}

// ProbeConfig configures child-process probing.
type ProbeConfig struct {
	// Timeout bounds each probe invocation, e.g. "30s".
	Timeout duration `toml:"timeout"`

	// Workers bounds concurrent probes. Zero means the number of CPUs.
	Workers int `toml:"workers"`
}

// CacheConfig selects and configures the probe-result cache.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`

	// RedisAddr is the host:port of the Redis backend.
	RedisAddr string `toml:"redis_addr"`
}

// ArchiveConfig configures the optional report archive.
type ArchiveConfig struct {
	// URI is a MongoDB connection string. Empty disables archiving.
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// duration wraps time.Duration for TOML decoding ("30s", "2m").
type duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Tolerance: venv.DefaultTolerance,
		Probe: ProbeConfig{
			Timeout: duration(venv.DefaultProbeTimeout),
		},
		Cache: CacheConfig{
			Backend:   cacheBackendFile,
			RedisAddr: "localhost:6379",
		},
		Archive: ArchiveConfig{
			Database:   appName,
			Collection: "reports",
		},
	}
}

// loadConfig reads the config file (--config, or the default location).
// A missing file is not an error: defaults apply. A file that exists but
// does not parse is an error, never silently ignored.
func (c *CLI) loadConfig() (Config, error) {
	path := c.configPath
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = configPath(); err != nil {
			return DefaultConfig(), nil
		}
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return cfg, errors.New(errors.ErrCodeInvalidInput, "config file not found: %s", path)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return cfg, nil
}

// configPath returns the config file location using XDG standard
// (~/.config/busybody/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
