// Package cli implements the busybody command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zomglings/busybody/pkg/buildinfo"
	"github.com/zomglings/busybody/pkg/cache"
	"github.com/zomglings/busybody/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "busybody"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath overrides the default config file location (--config).
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Busybody finds all the Pythons on your filesystem",
		Long:         `Busybody scans a directory tree for Python virtual environments and aggregates interpreter versions and installed dependencies into a single report.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config file (default: "+defaultConfigDescription+")")

	// Register all subcommands
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner with the cache backend chosen by
// config (overridden to NullCache by --no-cache).
func (c *CLI) newRunner(noCache bool, cfg Config) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache, cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(noCache bool, cfg Config) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch cfg.Cache.Backend {
	case cacheBackendNone:
		return cache.NewNullCache(), nil
	case cacheBackendRedis:
		return cache.NewRedisCache(cfg.Cache.RedisAddr)
	case cacheBackendFile:
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Debug("cache directory unavailable, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		// Unknown backend: scan without caching rather than failing.
		c.Logger.Warn("unknown cache backend, caching disabled", "backend", cfg.Cache.Backend)
		return cache.NewNullCache(), nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/busybody/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
