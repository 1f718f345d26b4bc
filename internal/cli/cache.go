package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cacheEntryExt matches the files the probe cache writes; cache clear
// only touches these so stray files in the directory survive.
const cacheEntryExt = ".json"

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached probe results",
		Long: `Manage cached probe results.

Probe results are cached so repeated scans skip environments whose
binaries have not changed. Clearing the cache forces the next scan to
re-probe everything, like a one-off --refresh that persists.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached probe results",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			removed, err := clearProbeCache(dir)
			if os.IsNotExist(err) || (err == nil && removed == 0) {
				printInfo("Probe cache is empty")
				printDetail("Directory: %s", dir)
				return nil
			}
			if err != nil {
				return err
			}

			printSuccess("Removed %d cached probe results", removed)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// clearProbeCache deletes every probe entry under dir and prunes the
// shard directories that become empty. It returns the number of entries
// removed.
func clearProbeCache(dir string) (int, error) {
	shards, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		shardDir := filepath.Join(dir, shard.Name())
		entries, err := os.ReadDir(shardDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != cacheEntryExt {
				continue
			}
			if err := os.Remove(filepath.Join(shardDir, entry.Name())); err == nil {
				removed++
			}
		}
		// Succeeds only when the shard is now empty.
		_ = os.Remove(shardDir)
	}
	return removed, nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the probe cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
