package venv

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Scanner walks a directory tree collecting virtual environments.
//
// The walk is pre-order and top-down. A subdirectory classified as a
// virtual environment is recorded and pruned: its internals (lib/, include/
// trees can hold tens of thousands of files) are never visited, so an
// environment nested inside another is invisible. Symlinked directories are
// not followed. Unreadable directories are skipped, not fatal.
type Scanner struct {
	// Detector classifies candidate directories. If nil, a detector with
	// the default tolerance is used.
	Detector *Detector

	// Logger receives debug output for skipped branches. If nil, the
	// default logger is used.
	Logger *log.Logger
}

// Scan walks the tree rooted at root and returns the paths of all virtual
// environments found. Result order follows directory-listing order and is
// not guaranteed sorted. On cancellation the environments found so far are
// returned along with the context's error.
func (s *Scanner) Scan(ctx context.Context, root string) ([]string, error) {
	found := []string{}
	err := s.walk(ctx, root, &found)
	return found, err
}

func (s *Scanner) walk(ctx context.Context, dir string, found *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// Permission errors and transient failures: treat the branch
		// as empty and keep going.
		s.logger().Debug("skipping unreadable directory", "path", dir, "err", err)
		return nil
	}

	var descend []string
	for _, entry := range entries {
		// entry.IsDir is false for symlinks, so symlinked directories
		// are neither classified nor followed.
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(dir, entry.Name())
		if s.detector().IsVirtualEnv(sub) {
			*found = append(*found, sub)
			continue
		}
		descend = append(descend, sub)
	}

	for _, sub := range descend {
		if err := s.walk(ctx, sub, found); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) detector() *Detector {
	if s.Detector != nil {
		return s.Detector
	}
	return NewDetector()
}

func (s *Scanner) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}
