package venv

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/zomglings/busybody/pkg/errors"
)

// Resolve normalizes a user-supplied root directory into an absolute,
// symlink-resolved canonical path. A leading "~" is expanded to the user's
// home directory. Resolving an already-canonical path returns it unchanged.
//
// Returns a PATH_RESOLUTION error when the path does not exist, a segment
// is unreadable, or symlink resolution fails (including cycles).
func Resolve(raw string) (string, error) {
	if err := errors.ValidateRootDir(raw); err != nil {
		return "", err
	}

	path := raw
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodePathResolution, err, "expand ~ in %q", raw)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePathResolution, err, "make %q absolute", raw)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePathResolution, err, "resolve %q", raw)
	}

	return resolved, nil
}
