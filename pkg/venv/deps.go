package venv

import "strings"

// DecomposeDependency splits one line of pip freeze output into a package
// name and a version string. It handles PyPI pins, editable installs, and
// editable git URLs:
//
//	requests==2.28.1        -> ("requests", "2.28.1")
//	-e git+https://...@ref  -> ("git+https://...", "ref")
//	-e /path/to/project     -> ("/path/to/project", "")
//	some-package            -> ("some-package", "")
//
// Lines that do not decompose to a non-empty package name (for example an
// unpinned editable git URL) return ok=false and should be skipped by
// callers, typically with a warning.
func DecomposeDependency(line string) (name, version string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", false
	}

	switch {
	case strings.HasPrefix(line, "-e git+"):
		rest := strings.TrimPrefix(line, "-e ")
		// git URLs may embed "@" in credentials; the ref follows the
		// last one.
		at := strings.LastIndex(rest, "@")
		if at < 0 {
			return "", "", false
		}
		name, version = rest[:at], rest[at+1:]
	case line == "-e" || strings.HasPrefix(line, "-e "):
		name = strings.TrimSpace(strings.TrimPrefix(line, "-e"))
	case strings.Contains(line, "=="):
		name, version, _ = strings.Cut(line, "==")
	default:
		name = line
	}

	if name == "" {
		return "", "", false
	}
	return name, version, true
}
