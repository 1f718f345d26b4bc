package errors

import (
	"strings"
	"unicode"
)

// ValidateRootDir validates a user-supplied scan root before resolution.
// It rejects obviously malformed input early so path resolution errors stay
// meaningful.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 4096 characters
//
// Existence and readability are checked later during resolution.
func ValidateRootDir(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "root directory cannot be empty")
	}

	if len(path) > 4096 {
		return New(ErrCodeInvalidPath, "root directory path too long (max 4096 characters)")
	}

	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "root directory path contains a null byte")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "root directory path contains control characters")
		}
	}

	return nil
}
