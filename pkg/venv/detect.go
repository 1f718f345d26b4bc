package venv

import (
	"os"
	"path/filepath"

	"github.com/zomglings/busybody/pkg/errors"
)

// DefaultTolerance is the number of structural checks a directory may fail
// and still be classified as a virtual environment. The slack absorbs
// platform differences (Windows Scripts/ layouts, environments without
// share/) without requiring per-platform check lists.
const DefaultTolerance = 2

// NumChecks is the number of structural checks Inspect evaluates.
const NumChecks = 8

// ValidateTolerance rejects tolerances the detector cannot satisfy:
// below zero no candidate can ever pass, above the number of checks
// every directory qualifies.
func ValidateTolerance(n int) error {
	if n < 0 || n > NumChecks {
		return errors.New(errors.ErrCodeInvalidInput,
			"tolerance must be between 0 and %d, got %d", NumChecks, n)
	}
	return nil
}

// Check is the outcome of a single structural marker test.
type Check struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`
}

// Detector classifies directories as virtual environments by counting
// structural markers. The zero value is a strict detector (no failures
// tolerated); use NewDetector for the standard tolerance.
type Detector struct {
	// Tolerance is the number of failing checks tolerated before a
	// candidate is rejected.
	Tolerance int
}

// NewDetector creates a detector with the default tolerance.
func NewDetector() *Detector {
	return &Detector{Tolerance: DefaultTolerance}
}

// Inspect evaluates all structural checks against the candidate directory
// and returns the per-check outcome. Each check is a single stat call; the
// filesystem is never modified.
func (d *Detector) Inspect(path string) []Check {
	return []Check{
		{Name: "is_directory", Pass: isDir(path)},
		{Name: "bin_python", Pass: pathExists(filepath.Join(path, "bin", "python"))},
		{Name: "bin_pip", Pass: pathExists(filepath.Join(path, "bin", "pip"))},
		{Name: "bin_activate", Pass: pathExists(filepath.Join(path, "bin", "activate"))},
		{Name: "include_dir", Pass: isDir(filepath.Join(path, "include"))},
		{Name: "lib_dir", Pass: isDir(filepath.Join(path, "lib"))},
		{Name: "share_dir", Pass: isDir(filepath.Join(path, "share"))},
		{Name: "pyvenv_cfg", Pass: isFile(filepath.Join(path, "pyvenv.cfg"))},
	}
}

// IsVirtualEnv reports whether the candidate directory passes enough
// structural checks to be classified as a virtual environment.
func (d *Detector) IsVirtualEnv(path string) bool {
	checks := d.Inspect(path)
	passed := 0
	for _, c := range checks {
		if c.Pass {
			passed++
		}
	}
	return passed >= len(checks)-d.Tolerance
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
