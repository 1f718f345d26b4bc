package pipeline

import (
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/zomglings/busybody/pkg/venv"
)

// Options configures one scan run.
type Options struct {
	// RootDir is the directory to scan. Defaults to ".".
	RootDir string

	// Tolerance is the number of detector checks allowed to fail.
	Tolerance int

	// Timeout bounds each probe invocation.
	Timeout time.Duration

	// Workers bounds concurrent probe invocations. Zero means the
	// number of CPUs.
	Workers int

	// Refresh bypasses the cache and re-probes every environment.
	Refresh bool

	// Logger used during the run. If nil, the runner's logger is used.
	Logger *log.Logger
}

// SetScanDefaults applies the standard scan configuration.
func (o *Options) SetScanDefaults() {
	o.RootDir = "."
	o.Tolerance = venv.DefaultTolerance
	o.Timeout = venv.DefaultProbeTimeout
}

// ValidateAndSetDefaults checks option consistency and fills in defaults
// for unset fields.
func (o *Options) ValidateAndSetDefaults() error {
	if o.RootDir == "" {
		o.RootDir = "."
	}
	if err := venv.ValidateTolerance(o.Tolerance); err != nil {
		return err
	}
	if o.Timeout <= 0 {
		o.Timeout = venv.DefaultProbeTimeout
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return nil
}
