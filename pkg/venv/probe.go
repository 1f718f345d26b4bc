package venv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// DefaultProbeTimeout bounds each child-process invocation. A wedged
// interpreter (NFS hang, broken shebang loop) must not stall the scan.
const DefaultProbeTimeout = 30 * time.Second

// pipVersionSeparator splits `pip --version` output ("pip 23.0.1 from
// /path/... (python 3.11)") into the version portion and the noise.
const pipVersionSeparator = " from "

// Prober extracts version and dependency information from a virtual
// environment by invoking its embedded interpreter and package manager.
//
// The three sub-probes (python --version, pip --version, pip freeze) are
// independent: a failure in one is recorded in the result and does not
// prevent the others from running. Probes are never retried.
type Prober struct {
	// Timeout bounds each child-process invocation. Zero means
	// DefaultProbeTimeout.
	Timeout time.Duration
}

// Probe runs all three sub-probes against the environment rooted at env
// and returns their combined outcome. Probe always returns a result;
// failures are recorded in the result's fields, never as a Go error.
func (p *Prober) Probe(ctx context.Context, env string) ProbeResult {
	python := filepath.Join(env, "bin", "python")
	pip := filepath.Join(env, "bin", "pip")

	var result ProbeResult

	if out, perr := p.run(ctx, python, "--version"); perr != nil {
		result.PythonVersion.Err = perr
	} else {
		result.PythonVersion.Value = strings.TrimSpace(out)
	}

	if out, perr := p.run(ctx, pip, "--version"); perr != nil {
		result.PipVersion.Err = perr
	} else {
		version, _, _ := strings.Cut(out, pipVersionSeparator)
		result.PipVersion.Value = strings.TrimSpace(version)
	}

	if out, perr := p.run(ctx, pip, "freeze"); perr != nil {
		result.PipFreeze.Err = perr
	} else {
		result.PipFreeze = FreezeList(splitFreeze(out))
	}

	return result
}

// ProbeAll probes environments concurrently with a bounded worker pool and
// returns results keyed by environment path. Workers defaults to the number
// of CPUs. On cancellation the environments probed so far are returned;
// in-flight child processes are killed via their contexts.
func (p *Prober) ProbeAll(ctx context.Context, envs []string, workers int) map[string]ProbeResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(envs) {
		workers = len(envs)
	}

	results := make(map[string]ProbeResult, len(envs))
	if len(envs) == 0 {
		return results
	}

	jobs := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for env := range jobs {
				res := p.Probe(ctx, env)
				mu.Lock()
				results[env] = res
				mu.Unlock()
			}
		}()
	}

feed:
	for _, env := range envs {
		select {
		case jobs <- env:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// run executes one child process with the prober's timeout, capturing
// stdout and stderr. Returns stdout on success, a ProbeError otherwise.
func (p *Prober) run(ctx context.Context, bin string, args ...string) (string, *ProbeError) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	if errors.Is(cctx.Err(), context.DeadlineExceeded) {
		return "", &ProbeError{
			ExitCode: -1,
			Message:  fmt.Sprintf("timed out after %s", timeout),
			Timeout:  true,
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return "", &ProbeError{
			ExitCode: exitErr.ExitCode(),
			Message:  strings.TrimSpace(stderr.String()),
		}
	}

	// Spawn failure: binary missing, not executable, cancelled.
	return "", &ProbeError{ExitCode: -1, Message: err.Error()}
}

// splitFreeze splits `pip freeze` output into one dependency-spec string
// per line, dropping empty lines and trailing whitespace.
func splitFreeze(out string) []string {
	lines := strings.Split(out, "\n")
	specs := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line != "" {
			specs = append(specs, line)
		}
	}
	return specs
}

// Fingerprint identifies the current contents of an environment for cache
// keying. It folds in the size and mtime of the binaries a probe invokes,
// so a reinstalled or upgraded environment misses the cache.
func Fingerprint(env string) string {
	var b strings.Builder
	for _, rel := range []string{"bin/python", "bin/pip", "pyvenv.cfg"} {
		if fi, err := os.Stat(filepath.Join(env, rel)); err == nil {
			fmt.Fprintf(&b, "%s:%d:%d;", rel, fi.Size(), fi.ModTime().UnixNano())
		} else {
			fmt.Fprintf(&b, "%s:absent;", rel)
		}
	}
	return b.String()
}
