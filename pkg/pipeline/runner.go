// Package pipeline orchestrates a full busybody scan: resolve the root,
// walk the tree for virtual environments, probe each one, and aggregate
// the results into a report.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/zomglings/busybody/pkg/cache"
	"github.com/zomglings/busybody/pkg/venv"
)

// Runner executes scans with probe-result caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store scan results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete resolve → scan → probe → aggregate pipeline.
//
// Probe failures never fail the run; they are recorded inside the report.
// On cancellation Execute returns the partial report built from whatever
// completed, along with the context's error.
func (r *Runner) Execute(ctx context.Context, opts Options) (*venv.Report, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(&opts)

	root, err := venv.Resolve(opts.RootDir)
	if err != nil {
		return nil, err
	}

	scanner := &venv.Scanner{
		Detector: &venv.Detector{Tolerance: opts.Tolerance},
		Logger:   logger,
	}

	scanStart := time.Now()
	envs, scanErr := scanner.Scan(ctx, root)
	logger.Info("discovered virtual environments",
		"root", root,
		"count", len(envs),
		"duration", time.Since(scanStart).Round(time.Millisecond))

	probeStart := time.Now()
	records, hits := r.probeAll(ctx, envs, opts, logger)
	logger.Info("probed environments",
		"probed", len(records)-hits,
		"cached", hits,
		"duration", time.Since(probeStart).Round(time.Millisecond))

	report := &venv.Report{
		RunID:       uuid.NewString(),
		Root:        root,
		GeneratedAt: time.Now().UTC(),
		Virtualenvs: records,
		Statistics:  (&venv.Aggregator{Logger: logger}).Aggregate(records),
	}

	if scanErr != nil {
		logger.Warn("scan interrupted, report is partial", "err", scanErr)
		return report, scanErr
	}
	if err := ctx.Err(); err != nil {
		logger.Warn("probing interrupted, report is partial", "err", err)
		return report, err
	}
	return report, nil
}

// probeAll probes environments concurrently, consulting the cache first.
// It returns the combined results and the number of cache hits.
func (r *Runner) probeAll(ctx context.Context, envs []string, opts Options, logger *log.Logger) (map[string]venv.ProbeResult, int) {
	results := make(map[string]venv.ProbeResult, len(envs))

	keys := make(map[string]string, len(envs))
	for _, env := range envs {
		keys[env] = r.Keyer.ProbeKey(env, cache.ProbeKeyOpts{
			Fingerprint: venv.Fingerprint(env),
			TimeoutMS:   opts.Timeout.Milliseconds(),
		})
	}

	var misses []string
	hits := 0
	if opts.Refresh {
		misses = envs
	} else {
		for _, env := range envs {
			data, hit, err := r.Cache.Get(ctx, keys[env])
			if err == nil && hit {
				var res venv.ProbeResult
				if err := json.Unmarshal(data, &res); err == nil {
					results[env] = res
					hits++
					continue
				}
			}
			misses = append(misses, env)
		}
	}

	prober := &venv.Prober{Timeout: opts.Timeout}
	for env, res := range prober.ProbeAll(ctx, misses, opts.Workers) {
		results[env] = res

		// Results from an interrupted run are not worth caching.
		if ctx.Err() != nil {
			continue
		}
		if data, err := json.Marshal(res); err == nil {
			if err := r.Cache.Set(ctx, keys[env], data, cache.TTLProbe); err != nil {
				logger.Debug("failed to cache probe result", "env", env, "err", err)
			}
		}
	}

	return results, hits
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts *Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
