package venv

import (
	"time"

	"github.com/charmbracelet/log"
)

// NullVersionKey is the frequency-count bucket for environments whose
// version probe failed. It is the JSON spelling of an absent value, so the
// serialized report reads naturally: {"null": 3, "Python 3.9.1": 2}.
const NullVersionKey = "null"

// Statistics aggregates probe results across environments: frequency
// counts for interpreter and pip versions, and per-package version counts
// for installed dependencies.
type Statistics struct {
	PythonVersions   map[string]int            `json:"python_versions"`
	PipVersions      map[string]int            `json:"pip_versions"`
	DependencyCounts map[string]map[string]int `json:"dependency_counts"`
}

// Report is the complete outcome of one scan: every probed environment and
// the statistics folded over them. Built once per scan and immutable after
// construction.
type Report struct {
	RunID       string                 `json:"run_id"`
	Root        string                 `json:"root"`
	GeneratedAt time.Time              `json:"generated_at"`
	Virtualenvs map[string]ProbeResult `json:"virtualenvs"`
	Statistics  Statistics             `json:"statistics"`
}

// Aggregator folds per-environment probe results into Statistics.
type Aggregator struct {
	// Logger receives warnings for dependency lines that do not parse.
	// If nil, the default logger is used.
	Logger *log.Logger
}

// Aggregate builds statistics over an unordered collection of probe
// results. Failed version probes count under NullVersionKey; dependency
// lines that do not decompose are skipped with a warning.
func (a *Aggregator) Aggregate(records map[string]ProbeResult) Statistics {
	stats := Statistics{
		PythonVersions:   make(map[string]int),
		PipVersions:      make(map[string]int),
		DependencyCounts: make(map[string]map[string]int),
	}

	for env, rec := range records {
		stats.PythonVersions[versionKey(rec.PythonVersion)]++
		stats.PipVersions[versionKey(rec.PipVersion)]++

		if !rec.PipFreeze.OK() {
			continue
		}
		for _, line := range rec.PipFreeze.Values {
			name, version, ok := DecomposeDependency(line)
			if !ok {
				a.logger().Warn("skipping unparseable dependency line",
					"env", env, "line", line)
				continue
			}
			byPackage := stats.DependencyCounts[name]
			if byPackage == nil {
				byPackage = make(map[string]int)
				stats.DependencyCounts[name] = byPackage
			}
			byPackage[version]++
		}
	}

	return stats
}

// versionKey maps a probed version field to its frequency-count bucket.
func versionKey(f StringField) string {
	if !f.OK() {
		return NullVersionKey
	}
	return f.Value
}

func (a *Aggregator) logger() *log.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return log.Default()
}
