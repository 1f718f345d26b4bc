// Package pkg provides the core libraries for busybody.
//
// # Overview
//
// Busybody scans a filesystem for Python virtual environments and
// aggregates their interpreter versions and installed dependencies.
// The pkg directory is organized as:
//
//  1. [venv] - Domain logic (detection, scanning, probing, aggregation)
//  2. [pipeline] - Orchestration (resolve → scan → probe → aggregate)
//  3. [cache] - Probe-result caching (file, Redis, null backends)
//  4. [archive] - Report persistence (MongoDB)
//  5. [render] - Graphviz rendering of dependency statistics
//  6. [errors] - Coded errors shared across the module
//
// # Architecture
//
// The typical data flow through busybody:
//
//	Root directory
//	         ↓
//	venv.Resolve / venv.Scanner  (find environments)
//	         ↓
//	venv.Prober  (python --version, pip --version, pip freeze)
//	         ↓
//	venv.Aggregator  (version and dependency counts)
//	         ↓
//	venv.Report  (JSON, archive, or rendered diagram)
package pkg
