// Package venv discovers and inspects Python virtual environments.
//
// The package is organized as a small pipeline of independent pieces:
//
//   - [Resolve] canonicalizes a user-supplied root directory
//   - [Detector] classifies a directory as a virtual environment
//   - [Scanner] walks a tree collecting environments, pruning their internals
//   - [Prober] shells out to an environment's interpreter and pip for
//     version and dependency information
//   - [Aggregator] folds probe results into cross-environment statistics
//
// Detection is a heuristic. A directory counts as a virtual environment when
// at least six of eight structural markers are present (bin/python, bin/pip,
// bin/activate, include/, lib/, share/, pyvenv.cfg, and the directory
// itself). The slack accommodates naming variation across platforms and
// tools; false positives and negatives are accepted by design.
package venv
