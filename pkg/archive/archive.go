// Package archive persists scan reports for later comparison.
//
// Teams that scan shared build machines on a schedule keep the reports in a
// document store and diff dependency drift between runs. The MongoDB
// backend stores one document per report, keyed by run ID.
package archive

import (
	"context"

	"github.com/zomglings/busybody/pkg/venv"
)

// Store persists completed scan reports.
type Store interface {
	// Save persists one report. Reports are immutable; saving the same
	// run ID twice is an error.
	Save(ctx context.Context, report *venv.Report) error

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
