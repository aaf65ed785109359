// Package track is the durable local ledger that makes the POP pipeline
// idempotent across runs: one record per external file id, recording
// processing status and the last match outcome.
package track

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/starcasualty/popmatch/internal/model"
)

// ErrNotFound is returned when no ledger record exists for the given key.
var ErrNotFound = eris.New("track: record not found")

// Store defines the tracking ledger operations.
type Store interface {
	// Claim atomically admits a document for processing. It creates an
	// IN_PROGRESS record on first sighting, promotes a NOT_PROCESSED
	// record to IN_PROGRESS, and declines (claimed=false) when a record
	// exists in any other status. Safe against concurrent runs.
	Claim(ctx context.Context, fileID string, originalDate time.Time, filePath string) (processingID string, claimed bool, err error)

	// SetStatus transitions an existing record's status in place, or
	// creates the record if this is its first sighting. A zero-row update
	// on an existing record surfaces as an error.
	SetStatus(ctx context.Context, fileID string, originalDate time.Time, filePath string, status model.Status, matchSummary string) (processingID string, err error)

	GetByFileID(ctx context.Context, fileID string) (*model.TrackingRecord, error)
	GetAll(ctx context.Context) ([]model.TrackingRecord, error)
	GetByStatus(ctx context.Context, status model.Status) ([]model.TrackingRecord, error)
	CountByStatus(ctx context.Context, status model.Status) (int, error)

	// ResetStatus returns a record to NOT_PROCESSED so a future poll
	// retries it. Operator tool; there is no automatic requeue.
	ResetStatus(ctx context.Context, fileID string) error

	// Delete removes a record by processing id. Operator/debug tool only.
	Delete(ctx context.Context, processingID string) (bool, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
