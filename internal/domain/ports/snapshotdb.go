package ports

import (
	"context"

	"github.com/ersonp/dex-core/internal/domain/entities"
)

// SnapshotDB persists enriched snapshots and their load history.
type SnapshotDB interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// SaveRun stores a load run together with its records and rejected rows.
	SaveRun(ctx context.Context, run *entities.LoadRun, records []entities.Record, rejects []entities.Reject) error

	// ListRuns lists load runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]entities.LoadRun, error)

	// FindRun finds a load run by ID. Returns nil if not found.
	FindRun(ctx context.Context, id string) (*entities.LoadRun, error)

	// FindRunByFingerprint finds the newest run of a source fingerprint.
	// Returns nil if not found.
	FindRunByFingerprint(ctx context.Context, fingerprint string) (*entities.LoadRun, error)

	// FindRecords returns the records stored for a run in source order.
	FindRecords(ctx context.Context, runID string) ([]entities.Record, error)

	// FindRejects returns the rejected rows of a run in source order.
	FindRejects(ctx context.Context, runID string) ([]entities.Reject, error)

	// DeleteRun deletes a run with its records and rejects.
	DeleteRun(ctx context.Context, id string) error
}
