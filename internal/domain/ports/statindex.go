package ports

import (
	"context"

	"github.com/ersonp/dex-core/internal/domain/entities"
)

// StatMatch is a record returned by a nearest-neighbour stat search.
type StatMatch struct {
	ID       int
	Name     string
	Distance float32
}

// StatIndex stores six-stat vectors for nearest-neighbour lookup.
type StatIndex interface {
	// EnsureCollection creates the index if it doesn't exist.
	EnsureCollection(ctx context.Context, vectorSize uint64) error

	// Upsert stores the stat vectors of records keyed by record id.
	Upsert(ctx context.Context, records []entities.Record) error

	// Nearest returns up to limit records closest to vector, skipping excludeID.
	Nearest(ctx context.Context, vector []float32, limit int, excludeID int) ([]StatMatch, error)

	// Close releases the connection.
	Close() error
}
