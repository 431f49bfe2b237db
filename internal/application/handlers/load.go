package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/domain/ports"
	"github.com/ersonp/dex-core/internal/domain/services"
)

// LoadHandler loads a source into the record store and records the run.
type LoadHandler struct {
	store      *services.RecordStore
	db         ports.SnapshotDB
	similarity *services.SimilarityService
	logger     *zap.Logger
}

// NewLoadHandler creates a new load handler. db and similarity may be nil.
func NewLoadHandler(store *services.RecordStore, db ports.SnapshotDB, similarity *services.SimilarityService, logger *zap.Logger) *LoadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoadHandler{
		store:      store,
		db:         db,
		similarity: similarity,
		logger:     logger,
	}
}

// LoadOptions controls what happens after enrichment.
type LoadOptions struct {
	Persist bool // save the run to the snapshot database
	Index   bool // write stat vectors to the stat index
}

// LoadResult contains the result of a load.
type LoadResult struct {
	Snapshot *services.Snapshot
	Run      *entities.LoadRun
	Saved    bool // false when the fingerprint was already stored
	Indexed  bool
}

// Handle loads path. Bad rows are reported on the snapshot, not returned as
// errors; only an unreadable source or a failed save fails the load.
func (h *LoadHandler) Handle(ctx context.Context, path string, opts LoadOptions) (*LoadResult, error) {
	snap, err := h.store.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	result := &LoadResult{
		Snapshot: snap,
		Run:      RunFromSnapshot(snap),
	}

	if opts.Persist && h.db != nil {
		existing, err := h.db.FindRunByFingerprint(ctx, snap.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("checking load history: %w", err)
		}
		if existing != nil {
			h.logger.Debug("source already recorded", zap.String("run", existing.ID))
			result.Run = existing
		} else {
			if err := h.db.SaveRun(ctx, result.Run, snap.Full, RejectsFromSnapshot(snap)); err != nil {
				return nil, fmt.Errorf("saving load run: %w", err)
			}
			result.Saved = true
		}
	}

	if opts.Index && h.similarity != nil {
		if err := h.similarity.Index(ctx, snap.Full); err != nil {
			return nil, err
		}
		result.Indexed = true
	}

	return result, nil
}

// RunFromSnapshot builds the history row describing snap.
func RunFromSnapshot(snap *services.Snapshot) *entities.LoadRun {
	return &entities.LoadRun{
		Source:      snap.Source,
		Fingerprint: snap.Fingerprint,
		Records:     len(snap.Full),
		BaseRecords: len(snap.Base),
		Rejected:    len(snap.Rejected),
		Duplicates:  snap.Duplicates,
		CreatedAt:   snap.LoadedAt,
	}
}

// RejectsFromSnapshot converts the snapshot's data-quality errors for storage.
func RejectsFromSnapshot(snap *services.Snapshot) []entities.Reject {
	rejects := make([]entities.Reject, 0, len(snap.Rejected))
	for _, e := range snap.Rejected {
		rejects = append(rejects, entities.Reject{
			Line:     e.Line,
			RecordID: e.RecordID,
			Field:    e.Field,
			Value:    e.Value,
			Message:  e.Message,
		})
	}
	return rejects
}
