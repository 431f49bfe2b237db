package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/domain/ports"
)

// ErrNoHistory is returned when no snapshot database is configured.
var ErrNoHistory = errors.New("load history is disabled (set sqlite.path in config)")

// HistoryHandler reads past load runs.
type HistoryHandler struct {
	db ports.SnapshotDB
}

// NewHistoryHandler creates a new history handler. db may be nil.
func NewHistoryHandler(db ports.SnapshotDB) *HistoryHandler {
	return &HistoryHandler{db: db}
}

// RunDetail is a run with its rejected rows.
type RunDetail struct {
	Run     *entities.LoadRun
	Rejects []entities.Reject
}

// List returns the most recent runs.
func (h *HistoryHandler) List(ctx context.Context, limit int) ([]entities.LoadRun, error) {
	if h.db == nil {
		return nil, ErrNoHistory
	}
	runs, err := h.db.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Show returns one run and the rows it rejected.
func (h *HistoryHandler) Show(ctx context.Context, runID string) (*RunDetail, error) {
	run, err := h.find(ctx, runID)
	if err != nil {
		return nil, err
	}
	rejects, err := h.db.FindRejects(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("finding rejects: %w", err)
	}
	return &RunDetail{Run: run, Rejects: rejects}, nil
}

// Records returns the enriched records saved with a run.
func (h *HistoryHandler) Records(ctx context.Context, runID string) ([]entities.Record, error) {
	run, err := h.find(ctx, runID)
	if err != nil {
		return nil, err
	}
	records, err := h.db.FindRecords(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("finding records: %w", err)
	}
	return records, nil
}

// Delete removes a run.
func (h *HistoryHandler) Delete(ctx context.Context, runID string) error {
	if h.db == nil {
		return ErrNoHistory
	}
	if err := h.db.DeleteRun(ctx, runID); err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	return nil
}

func (h *HistoryHandler) find(ctx context.Context, runID string) (*entities.LoadRun, error) {
	if h.db == nil {
		return nil, ErrNoHistory
	}
	run, err := h.db.FindRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("finding run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	return run, nil
}
