package mocks

import (
	"context"
	"fmt"
	"sort"

	"github.com/ersonp/dex-core/internal/domain/entities"
)

// SnapshotDB is a mock implementation of ports.SnapshotDB.
type SnapshotDB struct {
	Runs    map[string]*entities.LoadRun
	Records map[string][]entities.Record
	Rejects map[string][]entities.Reject
	Err     error
}

// NewSnapshotDB creates a new mock SnapshotDB.
func NewSnapshotDB() *SnapshotDB {
	return &SnapshotDB{
		Runs:    make(map[string]*entities.LoadRun),
		Records: make(map[string][]entities.Record),
		Rejects: make(map[string][]entities.Reject),
	}
}

// EnsureSchema creates the database schema if it doesn't exist.
func (m *SnapshotDB) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the database connection.
func (m *SnapshotDB) Close() error {
	return nil
}

// SaveRun stores a run with its records and rejects.
func (m *SnapshotDB) SaveRun(_ context.Context, run *entities.LoadRun, records []entities.Record, rejects []entities.Reject) error {
	if m.Err != nil {
		return m.Err
	}
	if run.ID == "" {
		run.ID = fmt.Sprintf("run-%d", len(m.Runs)+1)
	}
	m.Runs[run.ID] = run
	m.Records[run.ID] = records
	m.Rejects[run.ID] = rejects
	return nil
}

// ListRuns lists runs newest first.
func (m *SnapshotDB) ListRuns(_ context.Context, limit int) ([]entities.LoadRun, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.LoadRun, 0, len(m.Runs))
	for _, r := range m.Runs {
		result = append(result, *r)
	}
	// Sort by creation time for deterministic test results
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// FindRun finds a run by ID.
func (m *SnapshotDB) FindRun(_ context.Context, id string) (*entities.LoadRun, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Runs[id], nil
}

// FindRunByFingerprint finds the newest run with the fingerprint.
func (m *SnapshotDB) FindRunByFingerprint(_ context.Context, fingerprint string) (*entities.LoadRun, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var found *entities.LoadRun
	for _, r := range m.Runs {
		if r.Fingerprint != fingerprint {
			continue
		}
		if found == nil || r.CreatedAt.After(found.CreatedAt) {
			found = r
		}
	}
	return found, nil
}

// FindRecords returns the records of a run.
func (m *SnapshotDB) FindRecords(_ context.Context, runID string) ([]entities.Record, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Records[runID], nil
}

// FindRejects returns the rejects of a run.
func (m *SnapshotDB) FindRejects(_ context.Context, runID string) ([]entities.Reject, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rejects[runID], nil
}

// DeleteRun deletes a run.
func (m *SnapshotDB) DeleteRun(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Runs[id]; !ok {
		return fmt.Errorf("load run not found: %s", id)
	}
	delete(m.Runs, id)
	delete(m.Records, id)
	delete(m.Rejects, id)
	return nil
}
