package mocks

import (
	"context"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/domain/ports"
)

// StatIndex is a mock implementation of ports.StatIndex.
type StatIndex struct {
	Records    []entities.Record
	Matches    []ports.StatMatch
	VectorSize uint64
	Err        error
	Closed     bool
}

// EnsureCollection records the requested vector size.
func (m *StatIndex) EnsureCollection(_ context.Context, vectorSize uint64) error {
	if m.Err != nil {
		return m.Err
	}
	m.VectorSize = vectorSize
	return nil
}

// Upsert stores the records.
func (m *StatIndex) Upsert(_ context.Context, records []entities.Record) error {
	if m.Err != nil {
		return m.Err
	}
	m.Records = append(m.Records, records...)
	return nil
}

// Nearest returns the configured matches.
func (m *StatIndex) Nearest(_ context.Context, _ []float32, limit int, excludeID int) ([]ports.StatMatch, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []ports.StatMatch
	for _, match := range m.Matches {
		if match.ID == excludeID {
			continue
		}
		result = append(result, match)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

// Close marks the index closed.
func (m *StatIndex) Close() error {
	m.Closed = true
	return nil
}
