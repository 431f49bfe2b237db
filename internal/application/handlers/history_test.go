package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/domain/mocks"
)

func seededHistory(t *testing.T) *mocks.SnapshotDB {
	t.Helper()
	db := mocks.NewSnapshotDB()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	older := &entities.LoadRun{ID: "run-a", Source: "old.csv", CreatedAt: base}
	newer := &entities.LoadRun{ID: "run-b", Source: "new.csv", CreatedAt: base.Add(time.Hour), Rejected: 1}
	require.NoError(t, db.SaveRun(t.Context(), older, nil, nil))
	require.NoError(t, db.SaveRun(t.Context(), newer,
		[]entities.Record{{ID: 25, Name: "Pikachu"}},
		[]entities.Reject{{Line: 4, Field: "HP", Value: "", Message: "invalid HP value"}},
	))
	return db
}

func TestHistoryHandler_List(t *testing.T) {
	handler := NewHistoryHandler(seededHistory(t))

	runs, err := handler.List(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].ID)
}

func TestHistoryHandler_Show(t *testing.T) {
	handler := NewHistoryHandler(seededHistory(t))

	detail, err := handler.Show(t.Context(), "run-b")
	require.NoError(t, err)
	assert.Equal(t, "new.csv", detail.Run.Source)
	require.Len(t, detail.Rejects, 1)
	assert.Equal(t, 4, detail.Rejects[0].Line)

	_, err = handler.Show(t.Context(), "run-z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestHistoryHandler_Records(t *testing.T) {
	handler := NewHistoryHandler(seededHistory(t))

	records, err := handler.Records(t.Context(), "run-b")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Pikachu", records[0].Name)
}

func TestHistoryHandler_Delete(t *testing.T) {
	db := seededHistory(t)
	handler := NewHistoryHandler(db)

	require.NoError(t, handler.Delete(t.Context(), "run-a"))
	assert.NotContains(t, db.Runs, "run-a")
	require.Error(t, handler.Delete(t.Context(), "run-a"))
}

func TestHistoryHandler_Disabled(t *testing.T) {
	handler := NewHistoryHandler(nil)

	_, err := handler.List(t.Context(), 10)
	require.ErrorIs(t, err, ErrNoHistory)
	_, err = handler.Show(t.Context(), "run-a")
	require.ErrorIs(t, err, ErrNoHistory)
	_, err = handler.Records(t.Context(), "run-a")
	require.ErrorIs(t, err, ErrNoHistory)
	require.ErrorIs(t, handler.Delete(t.Context(), "run-a"), ErrNoHistory)
}
