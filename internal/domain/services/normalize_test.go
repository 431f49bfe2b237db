package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/dex-core/internal/domain/entities"
)

func TestNormalize(t *testing.T) {
	records := fixtureRecords()

	table, err := Normalize(records, []string{"total", "Speed"})
	require.NoError(t, err)

	assert.Equal(t, []entities.Metric{entities.MetricTotal, entities.MetricSpeed}, table.Columns)
	assert.Equal(t, []float64{299, 43}, table.Min)
	assert.Equal(t, []float64{600, 101}, table.Max)
	require.Len(t, table.Rows, len(records))

	// Vulpix holds the minimum total, Landorus the maximum.
	assert.Equal(t, 0.0, table.Rows[4].Values[0])
	assert.Equal(t, 1.0, table.Rows[5].Values[0])
	assert.InDelta(t, (534.0-299)/(600-299), table.Rows[2].Values[0], 1e-9)

	for _, row := range table.Rows {
		for _, v := range row.Values {
			assert.False(t, math.IsNaN(v))
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestNormalize_DegenerateRange(t *testing.T) {
	records := []entities.Record{
		record(1, "A", "A", "base", "Normal", "None", entities.Stats{50, 10, 10, 10, 10, 10}),
		record(2, "B", "B", "base", "Normal", "None", entities.Stats{50, 20, 20, 20, 20, 20}),
	}

	_, err := Normalize(records, []string{"Attack", "HP"})
	var rangeErr *DegenerateRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "HP", rangeErr.Column)
	assert.Equal(t, 50.0, rangeErr.Value)
}

func TestNormalize_SingleRecordIsDegenerate(t *testing.T) {
	_, err := Normalize(fixtureRecords()[:1], []string{"total"})
	var rangeErr *DegenerateRangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestNormalize_SelectionErrors(t *testing.T) {
	var selErr *SelectionError

	_, err := Normalize(nil, []string{"total"})
	require.ErrorAs(t, err, &selErr)

	_, err = Normalize(fixtureRecords(), nil)
	require.ErrorAs(t, err, &selErr)

	_, err = Normalize(fixtureRecords(), []string{"luck"})
	require.ErrorAs(t, err, &selErr)
}
