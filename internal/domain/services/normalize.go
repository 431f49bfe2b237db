package services

import (
	"github.com/ersonp/dex-core/internal/domain/entities"
)

// NormalizedRow holds one record's min-max scaled values, one per column.
type NormalizedRow struct {
	Record entities.Record
	Values []float64
}

// NormalizedTable is the result of Normalize.
type NormalizedTable struct {
	Columns []entities.Metric
	Min     []float64
	Max     []float64
	Rows    []NormalizedRow
}

// Normalize min-max scales the selected columns of the current view.
func (s *QueryService) Normalize(view View, columns []string) (*NormalizedTable, error) {
	records, err := s.store.View(view)
	if err != nil {
		return nil, err
	}
	return Normalize(records, columns)
}

// Normalize scales each column to (v - min) / (max - min) across records.
// A column whose min equals its max yields a *DegenerateRangeError.
func Normalize(records []entities.Record, columns []string) (*NormalizedTable, error) {
	if len(records) == 0 {
		return nil, selectionErrorf("no records to normalize")
	}
	if len(columns) == 0 {
		return nil, selectionErrorf("no columns to normalize")
	}

	table := &NormalizedTable{
		Columns: make([]entities.Metric, len(columns)),
		Min:     make([]float64, len(columns)),
		Max:     make([]float64, len(columns)),
		Rows:    make([]NormalizedRow, len(records)),
	}

	for c, name := range columns {
		m, ok := ParseMetric(name)
		if !ok {
			return nil, selectionErrorf("invalid column %q, valid columns: %s", name, metricNames())
		}
		table.Columns[c] = m

		lo, _ := records[0].Metric(m)
		hi := lo
		for _, rec := range records[1:] {
			v, _ := rec.Metric(m)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if hi == lo {
			return nil, &DegenerateRangeError{Column: string(m), Value: lo}
		}
		table.Min[c] = lo
		table.Max[c] = hi
	}

	for i, rec := range records {
		row := NormalizedRow{Record: rec, Values: make([]float64, len(columns))}
		for c, m := range table.Columns {
			v, _ := rec.Metric(m)
			row.Values[c] = (v - table.Min[c]) / (table.Max[c] - table.Min[c])
		}
		table.Rows[i] = row
	}

	return table, nil
}
