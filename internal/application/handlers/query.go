package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/domain/services"
)

// QueryHandler handles read-only dataset queries.
type QueryHandler struct {
	queryService *services.QueryService
	resolver     *services.ImageResolver
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(queryService *services.QueryService, resolver *services.ImageResolver) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
		resolver:     resolver,
	}
}

// SearchResult contains the result of a search.
type SearchResult struct {
	Query   string
	View    services.View
	Records []entities.Record
}

// Search finds records by base name.
func (h *QueryHandler) Search(query string, view services.View) (*SearchResult, error) {
	records, err := h.queryService.Search(query, view)
	if err != nil {
		return nil, fmt.Errorf("searching records: %w", err)
	}
	return &SearchResult{Query: query, View: view, Records: records}, nil
}

// Detail is a single record with its resolved artwork.
type Detail struct {
	Record entities.Record
	Image  string
}

// Show looks up one record by display name and resolves its artwork.
func (h *QueryHandler) Show(ctx context.Context, name string, view services.View) (*Detail, error) {
	rec, err := h.queryService.Lookup(name, view)
	if err != nil {
		return nil, fmt.Errorf("looking up %q: %w", name, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("no record named %q in %s view", name, view)
	}
	return &Detail{Record: *rec, Image: h.resolver.ResolveRecord(ctx, *rec)}, nil
}

// Image resolves the artwork key for an id and form.
func (h *QueryHandler) Image(ctx context.Context, id int, form string) string {
	return h.resolver.Resolve(ctx, id, form)
}

// Rank orders records by a metric.
func (h *QueryHandler) Rank(opts services.RankOptions) ([]entities.Record, error) {
	records, err := h.queryService.Rank(opts)
	if err != nil {
		return nil, fmt.Errorf("ranking records: %w", err)
	}
	return records, nil
}

// TypeSummary lists the primary types of a view and, when there are at
// least two, their mean stats.
type TypeSummary struct {
	Types    []string
	Averages *services.TypeAverages
}

// Types summarizes types. With no types given every primary type is
// averaged; with no stats given every base stat is averaged.
func (h *QueryHandler) Types(view services.View, types, stats []string) (*TypeSummary, error) {
	all, err := h.queryService.Types(view)
	if err != nil {
		return nil, fmt.Errorf("listing types: %w", err)
	}

	summary := &TypeSummary{Types: all}
	if len(types) == 0 {
		if len(all) < 2 {
			return summary, nil
		}
		types = all
	}
	if len(stats) == 0 {
		stats = allStats()
	}

	averages, err := h.queryService.GroupAverageByType(view, types, stats)
	if err != nil {
		return nil, fmt.Errorf("averaging stats: %w", err)
	}
	summary.Averages = averages
	return summary, nil
}

func allStats() []string {
	stats := make([]string, len(entities.StatOrder))
	for i, s := range entities.StatOrder {
		stats[i] = string(s)
	}
	return stats
}

// Comparison is a comparison set, optionally min-max normalized.
type Comparison struct {
	Set        *services.ComparisonSet
	Normalized *services.NormalizedTable
}

// Compare resolves base names and, if columns are given, min-max scales
// those columns against the whole view and keeps the compared rows.
func (h *QueryHandler) Compare(names []string, view services.View, columns []string) (*Comparison, error) {
	set, err := h.queryService.BuildComparisonSet(names, view)
	if err != nil {
		return nil, fmt.Errorf("building comparison: %w", err)
	}

	result := &Comparison{Set: set}
	if len(columns) == 0 {
		return result, nil
	}

	table, err := h.queryService.Normalize(view, columns)
	if err != nil {
		return nil, fmt.Errorf("normalizing comparison: %w", err)
	}
	result.Normalized = selectRows(table, set.Records())
	return result, nil
}

type rowKey struct {
	id   int
	name string
}

// selectRows keeps the view-wide ranges of table but only the rows for
// records, in the order given.
func selectRows(table *services.NormalizedTable, records []entities.Record) *services.NormalizedTable {
	byKey := make(map[rowKey]services.NormalizedRow, len(table.Rows))
	for _, row := range table.Rows {
		byKey[rowKey{row.Record.ID, row.Record.Name}] = row
	}

	rows := make([]services.NormalizedRow, 0, len(records))
	for _, rec := range records {
		if row, ok := byKey[rowKey{rec.ID, rec.Name}]; ok {
			rows = append(rows, row)
		}
	}

	return &services.NormalizedTable{
		Columns: table.Columns,
		Min:     table.Min,
		Max:     table.Max,
		Rows:    rows,
	}
}

// Records returns every record of a view.
func (h *QueryHandler) Records(view services.View) ([]entities.Record, error) {
	return h.queryService.Records(view)
}
