package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/domain/services"
)

// SimilarHandler finds creatures with stat lines close to a named one.
type SimilarHandler struct {
	queryService *services.QueryService
	similarity   *services.SimilarityService
}

// NewSimilarHandler creates a new similar handler.
func NewSimilarHandler(queryService *services.QueryService, similarity *services.SimilarityService) *SimilarHandler {
	return &SimilarHandler{
		queryService: queryService,
		similarity:   similarity,
	}
}

// SimilarOptions controls a similarity query.
type SimilarOptions struct {
	View    services.View
	Limit   int
	Reindex bool // rewrite the view's vectors before searching
}

// SimilarResult contains the target and its nearest records.
type SimilarResult struct {
	Target  entities.Record
	Matches []services.SimilarMatch
}

// Handle finds the records nearest to the one named name.
func (h *SimilarHandler) Handle(ctx context.Context, name string, opts SimilarOptions) (*SimilarResult, error) {
	target, err := h.queryService.Lookup(name, opts.View)
	if err != nil {
		return nil, fmt.Errorf("looking up %q: %w", name, err)
	}
	if target == nil {
		return nil, fmt.Errorf("no record named %q in %s view", name, opts.View)
	}

	pool, err := h.queryService.Records(opts.View)
	if err != nil {
		return nil, err
	}

	if opts.Reindex {
		if err := h.similarity.Index(ctx, pool); err != nil {
			return nil, err
		}
	}

	matches, err := h.similarity.Similar(ctx, *target, pool, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("finding similar records: %w", err)
	}

	return &SimilarResult{Target: *target, Matches: matches}, nil
}
