package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/domain/ports"
)

// StatVectorSize is the dimension of a stat vector.
const StatVectorSize = uint64(len(entities.StatOrder))

// SimilarMatch is a record close to the target by base stats.
type SimilarMatch struct {
	Record   entities.Record
	Distance float64
}

// SimilarityService finds creatures with comparable stat lines. Without a
// configured index it computes distances in memory.
type SimilarityService struct {
	index  ports.StatIndex
	logger *zap.Logger
}

// NewSimilarityService creates a similarity service. index may be nil.
func NewSimilarityService(index ports.StatIndex, logger *zap.Logger) *SimilarityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimilarityService{index: index, logger: logger}
}

// Index writes the stat vectors of records to the index.
func (s *SimilarityService) Index(ctx context.Context, records []entities.Record) error {
	if s.index == nil {
		return nil
	}
	if err := s.index.EnsureCollection(ctx, StatVectorSize); err != nil {
		return fmt.Errorf("ensuring stat index: %w", err)
	}
	if err := s.index.Upsert(ctx, records); err != nil {
		return fmt.Errorf("indexing stat vectors: %w", err)
	}
	s.logger.Info("stat vectors indexed", zap.Int("records", len(records)))
	return nil
}

// Similar returns up to limit records from pool closest to target.
func (s *SimilarityService) Similar(ctx context.Context, target entities.Record, pool []entities.Record, limit int) ([]SimilarMatch, error) {
	if limit <= 0 {
		limit = DefaultRankLimit
	}
	if s.index == nil {
		return NearestInMemory(target, pool, limit), nil
	}

	matches, err := s.index.Nearest(ctx, target.Stats.Vector(), limit, target.ID)
	if err != nil {
		return nil, fmt.Errorf("searching stat index: %w", err)
	}

	byID := make(map[int]entities.Record, len(pool))
	for _, rec := range pool {
		byID[rec.ID] = rec
	}

	result := make([]SimilarMatch, 0, len(matches))
	for _, m := range matches {
		rec, ok := byID[m.ID]
		if !ok {
			s.logger.Debug("index returned unknown record", zap.Int("id", m.ID))
			continue
		}
		result = append(result, SimilarMatch{Record: rec, Distance: float64(m.Distance)})
	}
	return result, nil
}

// NearestInMemory ranks pool by Euclidean stat distance to target. The
// target itself is skipped; ties keep pool order.
func NearestInMemory(target entities.Record, pool []entities.Record, limit int) []SimilarMatch {
	matches := make([]SimilarMatch, 0, len(pool))
	for _, rec := range pool {
		if rec.ID == target.ID {
			continue
		}
		matches = append(matches, SimilarMatch{Record: rec, Distance: StatDistance(target.Stats, rec.Stats)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// StatDistance is the Euclidean distance between two stat lines.
func StatDistance(a, b entities.Stats) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
