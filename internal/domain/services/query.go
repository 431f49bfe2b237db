package services

import (
	"sort"
	"strings"

	"github.com/ersonp/dex-core/internal/domain/entities"
)

// DefaultRankLimit is the default number of ranked records to return.
const DefaultRankLimit = 10

// QueryService answers read-only queries over the record store's current
// snapshot. Every result is a fresh slice; snapshot records are never
// reordered in place.
type QueryService struct {
	store *RecordStore
}

// NewQueryService creates a new query service.
func NewQueryService(store *RecordStore) *QueryService {
	return &QueryService{store: store}
}

// Records returns a copy of every record in a view, in source order.
func (s *QueryService) Records(view View) ([]entities.Record, error) {
	records, err := s.store.View(view)
	if err != nil {
		return nil, err
	}
	return append([]entities.Record(nil), records...), nil
}

// Search returns records whose base name contains query, ignoring case.
// Matching on the base name surfaces every form of a creature.
func (s *QueryService) Search(query string, view View) ([]entities.Record, error) {
	records, err := s.store.View(view)
	if err != nil {
		return nil, err
	}
	return SearchRecords(records, query)
}

// SearchRecords is Search over an explicit record slice.
func SearchRecords(records []entities.Record, query string) ([]entities.Record, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, selectionErrorf("search query is empty")
	}

	var matches []entities.Record
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.BaseName), q) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// Lookup finds a record by display name, ignoring case. Returns nil if not
// found.
func (s *QueryService) Lookup(name string, view View) (*entities.Record, error) {
	records, err := s.store.View(view)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	for i := range records {
		if strings.EqualFold(records[i].Name, name) {
			rec := records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// Types returns the distinct primary types of a view, sorted.
func (s *QueryService) Types(view View) ([]string, error) {
	records, err := s.store.View(view)
	if err != nil {
		return nil, err
	}
	return primaryTypes(records), nil
}

func primaryTypes(records []entities.Record) []string {
	seen := make(map[string]struct{})
	var types []string
	for _, rec := range records {
		if _, ok := seen[rec.Type1]; ok {
			continue
		}
		seen[rec.Type1] = struct{}{}
		types = append(types, rec.Type1)
	}
	sort.Strings(types)
	return types
}

// RankOptions controls a ranking query.
type RankOptions struct {
	Metric    entities.Metric
	View      View
	Ascending bool
	TopN      int    // <= 0 returns every match
	Type      string // optional; matches primary or secondary type exactly
}

// Rank orders a view by a metric. The sort is stable in both directions, so
// ties keep source order. The type filter applies before truncation.
func (s *QueryService) Rank(opts RankOptions) ([]entities.Record, error) {
	records, err := s.store.View(opts.View)
	if err != nil {
		return nil, err
	}
	return RankRecords(records, opts)
}

// RankRecords is Rank over an explicit record slice; opts.View is ignored.
func RankRecords(records []entities.Record, opts RankOptions) ([]entities.Record, error) {
	metric, ok := ParseMetric(string(opts.Metric))
	if !ok {
		return nil, selectionErrorf("invalid metric %q, valid metrics: %s", opts.Metric, metricNames())
	}

	ranked := make([]entities.Record, 0, len(records))
	for _, rec := range records {
		if opts.Type != "" && !rec.HasType(opts.Type) {
			continue
		}
		ranked = append(ranked, rec)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, _ := ranked[i].Metric(metric)
		b, _ := ranked[j].Metric(metric)
		if opts.Ascending {
			return a < b
		}
		return a > b
	})

	if opts.TopN > 0 && len(ranked) > opts.TopN {
		ranked = ranked[:opts.TopN]
	}
	return ranked, nil
}

// ParseMetric resolves a metric or stat column name.
func ParseMetric(name string) (entities.Metric, bool) {
	if m := entities.Metric(strings.TrimSpace(name)); m.IsValid() {
		return m, true
	}
	if s, ok := entities.ParseStat(name); ok {
		return entities.Metric(s), true
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "total", "total_stats", "total stats":
		return entities.MetricTotal, true
	case "power", "power_score", "power score":
		return entities.MetricPower, true
	}
	return "", false
}

func metricNames() string {
	names := make([]string, len(entities.Metrics))
	for i, m := range entities.Metrics {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// TypeAverages holds mean stat values per primary type.
type TypeAverages struct {
	Types  []string
	Stats  []entities.Stat
	Counts map[string]int
	Means  map[string]map[entities.Stat]float64
}

// GroupAverageByType averages the selected stats per primary type. Unknown
// types and stats are dropped; at least two valid types and one valid stat
// must remain.
func (s *QueryService) GroupAverageByType(view View, types, stats []string) (*TypeAverages, error) {
	records, err := s.store.View(view)
	if err != nil {
		return nil, err
	}
	return GroupAverageRecords(records, types, stats)
}

// GroupAverageRecords is GroupAverageByType over an explicit record slice.
func GroupAverageRecords(records []entities.Record, types, stats []string) (*TypeAverages, error) {
	known := make(map[string]struct{})
	for _, t := range primaryTypes(records) {
		known[t] = struct{}{}
	}

	var validTypes []string
	selected := make(map[string]struct{})
	for _, t := range types {
		t = strings.TrimSpace(t)
		if _, ok := known[t]; !ok {
			continue
		}
		if _, dup := selected[t]; dup {
			continue
		}
		selected[t] = struct{}{}
		validTypes = append(validTypes, t)
	}
	if len(validTypes) < 2 {
		return nil, selectionErrorf("select at least 2 valid types, got %d", len(validTypes))
	}

	var validStats []entities.Stat
	seenStats := make(map[entities.Stat]struct{})
	for _, name := range stats {
		st, ok := entities.ParseStat(name)
		if !ok {
			continue
		}
		if _, dup := seenStats[st]; dup {
			continue
		}
		seenStats[st] = struct{}{}
		validStats = append(validStats, st)
	}
	if len(validStats) == 0 {
		return nil, selectionErrorf("no valid stats selected")
	}

	result := &TypeAverages{
		Types:  validTypes,
		Stats:  validStats,
		Counts: make(map[string]int, len(validTypes)),
		Means:  make(map[string]map[entities.Stat]float64, len(validTypes)),
	}
	for _, t := range validTypes {
		result.Means[t] = make(map[entities.Stat]float64, len(validStats))
	}

	for _, rec := range records {
		if _, ok := selected[rec.Type1]; !ok {
			continue
		}
		result.Counts[rec.Type1]++
		for _, st := range validStats {
			result.Means[rec.Type1][st] += rec.Stats.Get(st)
		}
	}
	for _, t := range validTypes {
		n := float64(result.Counts[t])
		for _, st := range validStats {
			result.Means[t][st] /= n
		}
	}

	return result, nil
}

// ComparisonEntry is one requested base name and the rows it resolved to.
type ComparisonEntry struct {
	BaseName string
	Records  []entities.Record
}

// ComparisonSet is the result of BuildComparisonSet.
type ComparisonSet struct {
	Entries []ComparisonEntry
	Missing []string
}

// Records flattens the set in request order.
func (c *ComparisonSet) Records() []entities.Record {
	var out []entities.Record
	for _, e := range c.Entries {
		out = append(out, e.Records...)
	}
	return out
}

// BuildComparisonSet resolves each base name to its rows in the view,
// keeping the caller's order. Names without rows are reported in Missing.
func (s *QueryService) BuildComparisonSet(baseNames []string, view View) (*ComparisonSet, error) {
	records, err := s.store.View(view)
	if err != nil {
		return nil, err
	}
	return ComparisonRecords(records, baseNames)
}

// ComparisonRecords is BuildComparisonSet over an explicit record slice.
func ComparisonRecords(records []entities.Record, baseNames []string) (*ComparisonSet, error) {
	set := &ComparisonSet{}
	requested := make(map[string]struct{})

	for _, name := range baseNames {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, dup := requested[key]; dup {
			continue
		}
		requested[key] = struct{}{}

		entry := ComparisonEntry{BaseName: name}
		for _, rec := range records {
			if strings.ToLower(rec.BaseName) == key {
				entry.Records = append(entry.Records, rec)
			}
		}
		if len(entry.Records) == 0 {
			set.Missing = append(set.Missing, name)
			continue
		}
		entry.BaseName = entry.Records[0].BaseName
		set.Entries = append(set.Entries, entry)
	}

	if len(requested) == 0 {
		return nil, selectionErrorf("no names to compare")
	}
	if len(set.Entries) == 0 {
		return nil, selectionErrorf("none of the requested names were found: %s", strings.Join(set.Missing, ", "))
	}
	return set, nil
}
