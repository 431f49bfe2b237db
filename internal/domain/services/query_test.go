package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/dex-core/internal/domain/entities"
)

func record(id int, name, base, form, type1, type2 string, stats entities.Stats) entities.Record {
	d := entities.ComputeDerived(stats)
	return entities.Record{
		ID: id, Name: name, BaseName: base, Form: form,
		Type1: type1, Type2: type2, Stats: stats,
		TotalStats: d.Total, PowerScore: d.Power,
	}
}

func fixtureRecords() []entities.Record {
	return []entities.Record{
		record(1, "Bulbasaur", "Bulbasaur", "base", "Grass", "Poison", entities.Stats{45, 49, 49, 65, 65, 45}),
		record(4, "Charmander", "Charmander", "base", "Fire", "None", entities.Stats{39, 52, 43, 60, 50, 65}),
		record(6, "Charizard", "Charizard", "base", "Fire", "Flying", entities.Stats{78, 84, 78, 109, 85, 100}),
		record(7, "Squirtle", "Squirtle", "base", "Water", "None", entities.Stats{44, 48, 65, 50, 64, 43}),
		record(37, "Vulpix", "Vulpix", "base", "Fire", "None", entities.Stats{38, 41, 40, 50, 65, 65}),
		record(645, "Landorus Therian Forme", "Landorus", "therian", "Ground", "Flying", entities.Stats{89, 145, 90, 105, 80, 91}),
		record(646, "Landorus Incarnate Forme", "Landorus", "incarnate", "Ground", "Flying", entities.Stats{89, 125, 90, 115, 80, 101}),
	}
}

func loadedQueryService(t *testing.T) *QueryService {
	t.Helper()
	store := NewRecordStore(nil)
	store.Load("fixture", sampleRows())
	return NewQueryService(store)
}

func TestSearchRecords(t *testing.T) {
	records := fixtureRecords()

	got, err := SearchRecords(records, "char")
	require.NoError(t, err)
	assert.Equal(t, []string{"Charmander", "Charizard"}, names(got))

	got, err = SearchRecords(records, "  LANDORUS ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Landorus Therian Forme", "Landorus Incarnate Forme"}, names(got))

	got, err = SearchRecords(records, "therian")
	require.NoError(t, err)
	assert.Empty(t, got, "search matches base names, not display names")

	_, err = SearchRecords(records, "   ")
	var selErr *SelectionError
	require.ErrorAs(t, err, &selErr)
}

func TestQueryService_NotLoaded(t *testing.T) {
	svc := NewQueryService(NewRecordStore(nil))

	_, err := svc.Search("char", ViewFull)
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = svc.Rank(RankOptions{Metric: entities.MetricTotal})
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = svc.Types(ViewBase)
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = svc.Normalize(ViewFull, []string{"total"})
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestQueryService_SearchRespectsView(t *testing.T) {
	svc := loadedQueryService(t)

	full, err := svc.Search("landorus", ViewFull)
	require.NoError(t, err)
	assert.Len(t, full, 1)

	base, err := svc.Search("landorus", ViewBase)
	require.NoError(t, err)
	assert.Empty(t, base)
}

func TestQueryService_Lookup(t *testing.T) {
	svc := loadedQueryService(t)

	rec, err := svc.Lookup("charizard", ViewFull)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 6, rec.ID)

	rec, err = svc.Lookup("Missingno", ViewFull)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestQueryService_Types(t *testing.T) {
	svc := loadedQueryService(t)

	types, err := svc.Types(ViewFull)
	require.NoError(t, err)
	assert.Equal(t, []string{"Electric", "Fire", "Grass", "Ground", "Psychic"}, types)
}

func TestRankRecords_Descending(t *testing.T) {
	got, err := RankRecords(fixtureRecords(), RankOptions{Metric: entities.MetricTotal, TopN: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"Landorus Therian Forme", "Landorus Incarnate Forme", "Charizard"}, names(got))
}

func TestRankRecords_StableTies(t *testing.T) {
	records := []entities.Record{
		record(1, "A", "A", "base", "Normal", "None", entities.Stats{10, 10, 10, 10, 10, 10}),
		record(2, "B", "B", "base", "Normal", "None", entities.Stats{20, 20, 20, 20, 20, 20}),
		record(3, "C", "C", "base", "Normal", "None", entities.Stats{10, 10, 10, 10, 10, 10}),
		record(4, "D", "D", "base", "Normal", "None", entities.Stats{20, 20, 20, 20, 20, 20}),
	}

	desc, err := RankRecords(records, RankOptions{Metric: entities.MetricTotal})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "D", "A", "C"}, names(desc))

	asc, err := RankRecords(records, RankOptions{Metric: entities.MetricTotal, Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B", "D"}, names(asc))

	assert.Equal(t, []string{"A", "B", "C", "D"}, names(records), "input must not be reordered")
}

func TestRankRecords_TypeFilterBeforeTruncation(t *testing.T) {
	got, err := RankRecords(fixtureRecords(), RankOptions{Metric: entities.MetricSpeed, Type: "Fire", TopN: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Charizard", "Charmander"}, names(got))

	got, err = RankRecords(fixtureRecords(), RankOptions{Metric: entities.MetricTotal, Type: "Flying"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Landorus Therian Forme", "Landorus Incarnate Forme", "Charizard"}, names(got))

	got, err = RankRecords(fixtureRecords(), RankOptions{Metric: entities.MetricTotal, Type: "Dragon"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRankRecords_TopNLargerThanInput(t *testing.T) {
	got, err := RankRecords(fixtureRecords(), RankOptions{Metric: "power", TopN: 100})
	require.NoError(t, err)
	assert.Len(t, got, len(fixtureRecords()))
}

func TestRankRecords_InvalidMetric(t *testing.T) {
	_, err := RankRecords(fixtureRecords(), RankOptions{Metric: "charm"})
	var selErr *SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Contains(t, selErr.Error(), "total_stats")
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in   string
		want entities.Metric
		ok   bool
	}{
		{in: "total_stats", want: entities.MetricTotal, ok: true},
		{in: "Total", want: entities.MetricTotal, ok: true},
		{in: "power", want: entities.MetricPower, ok: true},
		{in: "sp_atk", want: entities.Metric(entities.StatSpAtk), ok: true},
		{in: "Speed", want: entities.MetricSpeed, ok: true},
		{in: "luck", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMetric(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestGroupAverageRecords(t *testing.T) {
	got, err := GroupAverageRecords(fixtureRecords(), []string{"Fire", "Water", "Fairy", "Fire"}, []string{"Attack", "speed", "luck"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Fire", "Water"}, got.Types)
	assert.Equal(t, []entities.Stat{entities.StatAttack, entities.StatSpeed}, got.Stats)
	assert.Equal(t, 3, got.Counts["Fire"])
	assert.Equal(t, 1, got.Counts["Water"])
	assert.InDelta(t, (52.0+84+41)/3, got.Means["Fire"][entities.StatAttack], 1e-9)
	assert.InDelta(t, (65.0+100+65)/3, got.Means["Fire"][entities.StatSpeed], 1e-9)
	assert.InDelta(t, 48.0, got.Means["Water"][entities.StatAttack], 1e-9)
}

func TestGroupAverageRecords_UsesPrimaryTypeOnly(t *testing.T) {
	_, err := GroupAverageRecords(fixtureRecords(), []string{"Flying", "Fire"}, []string{"HP"})
	var selErr *SelectionError
	require.ErrorAs(t, err, &selErr)
}

func TestGroupAverageRecords_SelectionErrors(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		stats []string
	}{
		{name: "one type", types: []string{"Fire"}, stats: []string{"HP"}},
		{name: "unknown types", types: []string{"Fairy", "Steel"}, stats: []string{"HP"}},
		{name: "duplicate type", types: []string{"Fire", "Fire"}, stats: []string{"HP"}},
		{name: "no stats", types: []string{"Fire", "Water"}, stats: nil},
		{name: "unknown stats", types: []string{"Fire", "Water"}, stats: []string{"luck"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GroupAverageRecords(fixtureRecords(), tt.types, tt.stats)
			var selErr *SelectionError
			require.ErrorAs(t, err, &selErr)
		})
	}
}

func TestComparisonRecords(t *testing.T) {
	set, err := ComparisonRecords(fixtureRecords(), []string{"landorus", "Mewtwo", "Bulbasaur", "LANDORUS"})
	require.NoError(t, err)

	require.Len(t, set.Entries, 2)
	assert.Equal(t, "Landorus", set.Entries[0].BaseName)
	assert.Len(t, set.Entries[0].Records, 2)
	assert.Equal(t, "Bulbasaur", set.Entries[1].BaseName)
	assert.Equal(t, []string{"Mewtwo"}, set.Missing)
	assert.Equal(t, []string{"Landorus Therian Forme", "Landorus Incarnate Forme", "Bulbasaur"}, names(set.Records()))
}

func TestComparisonRecords_Errors(t *testing.T) {
	var selErr *SelectionError

	_, err := ComparisonRecords(fixtureRecords(), nil)
	require.ErrorAs(t, err, &selErr)

	_, err = ComparisonRecords(fixtureRecords(), []string{" ", ""})
	require.ErrorAs(t, err, &selErr)

	_, err = ComparisonRecords(fixtureRecords(), []string{"Mewtwo", "Mew"})
	require.ErrorAs(t, err, &selErr)
	assert.Contains(t, err.Error(), "Mewtwo, Mew")
}

func TestQueryService_BuildComparisonSet(t *testing.T) {
	svc := loadedQueryService(t)

	set, err := svc.BuildComparisonSet([]string{"Pikachu", "Charizard"}, ViewBase)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pikachu", "Charizard"}, names(set.Records()))
}
