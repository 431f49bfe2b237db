package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/infrastructure/parsers"
)

// raw builds a source row with stats in HP, Atk, Def, SpA, SpD, Spe order.
func raw(line int, id, name, type1, type2 string, stats ...string) parsers.RawRecord {
	r := parsers.RawRecord{ID: id, Name: name, Type1: type1, Type2: type2, LineNum: line}
	copy(r.Stats[:], stats)
	return r
}

func TestEnrich_Valid(t *testing.T) {
	row := raw(7, "6", "Charizard", "Fire", "Flying", "78", "84", "78", "109", "85", "100")
	row.Generation = "1"
	row.Legendary = "False"

	rec, dqErr := Enrich(&row)
	require.Nil(t, dqErr)

	assert.Equal(t, 6, rec.ID)
	assert.Equal(t, "Charizard", rec.Name)
	assert.Equal(t, "Flying", rec.Type2)
	assert.Equal(t, entities.Stats{78, 84, 78, 109, 85, 100}, rec.Stats)
	assert.Equal(t, 534.0, rec.TotalStats)
	assert.InDelta(t, 653.9, rec.PowerScore, 1e-9)
	assert.Equal(t, "Charizard", rec.BaseName)
	assert.Equal(t, "base", rec.Form)
	assert.Equal(t, "6.jpg", rec.ImageKey)
	assert.Equal(t, 1, rec.Generation)
	assert.False(t, rec.Legendary)
	assert.Equal(t, 7, rec.SourceLine)
	assert.True(t, rec.IsCanonicalBase())
}

func TestEnrich_MissingSecondTypeDefaultsToNone(t *testing.T) {
	row := raw(2, "25", "Pikachu", "Electric", "", "35", "55", "40", "50", "50", "90")

	rec, dqErr := Enrich(&row)
	require.Nil(t, dqErr)
	assert.Equal(t, entities.NoType, rec.Type2)
}

func TestEnrich_DerivesForms(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		display   string
		wantBase  string
		wantForm  string
		wantImage string
	}{
		{name: "mega", id: "6", display: "CharizardMega Charizard X", wantBase: "Charizard", wantForm: "mega-x", wantImage: "6-mega-x.jpg"},
		{name: "forme", id: "645", display: "Landorus Therian Forme", wantBase: "Landorus", wantForm: "therian", wantImage: "645-therian.jpg"},
		{name: "plain", id: "25", display: "Pikachu", wantBase: "Pikachu", wantForm: "base", wantImage: "25.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := raw(2, tt.id, tt.display, "Normal", "", "1", "1", "1", "1", "1", "1")
			rec, dqErr := Enrich(&row)
			require.Nil(t, dqErr)
			assert.Equal(t, tt.wantBase, rec.BaseName)
			assert.Equal(t, tt.wantForm, rec.Form)
			assert.Equal(t, tt.wantImage, rec.ImageKey)
		})
	}
}

func TestEnrich_PreCleanedColumnsWin(t *testing.T) {
	row := raw(2, "386", "DeoxysAttack Forme", "Psychic", "", "50", "180", "20", "180", "20", "150")
	row.BaseName = "Deoxys"
	row.Form = "Attack"
	row.ImageFile = "386-attack.jpg"

	rec, dqErr := Enrich(&row)
	require.Nil(t, dqErr)
	assert.Equal(t, "Deoxys", rec.BaseName)
	assert.Equal(t, "attack", rec.Form)
	assert.Equal(t, "386-attack.jpg", rec.ImageKey)
}

func TestEnrich_PreCleanedWithoutImageDerivesKey(t *testing.T) {
	row := raw(2, "6", "CharizardMega Charizard X", "Fire", "Dragon", "78", "130", "111", "130", "85", "100")
	row.BaseName = "Charizard"
	row.Form = "mega-x"

	rec, dqErr := Enrich(&row)
	require.Nil(t, dqErr)
	assert.Equal(t, "6-mega-x.jpg", rec.ImageKey)
}

func TestEnrich_PreCleanedFormIsCanonicalized(t *testing.T) {
	row := raw(2, "6", "CharizardMega Charizard X", "Fire", "Dragon", "78", "130", "111", "130", "85", "100")
	row.BaseName = "Charizard"
	row.Form = "mega-charizard-x"

	rec, dqErr := Enrich(&row)
	require.Nil(t, dqErr)
	assert.Equal(t, "Charizard", rec.BaseName)
	assert.Equal(t, "mega-x", rec.Form)
	assert.Equal(t, "6-mega-x.jpg", rec.ImageKey)

	row.Form = "Therian Forme"
	rec, dqErr = Enrich(&row)
	require.Nil(t, dqErr)
	assert.Equal(t, "therian", rec.Form)
}

func TestEnrich_DataQualityErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *parsers.RawRecord)
		wantField string
		wantID    int
	}{
		{name: "non numeric id", mutate: func(r *parsers.RawRecord) { r.ID = "abc" }, wantField: "#", wantID: 0},
		{name: "zero id", mutate: func(r *parsers.RawRecord) { r.ID = "0" }, wantField: "#", wantID: 0},
		{name: "missing name", mutate: func(r *parsers.RawRecord) { r.Name = " " }, wantField: "Name", wantID: 25},
		{name: "missing type", mutate: func(r *parsers.RawRecord) { r.Type1 = "" }, wantField: "Type 1", wantID: 25},
		{name: "non numeric attack", mutate: func(r *parsers.RawRecord) { r.Stats[1] = "lots" }, wantField: "Attack", wantID: 25},
		{name: "empty speed", mutate: func(r *parsers.RawRecord) { r.Stats[5] = "" }, wantField: "Speed", wantID: 25},
		{name: "negative defense", mutate: func(r *parsers.RawRecord) { r.Stats[2] = "-1" }, wantField: "Defense", wantID: 25},
		{name: "nan special attack", mutate: func(r *parsers.RawRecord) { r.Stats[3] = "NaN" }, wantField: "Sp. Atk", wantID: 25},
		{name: "bad generation", mutate: func(r *parsers.RawRecord) { r.Generation = "one" }, wantField: "Generation", wantID: 25},
		{name: "bad legendary", mutate: func(r *parsers.RawRecord) { r.Legendary = "maybe" }, wantField: "Legendary", wantID: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := raw(9, "25", "Pikachu", "Electric", "", "35", "55", "40", "50", "50", "90")
			tt.mutate(&row)

			_, dqErr := Enrich(&row)
			require.NotNil(t, dqErr)
			assert.Equal(t, tt.wantField, dqErr.Field)
			assert.Equal(t, tt.wantID, dqErr.RecordID)
			assert.Equal(t, 9, dqErr.Line)
			assert.Contains(t, dqErr.Error(), "line 9")
		})
	}
}
