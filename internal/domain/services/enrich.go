package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/domain/naming"
	"github.com/ersonp/dex-core/internal/infrastructure/parsers"
)

// Enrich validates a raw row and attaches derived stats, base name, form and
// image key. Rows carrying pre-cleaned base_name/form columns keep them.
func Enrich(raw *parsers.RawRecord) (entities.Record, *DataQualityError) {
	id, err := strconv.Atoi(strings.TrimSpace(raw.ID))
	if err != nil || id <= 0 {
		return entities.Record{}, &DataQualityError{
			Line: raw.LineNum, Field: parsers.ColID, Value: raw.ID,
			Message: "invalid id " + strconv.Quote(raw.ID),
		}
	}

	fail := func(field, value, msg string) *DataQualityError {
		return &DataQualityError{Line: raw.LineNum, RecordID: id, Field: field, Value: value, Message: msg}
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return entities.Record{}, fail(parsers.ColName, raw.Name, "missing required field: Name")
	}
	type1 := strings.TrimSpace(raw.Type1)
	if type1 == "" {
		return entities.Record{}, fail(parsers.ColType1, raw.Type1, "missing required field: Type 1")
	}
	type2 := strings.TrimSpace(raw.Type2)
	if type2 == "" {
		type2 = entities.NoType
	}

	var stats entities.Stats
	for i, col := range parsers.StatColumns {
		v, ok := parseStat(raw.Stats[i])
		if !ok {
			return entities.Record{}, fail(col, raw.Stats[i], "invalid "+col+" value "+strconv.Quote(raw.Stats[i]))
		}
		stats[i] = v
	}

	rec := entities.Record{
		ID:         id,
		Name:       name,
		Type1:      type1,
		Type2:      type2,
		Stats:      stats,
		SourceLine: raw.LineNum,
	}

	if g := strings.TrimSpace(raw.Generation); g != "" {
		gen, err := strconv.Atoi(g)
		if err != nil || gen < 0 {
			return entities.Record{}, fail(parsers.ColGeneration, raw.Generation, "invalid Generation value "+strconv.Quote(raw.Generation))
		}
		rec.Generation = gen
	}
	if l := strings.TrimSpace(raw.Legendary); l != "" {
		legendary, err := strconv.ParseBool(l)
		if err != nil {
			return entities.Record{}, fail(parsers.ColLegendary, raw.Legendary, "invalid Legendary value "+strconv.Quote(raw.Legendary))
		}
		rec.Legendary = legendary
	}

	d := entities.ComputeDerived(stats)
	rec.TotalStats = d.Total
	rec.PowerScore = d.Power

	rec.BaseName, rec.Form, rec.ImageKey = nameFields(id, name, raw)
	return rec, nil
}

// nameFields prefers pre-cleaned columns and derives whatever is missing.
// A pre-cleaned form is still canonicalized so Form always holds a slug.
func nameFields(id int, name string, raw *parsers.RawRecord) (base, form, imageKey string) {
	base = strings.TrimSpace(raw.BaseName)
	form = strings.TrimSpace(raw.Form)

	if base == "" || form == "" {
		base, form, imageKey = naming.Triple(id, name)
	} else {
		form = naming.CanonicalizeForm(strings.ToLower(form))
	}
	if img := strings.TrimSpace(raw.ImageFile); img != "" {
		return base, form, img
	}
	if imageKey == "" {
		imageKey = naming.ImageKey(id, form)
	}
	return base, form, imageKey
}

func parseStat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
