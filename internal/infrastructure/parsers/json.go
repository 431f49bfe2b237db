package parsers

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// JSONParser parses raw records from a JSON array of objects keyed by the
// same column names as the CSV source.
type JSONParser struct{}

// Parse reads JSON from the reader and returns raw records.
func (p *JSONParser) Parse(r io.Reader) ([]RawRecord, error) {
	var rows []map[string]any

	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	records := make([]RawRecord, 0, len(rows))
	for i, row := range rows {
		rec := RawRecord{
			ID:         text(row[ColID]),
			Name:       text(row[ColName]),
			Type1:      text(row[ColType1]),
			Type2:      text(row[ColType2]),
			Generation: text(row[ColGeneration]),
			Legendary:  text(row[ColLegendary]),
			BaseName:   text(row[ColBaseName]),
			Form:       text(row[ColForm]),
			ImageFile:  text(row[ColImageFile]),
			LineNum:    i + 1, // array index, 1-indexed
		}
		for j, col := range StatColumns {
			rec.Stats[j] = text(row[col])
		}
		records = append(records, rec)
	}

	return records, nil
}

// text renders a decoded JSON value the way it would appear in a CSV cell.
func text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
