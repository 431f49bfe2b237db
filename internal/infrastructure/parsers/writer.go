package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ersonp/dex-core/internal/domain/entities"
)

// CleanedHeader is the column order written by WriteCSV: the source columns
// followed by the derived naming columns.
var CleanedHeader = []string{
	ColID, ColName, ColType1, ColType2, ColTotal,
	ColHP, ColAttack, ColDefense, ColSpAtk, ColSpDef, ColSpeed,
	ColGeneration, ColLegendary,
	ColBaseName, ColForm, ColImageFile,
}

// WriteCSV writes enriched records in CleanedHeader order. The output parses
// back with CSVParser and keeps the derived naming columns.
func WriteCSV(w io.Writer, records []entities.Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CleanedHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, rec := range records {
		if err := writer.Write(cleanedRow(rec)); err != nil {
			return fmt.Errorf("writing record %d: %w", rec.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func cleanedRow(rec entities.Record) []string {
	type2 := rec.Type2
	if type2 == entities.NoType {
		type2 = ""
	}

	row := make([]string, 0, len(CleanedHeader))
	row = append(row,
		strconv.Itoa(rec.ID),
		rec.Name,
		rec.Type1,
		type2,
		formatNumber(rec.TotalStats),
	)
	for _, v := range rec.Stats {
		row = append(row, formatNumber(v))
	}

	generation := ""
	if rec.Generation > 0 {
		generation = strconv.Itoa(rec.Generation)
	}
	legendary := "False"
	if rec.Legendary {
		legendary = "True"
	}

	return append(row, generation, legendary, rec.BaseName, rec.Form, rec.ImageKey)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
