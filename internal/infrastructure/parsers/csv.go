package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser parses raw records from CSV format.
// Expected columns: #, Name, Type 1, Type 2, HP, Attack, Defense, Sp. Atk,
// Sp. Def, Speed; optional Generation, Legendary, base_name, form, image_file.
type CSVParser struct{}

// Parse reads CSV from the reader and returns raw records.
func (p *CSVParser) Parse(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	// Short rows surface as data-quality problems later, not parse failures.
	reader.FieldsPerRecord = -1

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		colIndex[col] = i
	}

	for _, col := range RequiredColumns {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawRecords.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawRecord, error) {
	var records []RawRecord
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		records = append(records, p.parseRecord(row, colIndex, lineNum))
	}

	return records, nil
}

// parseRecord converts a CSV row to a RawRecord.
func (p *CSVParser) parseRecord(row []string, colIndex map[string]int, lineNum int) RawRecord {
	rec := RawRecord{
		ID:         getColumn(row, colIndex, ColID),
		Name:       getColumn(row, colIndex, ColName),
		Type1:      getColumn(row, colIndex, ColType1),
		Type2:      getColumn(row, colIndex, ColType2),
		Generation: getColumn(row, colIndex, ColGeneration),
		Legendary:  getColumn(row, colIndex, ColLegendary),
		BaseName:   getColumn(row, colIndex, ColBaseName),
		Form:       getColumn(row, colIndex, ColForm),
		ImageFile:  getColumn(row, colIndex, ColImageFile),
		LineNum:    lineNum,
	}
	for i, col := range StatColumns {
		rec.Stats[i] = getColumn(row, colIndex, col)
	}
	return rec
}

// getColumn safely retrieves a trimmed column value from a row.
func getColumn(row []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
