// Package parsers reads raw creature rows from tabular sources.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// Source column names.
const (
	ColID         = "#"
	ColName       = "Name"
	ColType1      = "Type 1"
	ColType2      = "Type 2"
	ColTotal      = "Total"
	ColHP         = "HP"
	ColAttack     = "Attack"
	ColDefense    = "Defense"
	ColSpAtk      = "Sp. Atk"
	ColSpDef      = "Sp. Def"
	ColSpeed      = "Speed"
	ColGeneration = "Generation"
	ColLegendary  = "Legendary"
	ColBaseName   = "base_name"
	ColForm       = "form"
	ColImageFile  = "image_file"
)

// StatColumns lists the six stat columns in stat order.
var StatColumns = [6]string{ColHP, ColAttack, ColDefense, ColSpAtk, ColSpDef, ColSpeed}

// RequiredColumns must be present in every source.
var RequiredColumns = []string{ColID, ColName, ColType1, ColHP, ColAttack, ColDefense, ColSpAtk, ColSpDef, ColSpeed}

// RawRecord is a source row before validation. Values are kept as text so
// the enrichment pass can report exactly which field failed to parse.
type RawRecord struct {
	ID         string    `json:"#"`
	Name       string    `json:"Name"`
	Type1      string    `json:"Type 1"`
	Type2      string    `json:"Type 2,omitempty"`
	Stats      [6]string `json:"-"`
	Generation string    `json:"Generation,omitempty"`
	Legendary  string    `json:"Legendary,omitempty"`
	BaseName   string    `json:"base_name,omitempty"`
	Form       string    `json:"form,omitempty"`
	ImageFile  string    `json:"image_file,omitempty"`
	LineNum    int       `json:"-"` // Line number in source file (set by parser)
}

// Parser defines the interface for parsing raw records from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawRecord, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
