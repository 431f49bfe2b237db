package services

import (
	"fmt"
	"strings"
)

// DataQualityError reports a source row that could not be enriched. The row
// is excluded from the loaded snapshot; the load itself continues.
type DataQualityError struct {
	Line     int    // Line number (1-indexed, 0 if unknown)
	RecordID int    // Parsed id, 0 if the id itself was unreadable
	Field    string // Which field has the error
	Value    string // The invalid value
	Message  string // Human-readable error message
}

func (e *DataQualityError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	if e.RecordID > 0 {
		fmt.Fprintf(&b, "record %d: ", e.RecordID)
	}
	b.WriteString(e.Message)
	return b.String()
}

// SelectionError reports a query whose inputs violate a precondition, such as
// comparing fewer than two types.
type SelectionError struct {
	Message string
}

func (e *SelectionError) Error() string {
	return e.Message
}

func selectionErrorf(format string, args ...any) *SelectionError {
	return &SelectionError{Message: fmt.Sprintf(format, args...)}
}

// DegenerateRangeError reports a normalization over a column whose minimum
// equals its maximum.
type DegenerateRangeError struct {
	Column string
	Value  float64
}

func (e *DegenerateRangeError) Error() string {
	return fmt.Sprintf("cannot normalize %s: every value is %g", e.Column, e.Value)
}
