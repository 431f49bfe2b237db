package main

// Default limits for CLI commands.
const (
	DefaultRankLimit    = 10
	DefaultSimilarLimit = 5
	DefaultHistoryLimit = 20
	MaxRejectsShown     = 50
)

// Valid export formats.
var validFormats = []string{"json", "csv", "markdown"}
