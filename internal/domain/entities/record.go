// Package entities contains core domain data structures.
package entities

import "fmt"

// BaseForm is the form tag of an unmodified creature.
const BaseForm = "base"

// NoType is the secondary type of a single-typed creature.
const NoType = "None"

// ImageExt is the file extension of creature artwork.
const ImageExt = ".jpg"

// Record is an enriched creature row. Records are never mutated after the
// enrichment pass; views are built by filtering and sorting copies.
type Record struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Type1      string  `json:"type_1"`
	Type2      string  `json:"type_2"`
	Stats      Stats   `json:"stats"`
	Generation int     `json:"generation,omitempty"`
	Legendary  bool    `json:"legendary,omitempty"`
	TotalStats float64 `json:"total_stats"`
	PowerScore float64 `json:"power_score"`
	BaseName   string  `json:"base_name"`
	Form       string  `json:"form"`
	ImageKey   string  `json:"image_file"`
	SourceLine int     `json:"source_line,omitempty"`
}

// HasType reports whether t is the record's primary or secondary type.
func (r Record) HasType(t string) bool {
	return r.Type1 == t || (r.Type2 != NoType && r.Type2 == t)
}

// IsCanonicalBase reports whether r is the single default-form row of its
// creature: base form, display name equal to base name and the plain
// "{id}.jpg" image key.
func (r Record) IsCanonicalBase() bool {
	return r.Form == BaseForm &&
		r.Name == r.BaseName &&
		r.ImageKey == PlainImageKey(r.ID)
}

// Metric returns the value of a rankable metric for this record.
func (r Record) Metric(m Metric) (float64, bool) {
	switch m {
	case MetricTotal:
		return r.TotalStats, true
	case MetricPower:
		return r.PowerScore, true
	}
	if s, ok := ParseStat(string(m)); ok {
		return r.Stats.Get(s), true
	}
	return 0, false
}

// PlainImageKey returns the image key of a base-form creature.
func PlainImageKey(id int) string {
	return fmt.Sprintf("%d%s", id, ImageExt)
}

// Metric names a value records can be ranked by.
type Metric string

// Rankable metrics. Stat columns are also accepted by name.
const (
	MetricTotal   Metric = "total_stats"
	MetricPower   Metric = "power_score"
	MetricAttack  Metric = Metric(StatAttack)
	MetricDefense Metric = Metric(StatDefense)
	MetricSpeed   Metric = Metric(StatSpeed)
)

// Metrics lists every metric accepted by ranking, in display order.
var Metrics = []Metric{
	MetricTotal,
	MetricAttack,
	MetricDefense,
	MetricSpeed,
	MetricPower,
	Metric(StatHP),
	Metric(StatSpAtk),
	Metric(StatSpDef),
}

// IsValid checks if m is a known metric.
func (m Metric) IsValid() bool {
	for _, known := range Metrics {
		if m == known {
			return true
		}
	}
	return false
}
