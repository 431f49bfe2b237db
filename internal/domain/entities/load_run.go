package entities

import "time"

// LoadRun records one enrichment of a source file.
type LoadRun struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Fingerprint string    `json:"fingerprint"`
	Records     int       `json:"records"`
	BaseRecords int       `json:"base_records"`
	Rejected    int       `json:"rejected"`
	Duplicates  int       `json:"duplicates"`
	CreatedAt   time.Time `json:"created_at"`
}

// Reject is a source row excluded from a load run.
type Reject struct {
	Line     int    `json:"line"`
	RecordID int    `json:"record_id,omitempty"`
	Field    string `json:"field"`
	Value    string `json:"value"`
	Message  string `json:"message"`
}
