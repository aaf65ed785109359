package model

import "time"

// Status is the processing state of a tracked POP file.
type Status string

const (
	StatusNotProcessed Status = "NOT_PROCESSED"
	StatusInProgress   Status = "IN_PROGRESS"
	StatusFailed       Status = "FAILED"
	StatusProcessed    Status = "PROCESSED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotProcessed, StatusInProgress, StatusFailed, StatusProcessed:
		return true
	}
	return false
}

// TrackingRecord is one row of the local tracking ledger. There is at most
// one live record per FileID; status transitions are the only mutation.
type TrackingRecord struct {
	ProcessingID string    `json:"processing_id"`
	FileID       string    `json:"file_id"`
	OriginalDate time.Time `json:"original_date"`
	FilePath     string    `json:"file_path"`
	Status       Status    `json:"status"`
	MatchSummary string    `json:"match_summary,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
