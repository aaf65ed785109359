// Package model defines the domain types shared across the POP
// reconciliation pipeline.
package model

import "time"

// DocumentReference is one candidate unit of work discovered by polling the
// system of record: a POP upload that may need a match determination.
// FileID is the natural key for idempotency.
type DocumentReference struct {
	FilePath    string    `json:"file_path"`
	DateCreated time.Time `json:"date_created"`
	FileID      string    `json:"file_id"`
	PolicyID    string    `json:"policy_id"`
}
