package model

import (
	"time"
)

// StatusHistory is one entry in a file's append-only status ledger.
// Entries are never updated or deleted; they cascade with the file.
type StatusHistory struct {
	ID        string    `db:"id" json:"id"`
	FileID    string    `db:"file_id" json:"file_id"`
	Status    string    `db:"status" json:"status"`
	Reason    *string   `db:"reason" json:"reason"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}
