package model

import (
	"time"
)

// StatusPending is the lifecycle entry point for every tracked file.
const StatusPending = "Pending"

// File is a tracked document moving through a status lifecycle,
// not a filesystem file. StoragePath points at the uploaded
// attachment when one exists.
type File struct {
	ID          string    `db:"id" json:"id"`
	FileNumber  string    `db:"file_number" json:"file_number"`
	Title       string    `db:"title" json:"title"`
	Type        string    `db:"type" json:"type"`
	Department  string    `db:"department" json:"department"`
	Date        string    `db:"date" json:"date"`
	Status      string    `db:"status" json:"status"`
	Description *string   `db:"description" json:"description"`
	Remarks     *string   `db:"remarks" json:"remarks"`
	NeedsReturn bool      `db:"needs_return" json:"needs_return"`
	StoragePath *string   `db:"storage_path" json:"storage_path"`
	UserID      string    `db:"user_id" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
