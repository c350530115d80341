package model

import (
	"time"
)

const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// EmailThread records one notification-send attempt and its outcome.
// A thread is created in "pending" state before any network I/O and
// transitions exactly once to "sent" or "failed". FileID is nulled,
// not cascaded, when the referenced file is deleted so the audit
// trail survives.
type EmailThread struct {
	ID             string    `db:"id" json:"id"`
	FileID         *string   `db:"file_id" json:"file_id"`
	SenderEmail    string    `db:"sender_email" json:"sender_email"`
	RecipientEmail string    `db:"recipient_email" json:"recipient_email"`
	CCEmail        *string   `db:"cc_email" json:"cc_email"`
	Subject        string    `db:"subject" json:"subject"`
	MessageBody    string    `db:"message_body" json:"message_body"`
	AttachmentPath *string   `db:"attachment_path" json:"attachment_path"`
	Status         string    `db:"status" json:"status"`
	ErrorMessage   *string   `db:"error_message" json:"error_message"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
