package mailer

import "context"

// Message is one outbound notification, already fully composed.
type Message struct {
	From        string
	To          []string
	Cc          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Attachment carries fetched attachment bytes for transports that
// can deliver them.
type Attachment struct {
	Filename string
	Content  []byte
}

// Receipt is the transport's acknowledgement of an accepted message.
type Receipt struct {
	ID string `json:"id,omitempty"`
}

// Provider defines the interface that all mail transports must implement
type Provider interface {
	// Send delivers a single message. A non-success response from the
	// underlying transport is returned as an error.
	Send(ctx context.Context, msg *Message) (*Receipt, error)

	// SupportsAttachments reports whether the transport can carry
	// attachments. Callers skip attachment handling when false.
	SupportsAttachments() bool

	// Name returns the transport name (e.g., "resend", "smtp")
	Name() string
}
