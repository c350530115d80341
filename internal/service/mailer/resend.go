package mailer

import (
	"context"

	"github.com/resend/resend-go/v2"
)

// ResendProvider delivers mail through the Resend HTTP API.
type ResendProvider struct {
	client *resend.Client
}

func NewResendProvider(apiKey string) *ResendProvider {
	return &ResendProvider{
		client: resend.NewClient(apiKey),
	}
}

func (p *ResendProvider) Send(ctx context.Context, msg *Message) (*Receipt, error) {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Cc:      msg.Cc,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	for _, att := range msg.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename: att.Filename,
			Content:  att.Content,
		})
	}

	sent, err := p.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return nil, err
	}

	return &Receipt{ID: sent.Id}, nil
}

func (p *ResendProvider) SupportsAttachments() bool {
	return true
}

func (p *ResendProvider) Name() string {
	return "resend"
}
