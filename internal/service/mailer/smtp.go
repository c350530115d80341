package mailer

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPProvider relays mail through a local SMTP server. It is the
// fallback transport when no Resend API key is configured and does
// not carry attachments.
type SMTPProvider struct {
	client *gomail.Client
}

func NewSMTPProvider(host string, port int, username, password string, timeout time.Duration) (*SMTPProvider, error) {
	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTimeout(timeout),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(username),
			gomail.WithPassword(password),
		)
	}

	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &SMTPProvider{client: client}, nil
}

func (p *SMTPProvider) Send(ctx context.Context, msg *Message) (*Receipt, error) {
	m := gomail.NewMsg()

	err := m.From(msg.From)
	if err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	err = m.To(msg.To...)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	if len(msg.Cc) > 0 {
		err = m.Cc(msg.Cc...)
		if err != nil {
			return nil, fmt.Errorf("invalid cc address: %w", err)
		}
	}

	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)

	err = p.client.DialAndSendWithContext(ctx, m)
	if err != nil {
		return nil, err
	}

	return &Receipt{}, nil
}

func (p *SMTPProvider) SupportsAttachments() bool {
	return false
}

func (p *SMTPProvider) Name() string {
	return "smtp"
}
