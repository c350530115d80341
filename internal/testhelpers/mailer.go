package testhelpers

import (
	"context"
	"sync"

	"github.com/dakflow/dakflow/internal/service/mailer"
)

// FakeMailProvider records sent messages and fails on demand.
type FakeMailProvider struct {
	mu          sync.Mutex
	Sent        []*mailer.Message
	Err         error
	Attachments bool
}

func (p *FakeMailProvider) Send(_ context.Context, msg *mailer.Message) (*mailer.Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}

	p.Sent = append(p.Sent, msg)
	return &mailer.Receipt{ID: "fake-receipt"}, nil
}

func (p *FakeMailProvider) SupportsAttachments() bool {
	return p.Attachments
}

func (p *FakeMailProvider) Name() string {
	return "fake"
}
