package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dakflow/dakflow/internal/model"
	"github.com/dakflow/dakflow/internal/repository"
	"github.com/dakflow/dakflow/internal/service/mailer"
	"github.com/google/uuid"
)

var (
	ErrEmailFieldsRequired = errors.New("recipientEmail, subject and messageBody are required")
)

// maxAttachmentSize caps how much of a dereferenced attachment URL
// is read into memory.
const maxAttachmentSize = 25 << 20 // 25MB

// SendRequest mirrors the send-email endpoint body. FileURL and
// FileName together describe an optional attachment to fetch and
// forward.
type SendRequest struct {
	RecipientEmail string `json:"recipientEmail"`
	CCEmail        string `json:"ccEmail"`
	Subject        string `json:"subject"`
	MessageBody    string `json:"messageBody"`
	FileURL        string `json:"fileUrl"`
	FileName       string `json:"fileName"`
}

// SendResult is the structured outcome of one dispatch attempt.
// Delivery failures land here instead of propagating as errors; the
// matching EmailThread row carries the same terminal state.
type SendResult struct {
	Success      bool            `json:"success"`
	Data         *mailer.Receipt `json:"data,omitempty"`
	ErrorMessage string          `json:"error,omitempty"`
}

type EmailService struct {
	threadRepo  repository.EmailThreadRepository
	provider    mailer.Provider
	fetchClient *http.Client
	senderEmail string
	fromAddress string
	sendTimeout time.Duration
}

func NewEmailService(threadRepo repository.EmailThreadRepository, provider mailer.Provider, senderEmail, fromAddress string, sendTimeout time.Duration) *EmailService {
	return &EmailService{
		threadRepo:  threadRepo,
		provider:    provider,
		fetchClient: &http.Client{Timeout: sendTimeout},
		senderEmail: senderEmail,
		fromAddress: fromAddress,
		sendTimeout: sendTimeout,
	}
}

// Send runs one dispatch attempt: validate, persist a pending
// thread, fetch the attachment when the transport supports them,
// deliver, and finalize the thread as sent or failed. Validation
// failures happen before any row is written; everything after the
// pending insert is converted into a SendResult, never an error.
func (s *EmailService) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if strings.TrimSpace(req.RecipientEmail) == "" ||
		strings.TrimSpace(req.Subject) == "" ||
		strings.TrimSpace(req.MessageBody) == "" {
		return nil, ErrEmailFieldsRequired
	}

	thread := &model.EmailThread{
		ID:             uuid.New().String(),
		SenderEmail:    s.senderEmail,
		RecipientEmail: req.RecipientEmail,
		Subject:        req.Subject,
		MessageBody:    req.MessageBody,
		Status:         model.EmailStatusPending,
		CreatedAt:      time.Now(),
	}
	if req.CCEmail != "" {
		thread.CCEmail = &req.CCEmail
	}
	if req.FileURL != "" {
		thread.AttachmentPath = &req.FileURL
	}

	err := s.threadRepo.Create(thread)
	if err != nil {
		return nil, fmt.Errorf("failed to create email thread: %w", err)
	}

	msg := &mailer.Message{
		From:    s.fromAddress,
		To:      []string{req.RecipientEmail},
		Cc:      []string{},
		Subject: req.Subject,
		HTML:    req.MessageBody,
	}
	if req.CCEmail != "" {
		msg.Cc = []string{req.CCEmail}
	}

	if req.FileURL != "" && req.FileName != "" {
		if s.provider.SupportsAttachments() {
			content, err := s.fetchAttachment(ctx, req.FileURL)
			if err != nil {
				return s.fail(thread, err), nil
			}
			msg.Attachments = []mailer.Attachment{{Filename: req.FileName, Content: content}}
		} else {
			// SMTP relay path sends without the attachment, matching
			// the long-standing behavior of this endpoint.
			slog.Warn("attachment skipped, transport does not support attachments",
				"transport", s.provider.Name(), "file_url", req.FileURL)
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	receipt, err := s.provider.Send(sendCtx, msg)
	if err != nil {
		return s.fail(thread, err), nil
	}

	err = s.threadRepo.MarkSent(thread.ID)
	if err != nil {
		slog.Error("failed to mark email thread sent", "error", err, "thread_id", thread.ID)
	}

	slog.Info("email sent", "thread_id", thread.ID, "to", req.RecipientEmail, "transport", s.provider.Name())
	return &SendResult{Success: true, Data: receipt}, nil
}

// fail records the terminal failed state and folds the cause into a
// structured result.
func (s *EmailService) fail(thread *model.EmailThread, cause error) *SendResult {
	err := s.threadRepo.MarkFailed(thread.ID, cause.Error())
	if err != nil {
		slog.Error("failed to mark email thread failed", "error", err, "thread_id", thread.ID)
	}

	slog.Warn("email delivery failed", "thread_id", thread.ID, "to", thread.RecipientEmail, "error", cause)
	return &SendResult{Success: false, ErrorMessage: cause.Error()}
}

// fetchAttachment dereferences the attachment locator. Any failure
// here is a delivery failure for the whole send, never a silent
// drop.
func (s *EmailService) fetchAttachment(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid attachment url: %w", err)
	}

	resp, err := s.fetchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attachment: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch attachment: status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxAttachmentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	return content, nil
}

// Threads lists the caller's email dispatch records, newest first.
func (s *EmailService) Threads(userID string) ([]*model.EmailThread, error) {
	return s.threadRepo.ByUser(userID)
}
