package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dakflow/dakflow/internal/model"
	"github.com/dakflow/dakflow/internal/repository"
	"github.com/dakflow/dakflow/internal/service"
	"github.com/dakflow/dakflow/internal/testhelpers"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newEmailService(db *sqlx.DB, provider *testhelpers.FakeMailProvider) (*service.EmailService, repository.EmailThreadRepository) {
	threads := repository.NewEmailThreadRepository(db)
	svc := service.NewEmailService(threads, provider, "noreply@example.com", "DAK <onboarding@example.com>", 5*time.Second)
	return svc, threads
}

func allThreads(t *testing.T, db *sqlx.DB) []*model.EmailThread {
	t.Helper()
	threads := []*model.EmailThread{}
	require.NoError(t, db.Select(&threads, `SELECT * FROM email_threads ORDER BY created_at`))
	return threads
}

func TestEmailService_ValidationCreatesNoThread(t *testing.T) {
	db := testhelpers.NewDB(t)
	svc, _ := newEmailService(db, &testhelpers.FakeMailProvider{})

	_, err := svc.Send(context.Background(), service.SendRequest{
		Subject:     "S",
		MessageBody: "B",
	})
	require.ErrorIs(t, err, service.ErrEmailFieldsRequired)
	require.Empty(t, allThreads(t, db))
}

func TestEmailService_SendSuccess(t *testing.T) {
	// given
	db := testhelpers.NewDB(t)
	provider := &testhelpers.FakeMailProvider{}
	svc, _ := newEmailService(db, provider)

	// when
	result, err := svc.Send(context.Background(), service.SendRequest{
		RecipientEmail: "a@b.com",
		Subject:        "S",
		MessageBody:    "B",
	})

	// then
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, provider.Sent, 1)
	require.Equal(t, []string{"a@b.com"}, provider.Sent[0].To)
	require.Empty(t, provider.Sent[0].Cc)

	threads := allThreads(t, db)
	require.Len(t, threads, 1)
	require.Equal(t, model.EmailStatusSent, threads[0].Status)
	require.Equal(t, "noreply@example.com", threads[0].SenderEmail)
}

func TestEmailService_DeliveryFailureIsStructured(t *testing.T) {
	db := testhelpers.NewDB(t)
	provider := &testhelpers.FakeMailProvider{Err: errors.New("550 mailbox unavailable")}
	svc, _ := newEmailService(db, provider)

	result, err := svc.Send(context.Background(), service.SendRequest{
		RecipientEmail: "a@b.com",
		Subject:        "S",
		MessageBody:    "B",
	})

	// the failure is folded into the result, never returned as an error
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Contains(t, result.ErrorMessage, "mailbox unavailable")

	threads := allThreads(t, db)
	require.Len(t, threads, 1)
	require.Equal(t, model.EmailStatusFailed, threads[0].Status)
	require.NotNil(t, threads[0].ErrorMessage)
	require.Contains(t, *threads[0].ErrorMessage, "mailbox unavailable")
}

func TestEmailService_AttachmentFetch(t *testing.T) {
	t.Run("fetched bytes ride along on success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("%PDF-1.4 test"))
		}))
		defer server.Close()

		db := testhelpers.NewDB(t)
		provider := &testhelpers.FakeMailProvider{Attachments: true}
		svc, _ := newEmailService(db, provider)

		result, err := svc.Send(context.Background(), service.SendRequest{
			RecipientEmail: "a@b.com",
			Subject:        "S",
			MessageBody:    "B",
			FileURL:        server.URL + "/doc.pdf",
			FileName:       "doc.pdf",
		})
		require.NoError(t, err)
		require.True(t, result.Success)
		require.Len(t, provider.Sent[0].Attachments, 1)
		require.Equal(t, "doc.pdf", provider.Sent[0].Attachments[0].Filename)
		require.Equal(t, []byte("%PDF-1.4 test"), provider.Sent[0].Attachments[0].Content)
	})

	t.Run("fetch failure is a delivery failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		db := testhelpers.NewDB(t)
		provider := &testhelpers.FakeMailProvider{Attachments: true}
		svc, _ := newEmailService(db, provider)

		result, err := svc.Send(context.Background(), service.SendRequest{
			RecipientEmail: "a@b.com",
			Subject:        "S",
			MessageBody:    "B",
			FileURL:        server.URL + "/missing.pdf",
			FileName:       "missing.pdf",
		})
		require.NoError(t, err)
		require.False(t, result.Success)
		require.Contains(t, result.ErrorMessage, "status 404")
		require.Empty(t, provider.Sent)

		threads := allThreads(t, db)
		require.Len(t, threads, 1)
		require.Equal(t, model.EmailStatusFailed, threads[0].Status)
	})

	t.Run("transport without attachment support sends without it", func(t *testing.T) {
		db := testhelpers.NewDB(t)
		provider := &testhelpers.FakeMailProvider{Attachments: false}
		svc, _ := newEmailService(db, provider)

		result, err := svc.Send(context.Background(), service.SendRequest{
			RecipientEmail: "a@b.com",
			Subject:        "S",
			MessageBody:    "B",
			FileURL:        "http://example.invalid/doc.pdf",
			FileName:       "doc.pdf",
		})
		require.NoError(t, err)
		require.True(t, result.Success)
		require.Empty(t, provider.Sent[0].Attachments)
	})
}

func TestEmailService_NoDeduplication(t *testing.T) {
	db := testhelpers.NewDB(t)
	svc, _ := newEmailService(db, &testhelpers.FakeMailProvider{})

	req := service.SendRequest{RecipientEmail: "a@b.com", Subject: "S", MessageBody: "B"}
	for range 2 {
		result, err := svc.Send(context.Background(), req)
		require.NoError(t, err)
		require.True(t, result.Success)
	}

	require.Len(t, allThreads(t, db), 2)
}
