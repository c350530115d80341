package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/dakflow/dakflow/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrThreadNotFound = errors.New("email thread not found")
)

type EmailThreadRepository interface {
	Create(thread *model.EmailThread) error
	MarkSent(id string) error
	MarkFailed(id, errorMessage string) error
	ByID(id string) (*model.EmailThread, error)
	ByUser(userID string) ([]*model.EmailThread, error)
}

type emailThreadRepository struct {
	db *sqlx.DB
}

func NewEmailThreadRepository(db *sqlx.DB) EmailThreadRepository {
	return &emailThreadRepository{db: db}
}

func (r *emailThreadRepository) Create(thread *model.EmailThread) error {
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = time.Now()
	}

	query := `INSERT INTO email_threads (id, file_id, sender_email, recipient_email, cc_email, subject, message_body, attachment_path, status, error_message, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		thread.ID,
		thread.FileID,
		thread.SenderEmail,
		thread.RecipientEmail,
		thread.CCEmail,
		thread.Subject,
		thread.MessageBody,
		thread.AttachmentPath,
		thread.Status,
		thread.ErrorMessage,
		thread.CreatedAt,
	)
	return err
}

func (r *emailThreadRepository) MarkSent(id string) error {
	query := `UPDATE email_threads SET status = $1 WHERE id = $2`
	_, err := r.db.Exec(query, model.EmailStatusSent, id)
	return err
}

func (r *emailThreadRepository) MarkFailed(id, errorMessage string) error {
	query := `UPDATE email_threads SET status = $1, error_message = $2 WHERE id = $3`
	_, err := r.db.Exec(query, model.EmailStatusFailed, errorMessage, id)
	return err
}

func (r *emailThreadRepository) ByID(id string) (*model.EmailThread, error) {
	thread := &model.EmailThread{}
	query := `SELECT * FROM email_threads WHERE id = $1`

	err := r.db.Get(thread, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrThreadNotFound
	}

	return thread, err
}

// ByUser lists threads scoped through the parent file's owner.
// Threads with a NULL file_id are excluded by the join; they remain
// in the table as an audit trail but have no owner to list under.
func (r *emailThreadRepository) ByUser(userID string) ([]*model.EmailThread, error) {
	threads := []*model.EmailThread{}
	query := `SELECT et.* FROM email_threads et
	          JOIN files f ON f.id = et.file_id
	          WHERE f.user_id = $1
	          ORDER BY et.created_at DESC`

	err := r.db.Select(&threads, query, userID)
	if err != nil {
		return nil, err
	}

	return threads, nil
}
