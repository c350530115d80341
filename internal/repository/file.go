package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dakflow/dakflow/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrFileNotFound        = errors.New("file not found")
	ErrDuplicateFileNumber = errors.New("file number already exists")
)

type FileRepository interface {
	Create(file *model.File) (*model.StatusHistory, error)
	ByID(userID, id string) (*model.File, error)
	ByUser(userID string) ([]*model.File, error)
	Update(file *model.File) error
	Delete(userID, id string) error
	UpdateStatus(userID, id, status string, reason *string) (*model.StatusHistory, error)
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

// Create inserts the file and its initial "Pending" ledger entry in
// one transaction, so a file is never visible without history.
func (r *fileRepository) Create(file *model.File) (*model.StatusHistory, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `INSERT INTO files (id, file_number, title, type, department, date, status, description, remarks, needs_return, storage_path, user_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = tx.Exec(query,
		file.ID,
		file.FileNumber,
		file.Title,
		file.Type,
		file.Department,
		file.Date,
		file.Status,
		file.Description,
		file.Remarks,
		file.NeedsReturn,
		file.StoragePath,
		file.UserID,
		file.CreatedAt,
		file.UpdatedAt,
	)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return nil, ErrDuplicateFileNumber
		}
		return nil, err
	}

	entry := &model.StatusHistory{
		ID:        uuid.New().String(),
		FileID:    file.ID,
		Status:    file.Status,
		Timestamp: time.Now(),
	}

	_, err = tx.Exec(`INSERT INTO status_history (id, file_id, status, reason, timestamp) VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.FileID, entry.Status, entry.Reason, entry.Timestamp)
	if err != nil {
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *fileRepository) ByID(userID, id string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT * FROM files WHERE id = $1 AND user_id = $2`

	err := r.db.Get(file, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, ErrFileNotFound
	}

	return file, err
}

func (r *fileRepository) ByUser(userID string) ([]*model.File, error) {
	files := []*model.File{}
	query := `SELECT * FROM files WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&files, query, userID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) Update(file *model.File) error {
	query := `UPDATE files
	          SET file_number = $1, title = $2, type = $3, department = $4, date = $5, description = $6, remarks = $7, needs_return = $8, storage_path = $9, updated_at = $10
	          WHERE id = $11 AND user_id = $12`

	result, err := r.db.Exec(query,
		file.FileNumber,
		file.Title,
		file.Type,
		file.Department,
		file.Date,
		file.Description,
		file.Remarks,
		file.NeedsReturn,
		file.StoragePath,
		file.UpdatedAt,
		file.ID,
		file.UserID,
	)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateFileNumber
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrFileNotFound
	}

	return nil
}

func (r *fileRepository) Delete(userID, id string) error {
	query := `DELETE FROM files WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrFileNotFound
	}

	return nil
}

// UpdateStatus sets the file's current status and appends the
// matching ledger entry in a single transaction. Concurrent readers
// never observe one without the other.
func (r *fileRepository) UpdateStatus(userID, id, status string, reason *string) (*model.StatusHistory, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE files SET status = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`,
		status, time.Now(), id, userID)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrFileNotFound
	}

	entry := &model.StatusHistory{
		ID:        uuid.New().String(),
		FileID:    id,
		Status:    status,
		Reason:    reason,
		Timestamp: time.Now(),
	}

	_, err = tx.Exec(`INSERT INTO status_history (id, file_id, status, reason, timestamp) VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.FileID, entry.Status, entry.Reason, entry.Timestamp)
	if err != nil {
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	return entry, nil
}
