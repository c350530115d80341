package repository

import (
	"github.com/dakflow/dakflow/internal/model"
	"github.com/jmoiron/sqlx"
)

type StatusHistoryRepository interface {
	ByFile(userID, fileID string) ([]*model.StatusHistory, error)
	ByUser(userID string) ([]*model.StatusHistory, error)
}

type statusHistoryRepository struct {
	db *sqlx.DB
}

func NewStatusHistoryRepository(db *sqlx.DB) StatusHistoryRepository {
	return &statusHistoryRepository{db: db}
}

// ByFile returns a file's ledger entries newest first. The join
// scopes the read to the file's owner.
func (r *statusHistoryRepository) ByFile(userID, fileID string) ([]*model.StatusHistory, error) {
	entries := []*model.StatusHistory{}
	query := `SELECT sh.* FROM status_history sh
	          JOIN files f ON f.id = sh.file_id
	          WHERE sh.file_id = $1 AND f.user_id = $2
	          ORDER BY sh.timestamp DESC`

	err := r.db.Select(&entries, query, fileID, userID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *statusHistoryRepository) ByUser(userID string) ([]*model.StatusHistory, error) {
	entries := []*model.StatusHistory{}
	query := `SELECT sh.* FROM status_history sh
	          JOIN files f ON f.id = sh.file_id
	          WHERE f.user_id = $1
	          ORDER BY sh.timestamp DESC`

	err := r.db.Select(&entries, query, userID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
