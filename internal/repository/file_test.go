package repository_test

import (
	"testing"
	"time"

	"github.com/dakflow/dakflow/internal/model"
	"github.com/dakflow/dakflow/internal/repository"
	"github.com/dakflow/dakflow/internal/testhelpers"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, db *sqlx.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repository.NewUserRepository(db).Create(user))
	return user
}

func newFile(userID, number string) *model.File {
	now := time.Now()
	return &model.File{
		ID:          uuid.New().String(),
		FileNumber:  number,
		Title:       "Quarterly report",
		Type:        "Letter",
		Department:  "Accounts",
		Date:        "2026-08-01",
		Status:      model.StatusPending,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestFileRepository_CreateWritesInitialHistory(t *testing.T) {
	// given
	db := testhelpers.NewDB(t)
	owner := newUser(t, db, "owner@example.com")
	files := repository.NewFileRepository(db)
	history := repository.NewStatusHistoryRepository(db)

	// when
	entry, err := files.Create(newFile(owner.ID, "DAK-2026-001"))

	// then
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, entry.Status)

	entries, err := history.ByUser(owner.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, model.StatusPending, entries[0].Status)
}

func TestFileRepository_DuplicateFileNumber(t *testing.T) {
	db := testhelpers.NewDB(t)
	owner := newUser(t, db, "owner@example.com")
	files := repository.NewFileRepository(db)

	_, err := files.Create(newFile(owner.ID, "DAK-2026-001"))
	require.NoError(t, err)

	_, err = files.Create(newFile(owner.ID, "DAK-2026-001"))
	require.ErrorIs(t, err, repository.ErrDuplicateFileNumber)
}

func TestFileRepository_UpdateStatus(t *testing.T) {
	// given
	db := testhelpers.NewDB(t)
	owner := newUser(t, db, "owner@example.com")
	files := repository.NewFileRepository(db)
	history := repository.NewStatusHistoryRepository(db)

	file := newFile(owner.ID, "DAK-2026-002")
	_, err := files.Create(file)
	require.NoError(t, err)

	// when
	time.Sleep(5 * time.Millisecond)
	reason := "reviewed and approved"
	entry, err := files.UpdateStatus(owner.ID, file.ID, "Approved", &reason)

	// then
	require.NoError(t, err)
	require.Equal(t, "Approved", entry.Status)
	require.NotNil(t, entry.Reason)
	require.Equal(t, reason, *entry.Reason)

	got, err := files.ByID(owner.ID, file.ID)
	require.NoError(t, err)
	require.Equal(t, "Approved", got.Status)

	t.Run("ledger agrees with file status, newest first", func(t *testing.T) {
		entries, err := history.ByFile(owner.ID, file.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, got.Status, entries[0].Status)
		require.Equal(t, model.StatusPending, entries[1].Status)
		require.False(t, entries[0].Timestamp.Before(entries[1].Timestamp))
	})

	t.Run("another owner sees nothing", func(t *testing.T) {
		other := newUser(t, db, "other@example.com")

		_, err := files.UpdateStatus(other.ID, file.ID, "Rejected", nil)
		require.ErrorIs(t, err, repository.ErrFileNotFound)

		entries, err := history.ByFile(other.ID, file.ID)
		require.NoError(t, err)
		require.Empty(t, entries)
	})
}

func TestFileRepository_DeleteCascadesHistoryButOrphansThreads(t *testing.T) {
	// given
	db := testhelpers.NewDB(t)
	owner := newUser(t, db, "owner@example.com")
	files := repository.NewFileRepository(db)
	history := repository.NewStatusHistoryRepository(db)
	threads := repository.NewEmailThreadRepository(db)

	file := newFile(owner.ID, "DAK-2026-003")
	_, err := files.Create(file)
	require.NoError(t, err)

	thread := &model.EmailThread{
		ID:             uuid.New().String(),
		FileID:         &file.ID,
		SenderEmail:    "noreply@example.com",
		RecipientEmail: "a@b.com",
		Subject:        "S",
		MessageBody:    "B",
		Status:         model.EmailStatusSent,
	}
	require.NoError(t, threads.Create(thread))

	// when
	require.NoError(t, files.Delete(owner.ID, file.ID))

	// then
	entries, err := history.ByUser(owner.ID)
	require.NoError(t, err)
	require.Empty(t, entries)

	// the thread survives with its file reference nulled
	got, err := threads.ByID(thread.ID)
	require.NoError(t, err)
	require.Nil(t, got.FileID)

	// and, being orphaned, disappears from the owner-scoped listing
	listed, err := threads.ByUser(owner.ID)
	require.NoError(t, err)
	require.Empty(t, listed)
}
