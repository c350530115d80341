package testhelpers

import (
	"path/filepath"
	"testing"

	"github.com/dakflow/dakflow/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// NewDB opens a throwaway sqlite database in a temp dir and runs the
// real migrations against it.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	connection := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	database, err := db.Init("sqlite", connection)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}
