package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"intake/internal/infrastructure/sqlite"
)

func TestNewDB_CreatesAndMigrates(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "cases.db")

	db, err := sqlite.NewDB(dbPath)
	require.NoError(t, err, "missing parent directories should be created")
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'cases'`).Scan(&name)
	require.NoError(t, err, "migrations should create the cases table")
	require.Equal(t, "cases", name)
}

func TestNewDB_ReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cases.db")

	db, err := sqlite.NewDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Second open replays migrations against an up-to-date schema; the
	// ErrNoChange outcome must not surface as a failure.
	db, err = sqlite.NewDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Ping())
}
