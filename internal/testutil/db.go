// Package testutil provides shared test fixtures.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"intake/internal/casefile"
	"intake/internal/infrastructure/sqlite"
)

// NewCaseRepo creates a migrated case database in a temp directory and
// returns a repository over it. Closed when the test completes.
func NewCaseRepo(t *testing.T) casefile.Repository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "cases.db")
	db, err := sqlite.NewDB(dbPath)
	require.NoError(t, err, "creating test database")
	t.Cleanup(func() { _ = db.Close() })

	return sqlite.NewCaseRepository(db)
}
