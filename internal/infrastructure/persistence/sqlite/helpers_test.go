package sqlite

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestDB opens a migrated in-memory database closed at test cleanup
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
