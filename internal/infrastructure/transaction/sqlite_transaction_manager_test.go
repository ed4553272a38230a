package transaction_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqliterepo "github.com/YoshitsuguKoike/billrecon/internal/infrastructure/persistence/sqlite"
	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/transaction"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqliterepo.Open(sqliterepo.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func insertProject(ctx context.Context, t *testing.T, id string) {
	t.Helper()
	tx, ok := transaction.TxFromContext(ctx)
	require.True(t, ok, "unit of work runs inside a transaction")
	_, err := tx.ExecContext(ctx, "INSERT INTO projects (id, name) VALUES (?, ?)", id, id)
	require.NoError(t, err)
}

func countProjects(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&n))
	return n
}

func TestSQLiteTransactionManager_Commit(t *testing.T) {
	db := openDB(t)
	tm := transaction.NewSQLiteTransactionManager(db)

	err := tm.InTransaction(context.Background(), func(txCtx context.Context) error {
		insertProject(txCtx, t, "p1")
		insertProject(txCtx, t, "p2")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, countProjects(t, db))
}

func TestSQLiteTransactionManager_NestedFailureRollsBackAll(t *testing.T) {
	db := openDB(t)
	tm := transaction.NewSQLiteTransactionManager(db)
	boom := errors.New("rate rejected")

	err := tm.InTransaction(context.Background(), func(txCtx context.Context) error {
		insertProject(txCtx, t, "p1")
		return tm.InTransaction(txCtx, func(inner context.Context) error {
			outer, _ := transaction.TxFromContext(txCtx)
			same, _ := transaction.TxFromContext(inner)
			assert.Same(t, outer, same)
			insertProject(inner, t, "p2")
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, countProjects(t, db))
}

func TestTxFromContext_Empty(t *testing.T) {
	_, ok := transaction.TxFromContext(context.Background())
	assert.False(t, ok)
}
