package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/lock"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// RunLockRepositoryImpl implements repository.RunLockRepository with SQLite
type RunLockRepositoryImpl struct {
	db *sql.DB
}

// NewRunLockRepository creates a new SQLite-based run lock repository
func NewRunLockRepository(db *sql.DB) repository.RunLockRepository {
	return &RunLockRepositoryImpl{db: db}
}

// Acquire attempts to acquire a run lock. An expired lock is treated as abandoned
// and replaced; a live one makes Acquire return nil without error.
func (r *RunLockRepositoryImpl) Acquire(ctx context.Context, lockID lock.LockID, ttl time.Duration) (*lock.RunLock, error) {
	db := executorFor(ctx, r.db)

	// Expired holders are removed first; if a live holder exists the insert below fails
	if _, err := db.ExecContext(ctx,
		`DELETE FROM run_locks WHERE lock_id = ? AND expires_at < ?`,
		lockID.String(), formatTime(time.Now()),
	); err != nil {
		return nil, fmt.Errorf("delete stale run lock: %w", err)
	}

	runLock, err := lock.NewRunLock(lockID, ttl)
	if err != nil {
		return nil, fmt.Errorf("create run lock: %w", err)
	}

	metadataJSON, err := json.Marshal(runLock.Metadata())
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	insertQuery := `
		INSERT INTO run_locks (lock_id, pid, hostname, acquired_at, expires_at, heartbeat_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, insertQuery,
		runLock.LockID().String(),
		runLock.PID(),
		runLock.Hostname(),
		formatTime(runLock.AcquiredAt()),
		formatTime(runLock.ExpiresAt()),
		formatTime(runLock.HeartbeatAt()),
		string(metadataJSON),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			// Another process holds the lock
			return nil, nil
		}
		return nil, fmt.Errorf("insert run lock: %w", err)
	}

	return runLock, nil
}

// Release releases a run lock
func (r *RunLockRepositoryImpl) Release(ctx context.Context, lockID lock.LockID) error {
	result, err := executorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM run_locks WHERE lock_id = ?`, lockID.String())
	if err != nil {
		return fmt.Errorf("delete run lock: %w", err)
	}
	return requireRow(result, lockID)
}

// Find retrieves a run lock by ID
func (r *RunLockRepositoryImpl) Find(ctx context.Context, lockID lock.LockID) (*lock.RunLock, error) {
	query := `
		SELECT lock_id, pid, hostname, acquired_at, expires_at, heartbeat_at, metadata
		FROM run_locks
		WHERE lock_id = ?
	`

	row := executorFor(ctx, r.db).QueryRowContext(ctx, query, lockID.String())
	runLock, err := scanRunLock(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", lock.ErrLockNotFound, lockID.String())
		}
		return nil, err
	}
	return runLock, nil
}

// UpdateHeartbeat records liveness and moves the expiry to now + ttl
func (r *RunLockRepositoryImpl) UpdateHeartbeat(ctx context.Context, lockID lock.LockID, ttl time.Duration) error {
	now := time.Now()
	result, err := executorFor(ctx, r.db).ExecContext(ctx,
		`UPDATE run_locks SET heartbeat_at = ?, expires_at = ? WHERE lock_id = ?`,
		formatTime(now), formatTime(now.Add(ttl)), lockID.String(),
	)
	if err != nil {
		return fmt.Errorf("update heartbeat: %w", err)
	}
	return requireRow(result, lockID)
}

// Extend extends the expiration time of a lock
func (r *RunLockRepositoryImpl) Extend(ctx context.Context, lockID lock.LockID, duration time.Duration) error {
	runLock, err := r.Find(ctx, lockID)
	if err != nil {
		return err
	}

	_, err = executorFor(ctx, r.db).ExecContext(ctx,
		`UPDATE run_locks SET expires_at = ? WHERE lock_id = ?`,
		formatTime(runLock.ExpiresAt().Add(duration)), lockID.String(),
	)
	if err != nil {
		return fmt.Errorf("extend lock: %w", err)
	}

	return nil
}

// CleanupExpired removes expired locks
func (r *RunLockRepositoryImpl) CleanupExpired(ctx context.Context) (int, error) {
	result, err := executorFor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM run_locks WHERE expires_at < ?`, formatTime(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("cleanup expired locks: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return int(rows), nil
}

// List lists all active run locks
func (r *RunLockRepositoryImpl) List(ctx context.Context) ([]*lock.RunLock, error) {
	query := `
		SELECT lock_id, pid, hostname, acquired_at, expires_at, heartbeat_at, metadata
		FROM run_locks
		ORDER BY acquired_at DESC
	`

	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query run locks: %w", err)
	}
	defer rows.Close()

	var locks []*lock.RunLock
	for rows.Next() {
		runLock, err := scanRunLock(rows)
		if err != nil {
			return nil, err
		}
		locks = append(locks, runLock)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run locks: %w", err)
	}

	return locks, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRunLock(s rowScanner) (*lock.RunLock, error) {
	var (
		lockIDStr    string
		pid          int
		hostname     string
		acquiredAt   string
		expiresAt    string
		heartbeatAt  string
		metadataJSON sql.NullString
	)

	if err := s.Scan(&lockIDStr, &pid, &hostname, &acquiredAt, &expiresAt, &heartbeatAt, &metadataJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run lock: %w", err)
	}

	acquiredAtTime, err := parseTime(acquiredAt)
	if err != nil {
		return nil, fmt.Errorf("parse acquired_at: %w", err)
	}
	expiresAtTime, err := parseTime(expiresAt)
	if err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}
	heartbeatAtTime, err := parseTime(heartbeatAt)
	if err != nil {
		return nil, fmt.Errorf("parse heartbeat_at: %w", err)
	}

	var metadata map[string]string
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	lid, err := lock.NewLockID(lockIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid lock ID: %w", err)
	}

	return lock.ReconstructRunLock(lid, pid, hostname, acquiredAtTime, expiresAtTime, heartbeatAtTime, metadata), nil
}

func requireRow(result sql.Result, lockID lock.LockID) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", lock.ErrLockNotFound, lockID.String())
	}
	return nil
}
