package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/lock"
)

// MockRunLockRepository is an in-memory implementation of RunLockRepository
type MockRunLockRepository struct {
	mu    sync.Mutex
	locks map[string]*lock.RunLock
}

// NewMockRunLockRepository creates a new in-memory run lock repository
func NewMockRunLockRepository() *MockRunLockRepository {
	return &MockRunLockRepository{
		locks: make(map[string]*lock.RunLock),
	}
}

func (m *MockRunLockRepository) Acquire(ctx context.Context, lockID lock.LockID, ttl time.Duration) (*lock.RunLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := lockID.String()
	if existing, exists := m.locks[key]; exists && !existing.IsExpired() {
		return nil, nil
	}

	runLock, err := lock.NewRunLock(lockID, ttl)
	if err != nil {
		return nil, err
	}
	m.locks[key] = runLock
	return runLock, nil
}

func (m *MockRunLockRepository) Release(ctx context.Context, lockID lock.LockID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := lockID.String()
	if _, exists := m.locks[key]; !exists {
		return fmt.Errorf("%w: %s", lock.ErrLockNotFound, key)
	}
	delete(m.locks, key)
	return nil
}

func (m *MockRunLockRepository) Find(ctx context.Context, lockID lock.LockID) (*lock.RunLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	runLock, exists := m.locks[lockID.String()]
	if !exists {
		return nil, fmt.Errorf("%w: %s", lock.ErrLockNotFound, lockID.String())
	}
	return runLock, nil
}

func (m *MockRunLockRepository) UpdateHeartbeat(ctx context.Context, lockID lock.LockID, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.locks[lockID.String()]
	if !exists {
		return fmt.Errorf("%w: %s", lock.ErrLockNotFound, lockID.String())
	}
	now := time.Now().UTC()
	m.locks[lockID.String()] = lock.ReconstructRunLock(
		current.LockID(), current.PID(), current.Hostname(),
		current.AcquiredAt(), now.Add(ttl), now, current.Metadata(),
	)
	return nil
}

func (m *MockRunLockRepository) Extend(ctx context.Context, lockID lock.LockID, duration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.locks[lockID.String()]
	if !exists {
		return fmt.Errorf("%w: %s", lock.ErrLockNotFound, lockID.String())
	}
	m.locks[lockID.String()] = lock.ReconstructRunLock(
		current.LockID(), current.PID(), current.Hostname(),
		current.AcquiredAt(), current.ExpiresAt().Add(duration), current.HeartbeatAt(), current.Metadata(),
	)
	return nil
}

func (m *MockRunLockRepository) CleanupExpired(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for key, l := range m.locks {
		if l.IsExpired() {
			delete(m.locks, key)
			count++
		}
	}
	return count, nil
}

func (m *MockRunLockRepository) List(ctx context.Context) ([]*lock.RunLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*lock.RunLock, 0, len(m.locks))
	for _, l := range m.locks {
		result = append(result, l)
	}
	return result, nil
}
