package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/app"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/lock"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// LockService manages run lock lifecycle, heartbeats, and cleanup
type LockService interface {
	AcquireRunLock(ctx context.Context, lockID lock.LockID, ttl time.Duration) (*lock.RunLock, error)
	ReleaseRunLock(ctx context.Context, lockID lock.LockID) error
	ExtendRunLock(ctx context.Context, lockID lock.LockID, duration time.Duration) error
	FindRunLock(ctx context.Context, lockID lock.LockID) (*lock.RunLock, error)
	ListRunLocks(ctx context.Context) ([]*lock.RunLock, error)
	CleanupExpiredRunLocks(ctx context.Context) (int, error)

	// Lifecycle management
	Start(ctx context.Context) error
	Stop() error
}

// LockServiceConfig holds configuration for lock service
type LockServiceConfig struct {
	HeartbeatInterval time.Duration // How often to send heartbeats
	CleanupInterval   time.Duration // How often to cleanup expired locks
}

// DefaultLockServiceConfig returns default configuration
func DefaultLockServiceConfig() LockServiceConfig {
	return LockServiceConfig{
		HeartbeatInterval: 30 * time.Second,
		CleanupInterval:   60 * time.Second,
	}
}

// heartbeat tracks one running heartbeat goroutine
type heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// LockServiceImpl implements LockService
type LockServiceImpl struct {
	runLockRepo repository.RunLockRepository
	config      LockServiceConfig
	logger      app.Logger

	mu            sync.Mutex
	heartbeats    map[string]*heartbeat
	cleanupCancel context.CancelFunc
	cleanupDone   chan struct{}
	stopOnce      sync.Once
}

// NewLockService creates a new lock service
func NewLockService(runLockRepo repository.RunLockRepository, config LockServiceConfig, logger app.Logger) LockService {
	if logger == nil {
		logger = app.GetLogger()
	}
	return &LockServiceImpl{
		runLockRepo: runLockRepo,
		config:      config,
		logger:      logger,
		heartbeats:  make(map[string]*heartbeat),
	}
}

// Start starts the cleanup scheduler
func (s *LockServiceImpl) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cleanupCancel != nil {
		return nil
	}

	cleanupCtx, cleanupCancel := context.WithCancel(ctx)
	s.cleanupCancel = cleanupCancel
	s.cleanupDone = make(chan struct{})

	go s.cleanupScheduler(cleanupCtx, s.cleanupDone)

	return nil
}

// Stop stops all background goroutines and waits for them to exit
func (s *LockServiceImpl) Stop() error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		cleanupCancel, cleanupDone := s.cleanupCancel, s.cleanupDone
		running := s.heartbeats
		s.heartbeats = make(map[string]*heartbeat)
		s.mu.Unlock()

		if cleanupCancel != nil {
			cleanupCancel()
			<-cleanupDone
		}
		for _, hb := range running {
			hb.cancel()
			<-hb.done
		}
	})

	return nil
}

// AcquireRunLock acquires a run lock and starts its heartbeat.
// Returns nil without error when another process holds the lock.
func (s *LockServiceImpl) AcquireRunLock(ctx context.Context, lockID lock.LockID, ttl time.Duration) (*lock.RunLock, error) {
	runLock, err := s.runLockRepo.Acquire(ctx, lockID, ttl)
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}

	if runLock == nil {
		s.logger.Debug("run lock %s is held by another process", lockID)
		return nil, nil
	}

	s.startHeartbeat(lockID, ttl)
	s.logger.Debug("acquired run lock %s (ttl %s)", lockID, ttl)

	return runLock, nil
}

// ReleaseRunLock stops the heartbeat and releases the run lock
func (s *LockServiceImpl) ReleaseRunLock(ctx context.Context, lockID lock.LockID) error {
	s.stopHeartbeat(lockID)

	if err := s.runLockRepo.Release(ctx, lockID); err != nil {
		return fmt.Errorf("release run lock: %w", err)
	}

	s.logger.Debug("released run lock %s", lockID)
	return nil
}

// ExtendRunLock extends the TTL of a run lock
func (s *LockServiceImpl) ExtendRunLock(ctx context.Context, lockID lock.LockID, duration time.Duration) error {
	if err := s.runLockRepo.Extend(ctx, lockID, duration); err != nil {
		return fmt.Errorf("extend run lock: %w", err)
	}
	return nil
}

// FindRunLock finds a run lock by ID
func (s *LockServiceImpl) FindRunLock(ctx context.Context, lockID lock.LockID) (*lock.RunLock, error) {
	return s.runLockRepo.Find(ctx, lockID)
}

// ListRunLocks lists all active run locks
func (s *LockServiceImpl) ListRunLocks(ctx context.Context) ([]*lock.RunLock, error) {
	return s.runLockRepo.List(ctx)
}

// CleanupExpiredRunLocks removes every lock whose lease has run out
func (s *LockServiceImpl) CleanupExpiredRunLocks(ctx context.Context) (int, error) {
	count, err := s.runLockRepo.CleanupExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired run locks: %w", err)
	}
	return count, nil
}

// startHeartbeat starts a goroutine that keeps the lock's expiry ttl ahead of now
func (s *LockServiceImpl) startHeartbeat(lockID lock.LockID, ttl time.Duration) {
	s.stopHeartbeat(lockID)

	ctx, cancel := context.WithCancel(context.Background())
	hb := &heartbeat{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	s.heartbeats[lockID.String()] = hb
	s.mu.Unlock()

	go func() {
		defer close(hb.done)

		ticker := time.NewTicker(s.config.HeartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.runLockRepo.UpdateHeartbeat(ctx, lockID, ttl); err != nil {
					if ctx.Err() != nil {
						return
					}
					// Lock was released or taken over
					s.logger.Warn("heartbeat for %s failed, stopping: %v", lockID, err)
					s.forgetHeartbeat(lockID, hb)
					return
				}
			}
		}
	}()
}

// stopHeartbeat cancels the lock's heartbeat and waits for it to exit
func (s *LockServiceImpl) stopHeartbeat(lockID lock.LockID) {
	s.mu.Lock()
	hb, exists := s.heartbeats[lockID.String()]
	delete(s.heartbeats, lockID.String())
	s.mu.Unlock()

	if exists {
		hb.cancel()
		<-hb.done
	}
}

// forgetHeartbeat removes hb from the registry from inside its own goroutine
func (s *LockServiceImpl) forgetHeartbeat(lockID lock.LockID, hb *heartbeat) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.heartbeats[lockID.String()] == hb {
		delete(s.heartbeats, lockID.String())
	}
	hb.cancel()
}

// cleanupScheduler periodically cleans up expired locks
func (s *LockServiceImpl) cleanupScheduler(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := s.CleanupExpiredRunLocks(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.logger.Warn("%v", err)
				}
				continue
			}
			if count > 0 {
				s.logger.Info("removed %d expired run lock(s)", count)
			}
		}
	}
}
