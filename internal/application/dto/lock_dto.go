package dto

import (
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/lock"
)

// LockInfo is the wire form of a run lock
type LockInfo struct {
	LockID      string    `json:"lockId"`
	PID         int       `json:"pid"`
	Hostname    string    `json:"hostname"`
	AcquiredAt  time.Time `json:"acquiredAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	HeartbeatAt time.Time `json:"heartbeatAt"`
	Expired     bool      `json:"expired"`
}

// ToLockInfo converts a domain run lock
func ToLockInfo(l *lock.RunLock) LockInfo {
	return LockInfo{
		LockID:      l.LockID().String(),
		PID:         l.PID(),
		Hostname:    l.Hostname(),
		AcquiredAt:  l.AcquiredAt(),
		ExpiresAt:   l.ExpiresAt(),
		HeartbeatAt: l.HeartbeatAt(),
		Expired:     l.IsExpired(),
	}
}
