package lock

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLockNotFound is returned when no lock exists under the requested ID
var ErrLockNotFound = errors.New("lock not found")

const generationPrefix = "generate:"

// LockID names a locked resource. Generation locks are "generate:<YYYY-MM>".
type LockID struct {
	value string
}

// NewLockID wraps any non-empty identifier
func NewLockID(value string) (LockID, error) {
	if value == "" {
		return LockID{}, fmt.Errorf("lock ID cannot be empty")
	}
	return LockID{value: value}, nil
}

// GenerationLockID returns the lock that serializes expense generation for a period
func GenerationLockID(period string) (LockID, error) {
	if period == "" {
		return LockID{}, fmt.Errorf("billing period cannot be empty")
	}
	return LockID{value: generationPrefix + period}, nil
}

// ParseLockID accepts a full lock ID or a bare billing period, which names
// that period's generation lock.
func ParseLockID(s string) (LockID, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ":") && s != "" {
		return GenerationLockID(s)
	}
	return NewLockID(s)
}

// Period returns the billing period of a generation lock
func (id LockID) Period() (string, bool) {
	return strings.CutPrefix(id.value, generationPrefix)
}

func (id LockID) String() string {
	return id.value
}

// Equals checks if two lock IDs are equal
func (id LockID) Equals(other LockID) bool {
	return id.value == other.value
}
