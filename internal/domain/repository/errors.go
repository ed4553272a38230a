package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when the requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSourceKey is returned by the ledger when a record for the same
	// (billing period, source key) pair already exists
	ErrDuplicateSourceKey = errors.New("duplicate source key in billing period")
)
