package reconcile

import "errors"

// Sentinel errors returned by the reconcile use cases
var (
	// ErrStoresUnreachable is returned by the audit when every store fetch failed
	ErrStoresUnreachable = errors.New("stores unreachable")

	// ErrGenerationInProgress is returned when another run holds the period lock
	ErrGenerationInProgress = errors.New("expense generation already in progress for this period")

	// ErrPersonNotFound is returned when single-person generation targets a person without a rate
	ErrPersonNotFound = errors.New("person has no hourly rate")

	// ErrInvalidRequest is returned for malformed generation requests
	ErrInvalidRequest = errors.New("invalid request")
)
