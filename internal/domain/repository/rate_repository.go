package repository

import (
	"context"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/rate"
)

// RateRepository manages the per-person hourly rate directory
type RateRepository interface {
	// List retrieves every configured rate
	List(ctx context.Context) ([]*rate.HourlyRate, error)

	// Find retrieves the rate of one person.
	// Returns ErrNotFound if the person has no rate.
	Find(ctx context.Context, personID string) (*rate.HourlyRate, error)

	// Save creates or replaces the rate of a person
	Save(ctx context.Context, r *rate.HourlyRate) error
}
