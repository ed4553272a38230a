package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/person"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/rate"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// RateRepositoryImpl implements repository.RateRepository with SQLite.
// Rows are keyed by the normalized person ID, so one person has at most one rate.
type RateRepositoryImpl struct {
	db *sql.DB
}

// NewRateRepository creates a new SQLite-based rate repository
func NewRateRepository(db *sql.DB) repository.RateRepository {
	return &RateRepositoryImpl{db: db}
}

// List retrieves every rate ordered by person
func (r *RateRepositoryImpl) List(ctx context.Context) ([]*rate.HourlyRate, error) {
	rows, err := executorFor(ctx, r.db).QueryContext(ctx,
		`SELECT person_id, person_name, rate_per_hour FROM hourly_rates ORDER BY person_key`)
	if err != nil {
		return nil, fmt.Errorf("query rates: %w", err)
	}
	defer rows.Close()

	var rates []*rate.HourlyRate
	for rows.Next() {
		hr, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, hr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rates: %w", err)
	}

	return rates, nil
}

// Find retrieves the rate of one person
func (r *RateRepositoryImpl) Find(ctx context.Context, personID string) (*rate.HourlyRate, error) {
	row := executorFor(ctx, r.db).QueryRowContext(ctx,
		`SELECT person_id, person_name, rate_per_hour FROM hourly_rates WHERE person_key = ?`,
		person.NormalizeID(personID),
	)

	hr, err := scanRate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rate for %s: %w", personID, repository.ErrNotFound)
		}
		return nil, err
	}
	return hr, nil
}

// Save creates or replaces the rate of a person
func (r *RateRepositoryImpl) Save(ctx context.Context, hr *rate.HourlyRate) error {
	_, err := executorFor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO hourly_rates (person_key, person_id, person_name, rate_per_hour, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(person_key) DO UPDATE SET
			person_id = excluded.person_id,
			person_name = excluded.person_name,
			rate_per_hour = excluded.rate_per_hour,
			updated_at = excluded.updated_at`,
		hr.Key(), hr.PersonID(), hr.PersonName(), hr.RatePerHour(), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save rate for %s: %w", hr.PersonID(), err)
	}
	return nil
}

func scanRate(s rowScanner) (*rate.HourlyRate, error) {
	var (
		personID, personName string
		ratePerHour          float64
	)
	if err := s.Scan(&personID, &personName, &ratePerHour); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan rate: %w", err)
	}

	hr, err := rate.NewHourlyRate(personID, personName, ratePerHour)
	if err != nil {
		return nil, fmt.Errorf("invalid stored rate for %s: %w", personID, err)
	}
	return hr, nil
}
