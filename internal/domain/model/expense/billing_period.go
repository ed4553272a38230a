package expense

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned when a period token cannot be parsed
var ErrInvalidPeriod = errors.New("invalid billing period")

const periodLayout = "2006-01"

// BillingPeriod is a calendar month token ("YYYY-MM").
// A work item is billed at most once per period.
type BillingPeriod struct {
	value string
}

// PeriodFor returns the period containing t, evaluated in loc
func PeriodFor(t time.Time, loc *time.Location) BillingPeriod {
	if loc == nil {
		loc = time.UTC
	}
	return BillingPeriod{value: t.In(loc).Format(periodLayout)}
}

// ParseBillingPeriod parses a "YYYY-MM" token
func ParseBillingPeriod(s string) (BillingPeriod, error) {
	t, err := time.Parse(periodLayout, s)
	if err != nil {
		return BillingPeriod{}, fmt.Errorf("%w: %q (want YYYY-MM)", ErrInvalidPeriod, s)
	}
	return BillingPeriod{value: t.Format(periodLayout)}, nil
}

// MustParseBillingPeriod is ParseBillingPeriod for fixtures and tests
func MustParseBillingPeriod(s string) BillingPeriod {
	p, err := ParseBillingPeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the string representation
func (p BillingPeriod) String() string {
	return p.value
}

// IsZero reports whether the period is unset
func (p BillingPeriod) IsZero() bool {
	return p.value == ""
}

// Equals checks if two periods are equal
func (p BillingPeriod) Equals(other BillingPeriod) bool {
	return p.value == other.value
}
