package rate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/person"
)

// HourlyRate is the active price per hour of one billable person
type HourlyRate struct {
	personID    string
	personName  string
	ratePerHour float64
}

// NewHourlyRate creates a rate entry. A zero rate is accepted and treated as a
// configuration gap by the generator; a negative one is rejected.
func NewHourlyRate(personID, personName string, ratePerHour float64) (*HourlyRate, error) {
	if strings.TrimSpace(personID) == "" {
		return nil, errors.New("person ID cannot be empty")
	}
	if ratePerHour < 0 {
		return nil, fmt.Errorf("rate per hour cannot be negative: %v", ratePerHour)
	}
	name := strings.TrimSpace(personName)
	if name == "" {
		name = person.DisplayHandle(personID)
	}
	return &HourlyRate{
		personID:    strings.TrimSpace(personID),
		personName:  name,
		ratePerHour: ratePerHour,
	}, nil
}

// MustNewHourlyRate is NewHourlyRate for fixtures and tests
func MustNewHourlyRate(personID, personName string, ratePerHour float64) *HourlyRate {
	r, err := NewHourlyRate(personID, personName, ratePerHour)
	if err != nil {
		panic(err)
	}
	return r
}

// IsBillable reports whether the rate can produce a non-zero line
func (r *HourlyRate) IsBillable() bool {
	return r.ratePerHour > 0
}

// Key returns the normalized person identifier the directory is keyed by
func (r *HourlyRate) Key() string {
	return person.NormalizeID(r.personID)
}

// Covers reports whether the rate belongs to the given assignee
func (r *HourlyRate) Covers(assignee string) bool {
	return person.SameID(r.personID, assignee)
}

// Getters
func (r *HourlyRate) PersonID() string     { return r.personID }
func (r *HourlyRate) PersonName() string   { return r.personName }
func (r *HourlyRate) RatePerHour() float64 { return r.ratePerHour }
