package dto

import (
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/expense"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/rate"
)

// GenerateRequest selects the billing period and, optionally, one person.
// An empty period means the current period in the configured time zone.
type GenerateRequest struct {
	Period   string `json:"period,omitempty"`
	PersonID string `json:"personId,omitempty"`
}

// GenerateReport is the result of one generation (or preview) run
type GenerateReport struct {
	RunID     string          `json:"runId"`
	Period    string          `json:"period"`
	DryRun    bool            `json:"dryRun"`
	Created   int             `json:"created"`
	Records   []ExpenseDTO    `json:"records"`
	PerPerson []PersonSummary `json:"perPerson"`
	Skipped   SkipCounts      `json:"skipped"`
	Notes     []string        `json:"notes,omitempty"`
	Errors    []ItemError     `json:"errors,omitempty"`
	Message   string          `json:"message"`
}

// PersonSummary counts the records created for one person
type PersonSummary struct {
	PersonID string  `json:"personId"`
	Name     string  `json:"name"`
	Created  int     `json:"created"`
	Amount   float64 `json:"amount"`
}

// SkipCounts counts candidates that produced no record, by reason
type SkipCounts struct {
	AlreadyBilled int `json:"alreadyBilled"`
	NoHours       int `json:"noHours"`
	NotFinished   int `json:"notFinished"`
}

// ExpenseDTO is the wire form of an expense record
type ExpenseDTO struct {
	ID          string    `json:"id,omitempty"`
	Period      string    `json:"period"`
	SourceKey   string    `json:"sourceKey"`
	Person      string    `json:"person"`
	PersonName  string    `json:"personName"`
	Kind        string    `json:"kind"`
	WorkItemID  string    `json:"workItemId"`
	ProjectID   string    `json:"projectId,omitempty"`
	ProjectName string    `json:"projectName,omitempty"`
	Title       string    `json:"title,omitempty"`
	Hours       float64   `json:"hours"`
	RatePerHour float64   `json:"ratePerHour"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RateDTO is the wire form of an hourly rate
type RateDTO struct {
	PersonID    string  `json:"personId" yaml:"personId"`
	PersonName  string  `json:"personName" yaml:"personName"`
	RatePerHour float64 `json:"ratePerHour" yaml:"ratePerHour"`
}

// ToExpenseDTO converts a domain record
func ToExpenseDTO(r *expense.ExpenseRecord) ExpenseDTO {
	return ExpenseDTO{
		ID:          r.ID(),
		Period:      r.BillingPeriod().String(),
		SourceKey:   r.SourceKey(),
		Person:      r.Person(),
		PersonName:  r.PersonName(),
		Kind:        r.Kind().String(),
		WorkItemID:  r.WorkItemID(),
		ProjectID:   r.ProjectID(),
		ProjectName: r.ProjectName(),
		Title:       r.Title(),
		Hours:       r.Hours(),
		RatePerHour: r.RatePerHour(),
		Amount:      r.Amount(),
		CreatedAt:   r.CreatedAt(),
	}
}

// ToRateDTO converts a domain rate
func ToRateDTO(r *rate.HourlyRate) RateDTO {
	return RateDTO{
		PersonID:    r.PersonID(),
		PersonName:  r.PersonName(),
		RatePerHour: r.RatePerHour(),
	}
}
