package expense

import (
	"errors"
	"fmt"
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
)

// LineInput carries everything needed to price one work item
type LineInput struct {
	Period      BillingPeriod
	Person      string
	PersonName  string
	Kind        workitem.Kind
	WorkItemID  string
	ProjectID   string
	ProjectName string
	Title       string
	Hours       float64
	RatePerHour float64
}

// ExpenseRecord is one generated billing line. It is immutable once the ledger
// has assigned it an ID.
type ExpenseRecord struct {
	id            string
	billingPeriod BillingPeriod
	sourceKey     string
	person        string
	personName    string
	kind          workitem.Kind
	workItemID    string
	projectID     string
	projectName   string
	title         string
	hours         float64
	ratePerHour   float64
	amount        float64
	createdAt     time.Time
}

// NewExpenseRecord prices a line: amount = hours × ratePerHour.
// The rate is snapshotted here and never looked up again.
func NewExpenseRecord(in LineInput) (*ExpenseRecord, error) {
	if in.Period.IsZero() {
		return nil, errors.New("billing period is required")
	}
	if in.WorkItemID == "" {
		return nil, errors.New("work item ID is required")
	}
	if !in.Kind.IsValid() {
		return nil, fmt.Errorf("unknown work item kind: %q", in.Kind)
	}
	if in.Hours <= 0 {
		return nil, fmt.Errorf("hours must be positive, got %v", in.Hours)
	}
	if in.RatePerHour <= 0 {
		return nil, fmt.Errorf("rate per hour must be positive, got %v", in.RatePerHour)
	}

	return &ExpenseRecord{
		billingPeriod: in.Period,
		sourceKey:     workitem.SourceKey(in.Kind, in.WorkItemID),
		person:        in.Person,
		personName:    in.PersonName,
		kind:          in.Kind,
		workItemID:    in.WorkItemID,
		projectID:     in.ProjectID,
		projectName:   in.ProjectName,
		title:         in.Title,
		hours:         in.Hours,
		ratePerHour:   in.RatePerHour,
		amount:        in.Hours * in.RatePerHour,
		createdAt:     time.Now().UTC(),
	}, nil
}

// ReconstructExpenseRecord rebuilds a persisted record without repricing it
func ReconstructExpenseRecord(
	id string,
	period BillingPeriod,
	sourceKey string,
	person, personName string,
	kind workitem.Kind,
	workItemID, projectID, projectName, title string,
	hours, ratePerHour, amount float64,
	createdAt time.Time,
) *ExpenseRecord {
	return &ExpenseRecord{
		id:            id,
		billingPeriod: period,
		sourceKey:     sourceKey,
		person:        person,
		personName:    personName,
		kind:          kind,
		workItemID:    workItemID,
		projectID:     projectID,
		projectName:   projectName,
		title:         title,
		hours:         hours,
		ratePerHour:   ratePerHour,
		amount:        amount,
		createdAt:     createdAt,
	}
}

// WithID returns a copy carrying the ledger-assigned ID
func (r *ExpenseRecord) WithID(id string) *ExpenseRecord {
	cp := *r
	cp.id = id
	return &cp
}

// Getters
func (r *ExpenseRecord) ID() string                   { return r.id }
func (r *ExpenseRecord) BillingPeriod() BillingPeriod { return r.billingPeriod }
func (r *ExpenseRecord) SourceKey() string            { return r.sourceKey }
func (r *ExpenseRecord) Person() string               { return r.person }
func (r *ExpenseRecord) PersonName() string           { return r.personName }
func (r *ExpenseRecord) Kind() workitem.Kind          { return r.kind }
func (r *ExpenseRecord) WorkItemID() string           { return r.workItemID }
func (r *ExpenseRecord) ProjectID() string            { return r.projectID }
func (r *ExpenseRecord) ProjectName() string          { return r.projectName }
func (r *ExpenseRecord) Title() string                { return r.title }
func (r *ExpenseRecord) Hours() float64               { return r.hours }
func (r *ExpenseRecord) RatePerHour() float64         { return r.ratePerHour }
func (r *ExpenseRecord) Amount() float64              { return r.amount }
func (r *ExpenseRecord) CreatedAt() time.Time         { return r.createdAt }
