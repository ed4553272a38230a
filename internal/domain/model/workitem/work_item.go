package workitem

import (
	"errors"
	"fmt"
	"strings"
)

// MinimalHoursQuantum is the floor written to finished items that have no hours.
// It is deliberately not an estimate: it only makes the item billable at a visible, tiny amount.
const MinimalHoursQuantum = 0.1

// Violation classifies how an item breaks the finished <=> hours invariant
type Violation int

const (
	ViolationNone Violation = iota
	ViolationFinishedWithoutHours
	ViolationHoursWithoutFinish
)

// String returns the string representation
func (v Violation) String() string {
	switch v {
	case ViolationFinishedWithoutHours:
		return "finished-without-hours"
	case ViolationHoursWithoutFinish:
		return "hours-without-finish"
	default:
		return "none"
	}
}

// Params carries the fields needed to build a WorkItem
type Params struct {
	ID          string
	Kind        Kind
	Status      Status
	Assignee    string
	ActualHours float64
	Title       string
	ProjectID   string
}

// WorkItem is a unit of billable effort, either a team task or a project feature.
// The engine never creates work items; it reads them and, during repair, patches
// the status or the actual hours.
type WorkItem struct {
	id          string
	kind        Kind
	status      Status
	assignee    string
	actualHours float64
	title       string
	projectID   string
}

// New validates params and builds a WorkItem
func New(p Params) (*WorkItem, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, errors.New("work item ID cannot be empty")
	}
	if !p.Kind.IsValid() {
		return nil, fmt.Errorf("unknown work item kind: %q", p.Kind)
	}
	if !p.Status.IsValidFor(p.Kind) {
		return nil, fmt.Errorf("status %q is not valid for %s", p.Status, p.Kind)
	}
	if p.ActualHours < 0 {
		return nil, fmt.Errorf("actual hours cannot be negative: %v", p.ActualHours)
	}
	if p.Kind == KindFeature && p.ProjectID == "" {
		return nil, errors.New("feature must belong to a project")
	}

	return &WorkItem{
		id:          p.ID,
		kind:        p.Kind,
		status:      p.Status,
		assignee:    strings.TrimSpace(p.Assignee),
		actualHours: p.ActualHours,
		title:       p.Title,
		projectID:   p.ProjectID,
	}, nil
}

// MustNew is New for fixtures and tests
func MustNew(p Params) *WorkItem {
	w, err := New(p)
	if err != nil {
		panic(err)
	}
	return w
}

// IsFinished reports whether the item's status is in its kind's finished set
func (w *WorkItem) IsFinished() bool {
	return IsFinished(w.kind, w.status)
}

// HasHours reports whether any effort has been logged
func (w *WorkItem) HasHours() bool {
	return w.actualHours > 0
}

// IsUnassigned reports whether the item has no billable person
func (w *WorkItem) IsUnassigned() bool {
	return w.assignee == ""
}

// DedupKey returns the "{kind}-{id}" key used to detect already-billed items
func (w *WorkItem) DedupKey() string {
	return SourceKey(w.kind, w.id)
}

// Violation returns which side of the invariant the item breaks, if any
func (w *WorkItem) Violation() Violation {
	finished, hasHours := w.IsFinished(), w.HasHours()
	switch {
	case finished && !hasHours:
		return ViolationFinishedWithoutHours
	case !finished && hasHours:
		return ViolationHoursWithoutFinish
	default:
		return ViolationNone
	}
}

// RepairPatch returns the minimal patch that restores the invariant,
// or nil when the item is consistent.
func (w *WorkItem) RepairPatch() *Patch {
	switch w.Violation() {
	case ViolationFinishedWithoutHours:
		hours := MinimalHoursQuantum
		return &Patch{ActualHours: &hours}
	case ViolationHoursWithoutFinish:
		status := CanonicalFinished(w.kind)
		return &Patch{Status: &status}
	default:
		return nil
	}
}

// Apply returns a copy of the item with the patch applied
func (w *WorkItem) Apply(p Patch) (*WorkItem, error) {
	params := w.Params()
	if p.Status != nil {
		params.Status = *p.Status
	}
	if p.ActualHours != nil {
		params.ActualHours = *p.ActualHours
	}
	return New(params)
}

// Params returns the item's fields as Params
func (w *WorkItem) Params() Params {
	return Params{
		ID:          w.id,
		Kind:        w.kind,
		Status:      w.status,
		Assignee:    w.assignee,
		ActualHours: w.actualHours,
		Title:       w.title,
		ProjectID:   w.projectID,
	}
}

// Getters
func (w *WorkItem) ID() string           { return w.id }
func (w *WorkItem) Kind() Kind           { return w.kind }
func (w *WorkItem) Status() Status       { return w.status }
func (w *WorkItem) Assignee() string     { return w.assignee }
func (w *WorkItem) ActualHours() float64 { return w.actualHours }
func (w *WorkItem) Title() string        { return w.title }
func (w *WorkItem) ProjectID() string    { return w.projectID }

// Patch is a narrow field-level update. Nil fields are left untouched.
type Patch struct {
	Status      *Status
	ActualHours *float64
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.Status == nil && p.ActualHours == nil
}

// Describe renders the patch for logs and reports
func (p Patch) Describe() string {
	var parts []string
	if p.Status != nil {
		parts = append(parts, "status="+string(*p.Status))
	}
	if p.ActualHours != nil {
		parts = append(parts, fmt.Sprintf("actualHours=%g", *p.ActualHours))
	}
	if len(parts) == 0 {
		return "no-op"
	}
	return strings.Join(parts, ", ")
}
