package dto

import "time"

// AuditReport is the read-only health report of the work item stores and billing readiness
type AuditReport struct {
	RunID       string         `json:"runId"`
	Success     bool           `json:"success"`
	TeamTasks   KindSection    `json:"teamTasks"`
	Features    KindSection    `json:"features"`
	Rates       RateSection    `json:"rates"`
	Projects    ProjectSection `json:"projects"`
	Ledger      LedgerSection  `json:"ledger"`
	CanGenerate bool           `json:"canGenerate"`
	Reasons     []string       `json:"reasons"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// KindSection holds the audit counters of one work item kind.
// Error is set when the kind could not be fetched at all.
type KindSection struct {
	Kind                 string           `json:"kind"`
	Total                int              `json:"total"`
	ByStatus             map[string]int   `json:"byStatus"`
	WithHours            int              `json:"withHours"`
	WithoutHours         int              `json:"withoutHours"`
	FinishedWithHours    int              `json:"finishedWithHours"`
	FinishedWithoutHours int              `json:"finishedWithoutHours"`
	UnfinishedWithHours  int              `json:"unfinishedWithHours"`
	Samples              []WorkItemSample `json:"samples,omitempty"`
	Error                string           `json:"error,omitempty"`
	FetchErrors          []ItemError      `json:"fetchErrors,omitempty"`
}

// WorkItemSample is a short view of one work item with hours
type WorkItemSample struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	Assignee    string  `json:"assignee,omitempty"`
	ActualHours float64 `json:"actualHours"`
	Title       string  `json:"title,omitempty"`
	ProjectID   string  `json:"projectId,omitempty"`
}

// RateSection summarizes the rate directory
type RateSection struct {
	Total    int       `json:"total"`
	Billable int       `json:"billable"`
	People   []RateDTO `json:"people,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// ProjectSection summarizes the project directory
type ProjectSection struct {
	Total int    `json:"total"`
	Error string `json:"error,omitempty"`
}

// LedgerSection summarizes the current billing period of the ledger
type LedgerSection struct {
	Period  string  `json:"period"`
	Records int     `json:"records"`
	Amount  float64 `json:"amount"`
	Error   string  `json:"error,omitempty"`
}

// ItemError records a failure tied to one work item, project or person
type ItemError struct {
	Kind      string `json:"kind,omitempty"`
	ID        string `json:"id,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
	Person    string `json:"person,omitempty"`
	Message   string `json:"message"`
}
