package dto

// RepairReport is the result of one repair pass
type RepairReport struct {
	RunID         string       `json:"runId"`
	TeamTasks     RepairCounts `json:"teamTasks"`
	Features      RepairCounts `json:"features"`
	TotalRepaired int          `json:"totalRepaired"`
	Repairs       []RepairItem `json:"repairs,omitempty"`
	Errors        []ItemError  `json:"errors,omitempty"`
	FetchErrors   []ItemError  `json:"fetchErrors,omitempty"`
	Message       string       `json:"message"`
}

// RepairCounts counts successful writes of one kind per action
type RepairCounts struct {
	HoursSet  int `json:"hoursSet"`
	StatusSet int `json:"statusSet"`
}

// RepairItem describes one applied patch
type RepairItem struct {
	Kind      string `json:"kind"`
	ID        string `json:"id"`
	ProjectID string `json:"projectId,omitempty"`
	Change    string `json:"change"`
}
