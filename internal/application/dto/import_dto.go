package dto

// FixtureDocument is the decoded form of a fixture file
type FixtureDocument struct {
	Projects  []FixtureProject  `yaml:"projects" json:"projects"`
	TeamTasks []FixtureWorkItem `yaml:"teamTasks" json:"teamTasks"`
	Features  []FixtureWorkItem `yaml:"features" json:"features"`
	Rates     []RateDTO         `yaml:"rates" json:"rates"`
}

// FixtureProject is one project entry
type FixtureProject struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// FixtureWorkItem is one team task or feature entry
type FixtureWorkItem struct {
	ID          string  `yaml:"id" json:"id"`
	ProjectID   string  `yaml:"projectId" json:"projectId,omitempty"`
	Status      string  `yaml:"status" json:"status"`
	Assignee    string  `yaml:"assignee" json:"assignee,omitempty"`
	ActualHours float64 `yaml:"actualHours" json:"actualHours"`
	Title       string  `yaml:"title" json:"title,omitempty"`
}

// ImportReport counts what a fixture import wrote
type ImportReport struct {
	Projects  int `json:"projects"`
	TeamTasks int `json:"teamTasks"`
	Features  int `json:"features"`
	Rates     int `json:"rates"`
}
