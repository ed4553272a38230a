package project

// Project is an entry of the project directory. Features are partitioned by project.
type Project struct {
	ID   string
	Name string
}

// DisplayName returns the name, falling back to the ID
func (p Project) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
