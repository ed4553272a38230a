package repository

import (
	"context"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/project"
)

// ProjectRepository lists the projects that own features
type ProjectRepository interface {
	List(ctx context.Context) ([]*project.Project, error)
}
