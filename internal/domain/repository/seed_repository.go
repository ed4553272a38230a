package repository

import (
	"context"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/project"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
)

// SeedRepository loads directory and work item data from fixtures.
// Saves are upserts keyed by ID.
type SeedRepository interface {
	SaveProject(ctx context.Context, p *project.Project) error
	SaveWorkItem(ctx context.Context, w *workitem.WorkItem) error
}
