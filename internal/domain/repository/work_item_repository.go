package repository

import (
	"context"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
)

// WorkItemRepository reads team tasks and features and applies narrow patches to them.
// Features are partitioned by project, so they are always listed per project.
type WorkItemRepository interface {
	// ListTeamTasks retrieves team tasks matching the filter
	ListTeamTasks(ctx context.Context, filter TeamTaskFilter) ([]*workitem.WorkItem, error)

	// ListFeatures retrieves every feature of one project
	ListFeatures(ctx context.Context, projectID string) ([]*workitem.WorkItem, error)

	// Update applies a patch to one work item and returns the updated item.
	// Returns ErrNotFound if the item does not exist.
	Update(ctx context.Context, kind workitem.Kind, id string, patch workitem.Patch) (*workitem.WorkItem, error)
}

// TeamTaskFilter defines criteria for filtering team tasks.
// Zero values mean "no constraint".
type TeamTaskFilter struct {
	Status   workitem.Status
	Assignee string // compared after person ID normalization
}
