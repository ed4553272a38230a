package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/person"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// WorkItemRepositoryImpl implements repository.WorkItemRepository with SQLite.
// Team tasks and features live in separate tables, as they do in the portal.
type WorkItemRepositoryImpl struct {
	db *sql.DB
}

// NewWorkItemRepository creates a new SQLite-based work item repository
func NewWorkItemRepository(db *sql.DB) repository.WorkItemRepository {
	return &WorkItemRepositoryImpl{db: db}
}

// ListTeamTasks retrieves team tasks matching the filter
func (r *WorkItemRepositoryImpl) ListTeamTasks(ctx context.Context, filter repository.TeamTaskFilter) ([]*workitem.WorkItem, error) {
	query := `SELECT id, status, assignee, actual_hours, title, '' FROM team_tasks WHERE 1=1`
	var args []interface{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.Assignee != "" {
		query += " AND assignee_key = ?"
		args = append(args, person.NormalizeID(filter.Assignee))
	}
	query += " ORDER BY id"

	return r.query(ctx, workitem.KindTeamTask, query, args...)
}

// ListFeatures retrieves every feature of one project
func (r *WorkItemRepositoryImpl) ListFeatures(ctx context.Context, projectID string) ([]*workitem.WorkItem, error) {
	query := `SELECT id, status, assignee, actual_hours, title, project_id FROM features WHERE project_id = ? ORDER BY id`
	return r.query(ctx, workitem.KindFeature, query, projectID)
}

// Update applies a patch to one work item and returns the updated item
func (r *WorkItemRepositoryImpl) Update(ctx context.Context, kind workitem.Kind, id string, patch workitem.Patch) (*workitem.WorkItem, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	current, err := r.find(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := current.Apply(patch)
	if err != nil {
		return nil, fmt.Errorf("apply patch to %s %s: %w", kind, id, err)
	}

	query := fmt.Sprintf(`UPDATE %s SET status = ?, actual_hours = ?, updated_at = ? WHERE id = ?`, table)
	_, err = executorFor(ctx, r.db).ExecContext(ctx, query,
		string(updated.Status()),
		updated.ActualHours(),
		formatTime(time.Now()),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", kind, id, err)
	}

	return updated, nil
}

func (r *WorkItemRepositoryImpl) find(ctx context.Context, kind workitem.Kind, id string) (*workitem.WorkItem, error) {
	var query string
	switch kind {
	case workitem.KindTeamTask:
		query = `SELECT id, status, assignee, actual_hours, title, '' FROM team_tasks WHERE id = ?`
	case workitem.KindFeature:
		query = `SELECT id, status, assignee, actual_hours, title, project_id FROM features WHERE id = ?`
	default:
		return nil, fmt.Errorf("unknown work item kind: %q", kind)
	}

	item, err := scanWorkItem(executorFor(ctx, r.db).QueryRowContext(ctx, query, id), kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", kind, id, repository.ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

func (r *WorkItemRepositoryImpl) query(ctx context.Context, kind workitem.Kind, query string, args ...interface{}) ([]*workitem.WorkItem, error) {
	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s items: %w", kind, err)
	}
	defer rows.Close()

	var items []*workitem.WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows, kind)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s items: %w", kind, err)
	}

	return items, nil
}

func scanWorkItem(s rowScanner, kind workitem.Kind) (*workitem.WorkItem, error) {
	var (
		id, status, assignee, title, projectID string
		hours                                  float64
	)
	if err := s.Scan(&id, &status, &assignee, &hours, &title, &projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan %s: %w", kind, err)
	}

	item, err := workitem.New(workitem.Params{
		ID:          id,
		Kind:        kind,
		Status:      workitem.Status(status),
		Assignee:    assignee,
		ActualHours: hours,
		Title:       title,
		ProjectID:   projectID,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid stored %s %s: %w", kind, id, err)
	}
	return item, nil
}

func tableFor(kind workitem.Kind) (string, error) {
	switch kind {
	case workitem.KindTeamTask:
		return "team_tasks", nil
	case workitem.KindFeature:
		return "features", nil
	default:
		return "", fmt.Errorf("unknown work item kind: %q", kind)
	}
}
