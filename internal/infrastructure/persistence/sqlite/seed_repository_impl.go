package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/person"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/project"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// SeedRepositoryImpl implements repository.SeedRepository with SQLite
type SeedRepositoryImpl struct {
	db *sql.DB
}

// NewSeedRepository creates a new SQLite-based seed repository
func NewSeedRepository(db *sql.DB) repository.SeedRepository {
	return &SeedRepositoryImpl{db: db}
}

// SaveProject inserts or replaces a project
func (r *SeedRepositoryImpl) SaveProject(ctx context.Context, p *project.Project) error {
	_, err := executorFor(ctx, r.db).ExecContext(ctx,
		`INSERT INTO projects (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		p.ID, p.Name,
	)
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}
	return nil
}

// SaveWorkItem inserts or replaces a team task or feature
func (r *SeedRepositoryImpl) SaveWorkItem(ctx context.Context, w *workitem.WorkItem) error {
	db := executorFor(ctx, r.db)
	now := formatTime(time.Now())
	key := person.NormalizeID(w.Assignee())

	var err error
	switch w.Kind() {
	case workitem.KindTeamTask:
		_, err = db.ExecContext(ctx, `
			INSERT INTO team_tasks (id, status, assignee, assignee_key, actual_hours, title, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				status = excluded.status,
				assignee = excluded.assignee,
				assignee_key = excluded.assignee_key,
				actual_hours = excluded.actual_hours,
				title = excluded.title,
				updated_at = excluded.updated_at`,
			w.ID(), string(w.Status()), w.Assignee(), key, w.ActualHours(), w.Title(), now,
		)
	case workitem.KindFeature:
		_, err = db.ExecContext(ctx, `
			INSERT INTO features (id, project_id, status, assignee, assignee_key, actual_hours, title, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				project_id = excluded.project_id,
				status = excluded.status,
				assignee = excluded.assignee,
				assignee_key = excluded.assignee_key,
				actual_hours = excluded.actual_hours,
				title = excluded.title,
				updated_at = excluded.updated_at`,
			w.ID(), w.ProjectID(), string(w.Status()), w.Assignee(), key, w.ActualHours(), w.Title(), now,
		)
	default:
		return fmt.Errorf("unknown work item kind: %q", w.Kind())
	}

	if err != nil {
		return fmt.Errorf("save %s %s: %w", w.Kind(), w.ID(), err)
	}
	return nil
}
