package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/project"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// ProjectRepositoryImpl implements repository.ProjectRepository with SQLite
type ProjectRepositoryImpl struct {
	db *sql.DB
}

// NewProjectRepository creates a new SQLite-based project repository
func NewProjectRepository(db *sql.DB) repository.ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

// List retrieves every project ordered by ID
func (r *ProjectRepositoryImpl) List(ctx context.Context) ([]*project.Project, error) {
	rows, err := executorFor(ctx, r.db).QueryContext(ctx, `SELECT id, name FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}
