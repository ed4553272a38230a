package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/project"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

func seedWorkItems(t *testing.T, seed repository.SeedRepository, items ...workitem.Params) {
	t.Helper()
	ctx := context.Background()
	for _, p := range items {
		require.NoError(t, seed.SaveWorkItem(ctx, workitem.MustNew(p)))
	}
}

func TestWorkItemRepository_ListTeamTasksFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkItemRepository(db)
	seedWorkItems(t, NewSeedRepository(db),
		workitem.Params{ID: "t1", Kind: workitem.KindTeamTask, Status: workitem.StatusCompleted, Assignee: "Ana@Example.com", ActualHours: 2},
		workitem.Params{ID: "t2", Kind: workitem.KindTeamTask, Status: workitem.StatusPending, Assignee: "ana@example.com"},
		workitem.Params{ID: "t3", Kind: workitem.KindTeamTask, Status: workitem.StatusCompleted, Assignee: "bob@example.com", ActualHours: 1},
	)
	ctx := context.Background()

	all, err := repo.ListTeamTasks(ctx, repository.TeamTaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	anaDone, err := repo.ListTeamTasks(ctx, repository.TeamTaskFilter{
		Status:   workitem.StatusCompleted,
		Assignee: " ANA@example.com ",
	})
	require.NoError(t, err)
	require.Len(t, anaDone, 1)
	assert.Equal(t, "t1", anaDone[0].ID())
	assert.Equal(t, "Ana@Example.com", anaDone[0].Assignee())
	assert.Equal(t, 2.0, anaDone[0].ActualHours())
}

func TestWorkItemRepository_ListFeaturesByProject(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkItemRepository(db)
	seedWorkItems(t, NewSeedRepository(db),
		workitem.Params{ID: "f1", Kind: workitem.KindFeature, Status: workitem.StatusDone, ProjectID: "p1", ActualHours: 3},
		workitem.Params{ID: "f2", Kind: workitem.KindFeature, Status: workitem.StatusTodo, ProjectID: "p2"},
	)

	features, err := repo.ListFeatures(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, workitem.KindFeature, features[0].Kind())
	assert.Equal(t, "p1", features[0].ProjectID())
	assert.Equal(t, "feature-f1", features[0].DedupKey())

	none, err := repo.ListFeatures(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWorkItemRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkItemRepository(db)
	seedWorkItems(t, NewSeedRepository(db),
		workitem.Params{ID: "f1", Kind: workitem.KindFeature, Status: workitem.StatusDone, ProjectID: "p1"},
		workitem.Params{ID: "t1", Kind: workitem.KindTeamTask, Status: workitem.StatusReview, ActualHours: 4},
	)
	ctx := context.Background()

	hours := workitem.MinimalHoursQuantum
	updated, err := repo.Update(ctx, workitem.KindFeature, "f1", workitem.Patch{ActualHours: &hours})
	require.NoError(t, err)
	assert.Equal(t, workitem.ViolationNone, updated.Violation())

	status := workitem.StatusCompleted
	_, err = repo.Update(ctx, workitem.KindTeamTask, "t1", workitem.Patch{Status: &status})
	require.NoError(t, err)

	tasks, err := repo.ListTeamTasks(ctx, repository.TeamTaskFilter{Status: workitem.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 4.0, tasks[0].ActualHours())

	features, err := repo.ListFeatures(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, 0.1, features[0].ActualHours())
}

func TestWorkItemRepository_UpdateErrors(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkItemRepository(db)
	seedWorkItems(t, NewSeedRepository(db),
		workitem.Params{ID: "t1", Kind: workitem.KindTeamTask, Status: workitem.StatusPending},
	)
	ctx := context.Background()

	status := workitem.StatusCompleted
	_, err := repo.Update(ctx, workitem.KindTeamTask, "missing", workitem.Patch{Status: &status})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// done is a feature status only
	done := workitem.StatusDone
	_, err = repo.Update(ctx, workitem.KindTeamTask, "t1", workitem.Patch{Status: &done})
	assert.Error(t, err)

	_, err = repo.Update(ctx, workitem.Kind("bug"), "t1", workitem.Patch{Status: &status})
	assert.Error(t, err)
}

func TestProjectRepository_List(t *testing.T) {
	db := newTestDB(t)
	seed := NewSeedRepository(db)
	ctx := context.Background()

	require.NoError(t, seed.SaveProject(ctx, &project.Project{ID: "p2", Name: "Portal"}))
	require.NoError(t, seed.SaveProject(ctx, &project.Project{ID: "p1", Name: "Billing"}))
	require.NoError(t, seed.SaveProject(ctx, &project.Project{ID: "p1", Name: "Billing v2"}))

	projects, err := NewProjectRepository(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "p1", projects[0].ID)
	assert.Equal(t, "Billing v2", projects[0].Name)
}
