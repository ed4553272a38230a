package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/rate"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/persistence/sqlite"
	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/repository/mock"
	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/transaction"
)

func sampleFixture() dto.FixtureDocument {
	return dto.FixtureDocument{
		Projects: []dto.FixtureProject{{ID: "p1", Name: "Portal"}},
		TeamTasks: []dto.FixtureWorkItem{
			{ID: "t1", Status: "completed", Assignee: "ana", ActualHours: 2, Title: "Deploy"},
		},
		Features: []dto.FixtureWorkItem{
			{ID: "f1", ProjectID: "p1", Status: "done", Assignee: "ana"},
		},
		Rates: []dto.RateDTO{{PersonID: "ana", PersonName: "Ana", RatePerHour: 500}},
	}
}

func TestImport_WritesFixtures(t *testing.T) {
	env := newTestEnv()
	uc := NewImportUseCase(mock.NewMockSeedRepository(env.items, env.projects), env.rates,
		transaction.NewMockTransactionManager(), silentLogger{})

	report, err := uc.Execute(context.Background(), sampleFixture())
	require.NoError(t, err)
	assert.Equal(t, dto.ImportReport{Projects: 1, TeamTasks: 1, Features: 1, Rates: 1}, *report)

	require.NotNil(t, env.items.Get(workitem.KindTeamTask, "t1"))
	require.NotNil(t, env.items.Get(workitem.KindFeature, "f1"))
	projects, err := env.projects.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 1)
	r, err := env.rates.Find(context.Background(), "ANA")
	require.NoError(t, err)
	assert.Equal(t, 500.0, r.RatePerHour())
}

func TestImport_InvalidEntryWritesNothing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.FixtureDocument)
	}{
		{"project without id", func(d *dto.FixtureDocument) { d.Projects[0].ID = "" }},
		{"feature status on team task", func(d *dto.FixtureDocument) { d.TeamTasks[0].Status = "done" }},
		{"feature without project", func(d *dto.FixtureDocument) { d.Features[0].ProjectID = "" }},
		{"negative rate", func(d *dto.FixtureDocument) { d.Rates[0].RatePerHour = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			uc := NewImportUseCase(mock.NewMockSeedRepository(env.items, env.projects), env.rates,
				transaction.NewMockTransactionManager(), silentLogger{})

			doc := sampleFixture()
			tt.mutate(&doc)
			_, err := uc.Execute(context.Background(), doc)
			require.Error(t, err)

			assert.Nil(t, env.items.Get(workitem.KindTeamTask, "t1"))
			projects, _ := env.projects.List(context.Background())
			assert.Empty(t, projects)
		})
	}
}

// failingRateRepository rejects every write
type failingRateRepository struct {
	repository.RateRepository
}

func (failingRateRepository) Save(ctx context.Context, r *rate.HourlyRate) error {
	return errors.New("rate directory is read-only")
}

func TestImport_SQLiteRollsBackOnWriteFailure(t *testing.T) {
	db, err := sqlite.Open(sqlite.MemoryDSN)
	require.NoError(t, err)
	defer db.Close()

	uc := NewImportUseCase(
		sqlite.NewSeedRepository(db),
		failingRateRepository{sqlite.NewRateRepository(db)},
		transaction.NewSQLiteTransactionManager(db),
		silentLogger{},
	)

	_, err = uc.Execute(context.Background(), sampleFixture())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")

	projects, err := sqlite.NewProjectRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)

	tasks, err := sqlite.NewWorkItemRepository(db).ListTeamTasks(context.Background(), repository.TeamTaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
