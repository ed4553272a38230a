package reconcile

import (
	"context"
	"fmt"

	"github.com/YoshitsuguKoike/billrecon/internal/app"
	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/project"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/rate"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// ImportUseCaseImpl implements input.ImportUseCase
type ImportUseCaseImpl struct {
	seedRepo  repository.SeedRepository
	rateRepo  repository.RateRepository
	txManager output.TransactionManager
	logger    app.Logger
}

// NewImportUseCase creates a new fixture import use case
func NewImportUseCase(
	seedRepo repository.SeedRepository,
	rateRepo repository.RateRepository,
	txManager output.TransactionManager,
	logger app.Logger,
) *ImportUseCaseImpl {
	if logger == nil {
		logger = app.GetLogger()
	}
	return &ImportUseCaseImpl{
		seedRepo:  seedRepo,
		rateRepo:  rateRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Execute validates the whole document, then writes it in one transaction.
// An invalid entry aborts the import before anything is written.
func (uc *ImportUseCaseImpl) Execute(ctx context.Context, doc dto.FixtureDocument) (*dto.ImportReport, error) {
	projects := make([]*project.Project, 0, len(doc.Projects))
	known := make(map[string]bool, len(doc.Projects))
	for i, p := range doc.Projects {
		if p.ID == "" {
			return nil, fmt.Errorf("projects[%d]: id is required", i)
		}
		projects = append(projects, &project.Project{ID: p.ID, Name: p.Name})
		known[p.ID] = true
	}

	items := make([]*workitem.WorkItem, 0, len(doc.TeamTasks)+len(doc.Features))
	for i, t := range doc.TeamTasks {
		w, err := workitem.New(fixtureParams(t, workitem.KindTeamTask))
		if err != nil {
			return nil, fmt.Errorf("teamTasks[%d]: %w", i, err)
		}
		items = append(items, w)
	}
	for i, f := range doc.Features {
		w, err := workitem.New(fixtureParams(f, workitem.KindFeature))
		if err != nil {
			return nil, fmt.Errorf("features[%d]: %w", i, err)
		}
		if !known[w.ProjectID()] {
			uc.logger.Warn("features[%d]: project %s is not declared in the fixture", i, w.ProjectID())
		}
		items = append(items, w)
	}

	rates := make([]*rate.HourlyRate, 0, len(doc.Rates))
	for i, r := range doc.Rates {
		hr, err := rate.NewHourlyRate(r.PersonID, r.PersonName, r.RatePerHour)
		if err != nil {
			return nil, fmt.Errorf("rates[%d]: %w", i, err)
		}
		rates = append(rates, hr)
	}

	err := uc.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		for _, p := range projects {
			if err := uc.seedRepo.SaveProject(txCtx, p); err != nil {
				return err
			}
		}
		for _, w := range items {
			if err := uc.seedRepo.SaveWorkItem(txCtx, w); err != nil {
				return err
			}
		}
		for _, hr := range rates {
			if err := uc.rateRepo.Save(txCtx, hr); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import fixtures: %w", err)
	}

	report := &dto.ImportReport{
		Projects:  len(projects),
		TeamTasks: len(doc.TeamTasks),
		Features:  len(doc.Features),
		Rates:     len(rates),
	}
	uc.logger.Info("imported %d project(s), %d team task(s), %d feature(s), %d rate(s)",
		report.Projects, report.TeamTasks, report.Features, report.Rates)
	return report, nil
}

func fixtureParams(f dto.FixtureWorkItem, kind workitem.Kind) workitem.Params {
	if kind == workitem.KindTeamTask {
		f.ProjectID = ""
	}
	return workitem.Params{
		ID:          f.ID,
		Kind:        kind,
		Status:      workitem.Status(f.Status),
		Assignee:    f.Assignee,
		ActualHours: f.ActualHours,
		Title:       f.Title,
		ProjectID:   f.ProjectID,
	}
}
