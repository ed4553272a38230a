package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/YoshitsuguKoike/billrecon/internal/app"
	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// RepairUseCaseImpl implements input.RepairUseCase
type RepairUseCaseImpl struct {
	workItemRepo repository.WorkItemRepository
	projectRepo  repository.ProjectRepository
	archive      output.ReportArchive
	logger       app.Logger
}

// NewRepairUseCase creates a new repair use case. archive may be nil.
func NewRepairUseCase(
	workItemRepo repository.WorkItemRepository,
	projectRepo repository.ProjectRepository,
	archive output.ReportArchive,
	logger app.Logger,
) *RepairUseCaseImpl {
	if logger == nil {
		logger = app.GetLogger()
	}
	return &RepairUseCaseImpl{
		workItemRepo: workItemRepo,
		projectRepo:  projectRepo,
		archive:      archive,
		logger:       logger,
	}
}

// Execute patches every work item that violates the finished <=> hours invariant.
// Per-item failures are collected in the report; only a failure to list team tasks
// or projects is returned as an error.
func (uc *RepairUseCaseImpl) Execute(ctx context.Context) (*dto.RepairReport, error) {
	teamTasks, err := uc.workItemRepo.ListTeamTasks(ctx, repository.TeamTaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("list team tasks: %w", err)
	}

	projects, err := uc.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	features, fetchErrors := listAllFeatures(ctx, uc.workItemRepo, projects)
	for _, fe := range fetchErrors {
		uc.logger.Warn("repair: %s", fe.Message)
	}

	report := &dto.RepairReport{
		RunID:       uuid.NewString(),
		FetchErrors: fetchErrors,
	}

	for _, item := range append(teamTasks, features...) {
		patch := item.RepairPatch()
		if patch == nil {
			continue
		}

		if _, err := uc.workItemRepo.Update(ctx, item.Kind(), item.ID(), *patch); err != nil {
			uc.logger.Warn("repair %s %s (%s): %v", item.Kind(), item.ID(), patch.Describe(), err)
			report.Errors = append(report.Errors, dto.ItemError{
				Kind:      item.Kind().String(),
				ID:        item.ID(),
				ProjectID: item.ProjectID(),
				Message:   err.Error(),
			})
			continue
		}

		counts := &report.TeamTasks
		if item.Kind() == workitem.KindFeature {
			counts = &report.Features
		}
		if patch.ActualHours != nil {
			counts.HoursSet++
		}
		if patch.Status != nil {
			counts.StatusSet++
		}
		report.TotalRepaired++
		report.Repairs = append(report.Repairs, dto.RepairItem{
			Kind:      item.Kind().String(),
			ID:        item.ID(),
			ProjectID: item.ProjectID(),
			Change:    patch.Describe(),
		})
		uc.logger.Debug("repaired %s %s: %s", item.Kind(), item.ID(), patch.Describe())
	}

	switch {
	case report.TotalRepaired == 0 && len(report.Errors) == 0:
		report.Message = "all work items are consistent"
	case len(report.Errors) == 0:
		report.Message = fmt.Sprintf("repaired %d work item(s)", report.TotalRepaired)
	default:
		report.Message = fmt.Sprintf("repaired %d work item(s), %d failed", report.TotalRepaired, len(report.Errors))
	}

	uc.logger.Info("repair %s: %s", report.RunID, report.Message)
	archiveReport(ctx, uc.archive, uc.logger, output.ReportKindRepair, report.RunID, "", report)

	return report, nil
}
