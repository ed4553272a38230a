package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YoshitsuguKoike/billrecon/internal/app"
	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/expense"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// maxAuditSamples bounds the example items listed per kind
const maxAuditSamples = 5

// auditFetches is the number of independent fetches the audit performs
// (rates, team tasks, projects with their features, ledger)
const auditFetches = 4

// AuditUseCaseImpl implements input.AuditUseCase
type AuditUseCaseImpl struct {
	workItemRepo repository.WorkItemRepository
	projectRepo  repository.ProjectRepository
	rateRepo     repository.RateRepository
	expenseRepo  repository.ExpenseRepository
	clock        Clock
	logger       app.Logger
}

// NewAuditUseCase creates a new audit use case
func NewAuditUseCase(
	workItemRepo repository.WorkItemRepository,
	projectRepo repository.ProjectRepository,
	rateRepo repository.RateRepository,
	expenseRepo repository.ExpenseRepository,
	clock Clock,
	logger app.Logger,
) *AuditUseCaseImpl {
	if logger == nil {
		logger = app.GetLogger()
	}
	return &AuditUseCaseImpl{
		workItemRepo: workItemRepo,
		projectRepo:  projectRepo,
		rateRepo:     rateRepo,
		expenseRepo:  expenseRepo,
		clock:        clock.withDefaults(),
		logger:       logger,
	}
}

// Execute scans every store and builds the report. Each fetch is isolated:
// a failure is reported inline in its section. The report is returned together
// with ErrStoresUnreachable only when every fetch failed.
func (uc *AuditUseCaseImpl) Execute(ctx context.Context) (*dto.AuditReport, error) {
	now := uc.clock.Now()
	period := expense.PeriodFor(now, uc.clock.Location)

	report := &dto.AuditReport{
		RunID:       uuid.NewString(),
		TeamTasks:   newKindSection(workitem.KindTeamTask),
		Features:    newKindSection(workitem.KindFeature),
		Ledger:      dto.LedgerSection{Period: period.String()},
		GeneratedAt: now.UTC(),
	}
	failed := 0

	rates, err := uc.rateRepo.List(ctx)
	if err != nil {
		failed++
		report.Rates.Error = err.Error()
		uc.logger.Warn("audit: list rates: %v", err)
	} else {
		report.Rates.Total = len(rates)
		for _, r := range rates {
			if r.IsBillable() {
				report.Rates.Billable++
			}
			report.Rates.People = append(report.Rates.People, dto.ToRateDTO(r))
		}
	}

	teamTasks, err := uc.workItemRepo.ListTeamTasks(ctx, repository.TeamTaskFilter{})
	if err != nil {
		failed++
		report.TeamTasks.Error = err.Error()
		uc.logger.Warn("audit: list team tasks: %v", err)
	} else {
		tally(&report.TeamTasks, teamTasks)
	}

	projects, err := uc.projectRepo.List(ctx)
	if err != nil {
		failed++
		report.Projects.Error = err.Error()
		report.Features.Error = fmt.Sprintf("project directory unavailable: %v", err)
		uc.logger.Warn("audit: list projects: %v", err)
	} else {
		report.Projects.Total = len(projects)
		features, fetchErrors := listAllFeatures(ctx, uc.workItemRepo, projects)
		report.Features.FetchErrors = fetchErrors
		tally(&report.Features, features)
		if len(projects) > 0 && len(fetchErrors) == len(projects) {
			failed++
			report.Features.Error = "features could not be fetched for any project"
		}
		for _, fe := range fetchErrors {
			uc.logger.Warn("audit: %s", fe.Message)
		}
	}

	records, err := uc.expenseRepo.ListByPeriod(ctx, period)
	if err != nil {
		failed++
		report.Ledger.Error = err.Error()
		uc.logger.Warn("audit: list ledger for %s: %v", period, err)
	} else {
		report.Ledger.Records = len(records)
		for _, r := range records {
			report.Ledger.Amount += r.Amount()
		}
	}

	report.CanGenerate = len(rates) > 0 &&
		report.TeamTasks.FinishedWithHours+report.Features.FinishedWithHours > 0
	report.Reasons = auditReasons(report)

	if failed == auditFetches {
		report.Success = false
		return report, fmt.Errorf("audit: every fetch failed: %w", ErrStoresUnreachable)
	}

	report.Success = true
	uc.logger.Info("audit %s: can generate=%t, %d reason(s)", report.RunID, report.CanGenerate, len(report.Reasons))
	return report, nil
}

func newKindSection(kind workitem.Kind) dto.KindSection {
	return dto.KindSection{Kind: kind.String(), ByStatus: make(map[string]int)}
}

// tally adds items to the section counters
func tally(section *dto.KindSection, items []*workitem.WorkItem) {
	for _, w := range items {
		section.Total++
		section.ByStatus[w.Status().String()]++

		if w.HasHours() {
			section.WithHours++
			if len(section.Samples) < maxAuditSamples {
				section.Samples = append(section.Samples, dto.WorkItemSample{
					ID:          w.ID(),
					Status:      w.Status().String(),
					Assignee:    w.Assignee(),
					ActualHours: w.ActualHours(),
					Title:       w.Title(),
					ProjectID:   w.ProjectID(),
				})
			}
		} else {
			section.WithoutHours++
		}

		switch {
		case w.IsFinished() && w.HasHours():
			section.FinishedWithHours++
		case w.IsFinished():
			section.FinishedWithoutHours++
		case w.HasHours():
			section.UnfinishedWithHours++
		}
	}
}

// auditReasons enumerates why generation would do nothing and which violations exist
func auditReasons(report *dto.AuditReport) []string {
	reasons := []string{}

	if report.Rates.Error != "" {
		reasons = append(reasons, "rate directory could not be read")
	} else if report.Rates.Total == 0 {
		reasons = append(reasons, "no hourly rates configured")
	}
	if gaps := report.Rates.Total - report.Rates.Billable; gaps > 0 {
		reasons = append(reasons, fmt.Sprintf("%d person(s) have a non-positive rate and will not be billed", gaps))
	}

	if report.TeamTasks.FinishedWithHours+report.Features.FinishedWithHours == 0 {
		reasons = append(reasons, "no finished work items with hours")
	}

	for _, section := range []dto.KindSection{report.TeamTasks, report.Features} {
		if section.Error != "" {
			reasons = append(reasons, fmt.Sprintf("%s items could not be fetched: %s", section.Kind, section.Error))
		}
		if section.FinishedWithoutHours > 0 {
			reasons = append(reasons, fmt.Sprintf("%d finished %s item(s) lack hours", section.FinishedWithoutHours, section.Kind))
		}
		if section.UnfinishedWithHours > 0 {
			reasons = append(reasons, fmt.Sprintf("%d non-finished %s item(s) have hours", section.UnfinishedWithHours, section.Kind))
		}
	}

	return reasons
}

// Clock supplies the wall-clock time and the zone billing periods are derived in
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func (c Clock) withDefaults() Clock {
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}
