package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YoshitsuguKoike/billrecon/internal/app"
	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
	"github.com/YoshitsuguKoike/billrecon/internal/application/service"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/expense"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/lock"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/person"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/project"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/rate"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
)

// DefaultLockTTL is the period lock lease used when none is configured
const DefaultLockTTL = 5 * time.Minute

// GenerateConfig holds the generator settings
type GenerateConfig struct {
	Clock            Clock
	LockTTL          time.Duration
	FallbackPersonID string // bills finished unassigned work in whole-directory runs; empty disables
}

// GenerateUseCaseImpl implements input.GenerateUseCase
type GenerateUseCaseImpl struct {
	workItemRepo repository.WorkItemRepository
	projectRepo  repository.ProjectRepository
	rateRepo     repository.RateRepository
	expenseRepo  repository.ExpenseRepository
	lockService  service.LockService
	archive      output.ReportArchive
	config       GenerateConfig
	logger       app.Logger
}

// NewGenerateUseCase creates a new generate use case. archive may be nil.
func NewGenerateUseCase(
	workItemRepo repository.WorkItemRepository,
	projectRepo repository.ProjectRepository,
	rateRepo repository.RateRepository,
	expenseRepo repository.ExpenseRepository,
	lockService service.LockService,
	archive output.ReportArchive,
	config GenerateConfig,
	logger app.Logger,
) *GenerateUseCaseImpl {
	if logger == nil {
		logger = app.GetLogger()
	}
	config.Clock = config.Clock.withDefaults()
	if config.LockTTL <= 0 {
		config.LockTTL = DefaultLockTTL
	}
	return &GenerateUseCaseImpl{
		workItemRepo: workItemRepo,
		projectRepo:  projectRepo,
		rateRepo:     rateRepo,
		expenseRepo:  expenseRepo,
		lockService:  lockService,
		archive:      archive,
		config:       config,
		logger:       logger,
	}
}

// GenerateAll bills every person in the rate directory, then unassigned work
// to the fallback payee when one is configured
func (uc *GenerateUseCaseImpl) GenerateAll(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateReport, error) {
	return uc.run(ctx, req.Period, "", false)
}

// GenerateForPerson bills one person
func (uc *GenerateUseCaseImpl) GenerateForPerson(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateReport, error) {
	if req.PersonID == "" {
		return nil, fmt.Errorf("%w: person ID is required", ErrInvalidRequest)
	}
	return uc.run(ctx, req.Period, req.PersonID, false)
}

// Preview runs the same matching as generation without taking the lock or writing
func (uc *GenerateUseCaseImpl) Preview(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateReport, error) {
	return uc.run(ctx, req.Period, req.PersonID, true)
}

func (uc *GenerateUseCaseImpl) run(ctx context.Context, rawPeriod, personID string, dryRun bool) (*dto.GenerateReport, error) {
	period, err := resolvePeriod(rawPeriod, uc.config.Clock.Now(), uc.config.Clock.Location)
	if err != nil {
		return nil, err
	}

	// Resolve the person before locking so an unknown person never blocks the period
	var rates []*rate.HourlyRate
	if personID != "" {
		r, err := uc.rateRepo.Find(ctx, personID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, personID)
			}
			return nil, fmt.Errorf("find rate for %s: %w", personID, err)
		}
		rates = []*rate.HourlyRate{r}
	}

	if !dryRun {
		release, err := uc.acquirePeriodLock(ctx, period)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	existing, err := uc.expenseRepo.ListByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("list ledger records for %s: %w", period, err)
	}

	projects, err := uc.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	if personID == "" {
		rates, err = uc.rateRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list rates: %w", err)
		}
	}

	g := &generation{
		uc:       uc,
		period:   period,
		projects: projects,
		index:    NewDedupIndex(existing),
		report: &dto.GenerateReport{
			RunID:     uuid.NewString(),
			Period:    period.String(),
			DryRun:    dryRun,
			Records:   []dto.ExpenseDTO{},
			PerPerson: []dto.PersonSummary{},
		},
	}
	uc.logger.Debug("generate %s: %d record(s) already billed in %s", g.report.RunID, g.index.Len(), period)

	for _, r := range rates {
		g.billPerson(ctx, r)
	}

	if personID == "" && uc.config.FallbackPersonID != "" {
		g.billUnassigned(ctx, rates)
	}

	g.report.Message = g.message()
	uc.logger.Info("generate %s: %s", g.report.RunID, g.report.Message)

	if !dryRun {
		archiveReport(ctx, uc.archive, uc.logger, output.ReportKindGenerate, g.report.RunID, period.String(), g.report)
	}

	return g.report, nil
}

// acquirePeriodLock takes the generation lock of period and returns its release function
func (uc *GenerateUseCaseImpl) acquirePeriodLock(ctx context.Context, period expense.BillingPeriod) (func(), error) {
	lockID, err := lock.GenerationLockID(period.String())
	if err != nil {
		return nil, err
	}

	held, err := uc.lockService.AcquireRunLock(ctx, lockID, uc.config.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire period lock: %w", err)
	}
	if held == nil {
		holder, ferr := uc.lockService.FindRunLock(ctx, lockID)
		if ferr != nil {
			// Released between the two calls
			return nil, fmt.Errorf("%w: %s", ErrGenerationInProgress, period)
		}
		return nil, fmt.Errorf("%w: %s (held by %s pid %d until %s)", ErrGenerationInProgress, period,
			holder.Hostname(), holder.PID(), holder.ExpiresAt().Format(time.RFC3339))
	}

	return func() {
		// The run's context may already be cancelled; the lock must still go
		if err := uc.lockService.ReleaseRunLock(context.WithoutCancel(ctx), lockID); err != nil {
			uc.logger.Warn("release period lock %s: %v", lockID, err)
		}
	}, nil
}

// generation is the state of one invocation. Persons and items are processed sequentially.
type generation struct {
	uc       *GenerateUseCaseImpl
	period   expense.BillingPeriod
	projects []*project.Project
	index    *DedupIndex
	report   *dto.GenerateReport
}

func (g *generation) billPerson(ctx context.Context, r *rate.HourlyRate) {
	if !r.IsBillable() {
		g.note("skipped %s: no positive hourly rate configured", r.PersonName())
		return
	}

	summary := dto.PersonSummary{PersonID: r.PersonID(), Name: r.PersonName()}

	tasks, err := g.uc.workItemRepo.ListTeamTasks(ctx, repository.TeamTaskFilter{
		Status:   workitem.CanonicalFinished(workitem.KindTeamTask),
		Assignee: r.PersonID(),
	})
	if err != nil {
		g.fail(dto.ItemError{
			Kind:    workitem.KindTeamTask.String(),
			Person:  r.PersonID(),
			Message: fmt.Sprintf("list team tasks: %v", err),
		})
	}
	for _, item := range tasks {
		g.bill(ctx, item, r, &summary)
	}

	for _, p := range g.projects {
		features, err := g.uc.workItemRepo.ListFeatures(ctx, p.ID)
		if err != nil {
			g.fail(dto.ItemError{
				Kind:      workitem.KindFeature.String(),
				ProjectID: p.ID,
				Person:    r.PersonID(),
				Message:   fmt.Sprintf("list features of project %s: %v", p.DisplayName(), err),
			})
			continue
		}
		for _, item := range features {
			if item.IsFinished() && r.Covers(item.Assignee()) {
				g.bill(ctx, item, r, &summary)
			}
		}
	}

	g.report.PerPerson = append(g.report.PerPerson, summary)
}

// billUnassigned bills finished work without an assignee to the fallback payee
func (g *generation) billUnassigned(ctx context.Context, rates []*rate.HourlyRate) {
	fallbackID := g.uc.config.FallbackPersonID

	var payee *rate.HourlyRate
	for _, r := range rates {
		if r.Covers(fallbackID) {
			payee = r
			break
		}
	}
	if payee == nil || !payee.IsBillable() {
		g.note("unassigned work not billed: fallback payee %s has no positive hourly rate", fallbackID)
		return
	}

	summary := dto.PersonSummary{PersonID: payee.PersonID(), Name: payee.PersonName() + " (unassigned)"}

	tasks, err := g.uc.workItemRepo.ListTeamTasks(ctx, repository.TeamTaskFilter{
		Status: workitem.CanonicalFinished(workitem.KindTeamTask),
	})
	if err != nil {
		g.fail(dto.ItemError{
			Kind:    workitem.KindTeamTask.String(),
			Person:  payee.PersonID(),
			Message: fmt.Sprintf("list unassigned team tasks: %v", err),
		})
	}
	for _, item := range tasks {
		if item.IsUnassigned() {
			g.bill(ctx, item, payee, &summary)
		}
	}

	for _, p := range g.projects {
		features, err := g.uc.workItemRepo.ListFeatures(ctx, p.ID)
		if err != nil {
			g.fail(dto.ItemError{
				Kind:      workitem.KindFeature.String(),
				ProjectID: p.ID,
				Person:    payee.PersonID(),
				Message:   fmt.Sprintf("list unassigned features of project %s: %v", p.DisplayName(), err),
			})
			continue
		}
		for _, item := range features {
			if item.IsFinished() && item.IsUnassigned() {
				g.bill(ctx, item, payee, &summary)
			}
		}
	}

	if summary.Created > 0 {
		g.report.PerPerson = append(g.report.PerPerson, summary)
	}
}

// bill matches one candidate and, when billable, persists its record.
// The key enters the index as soon as the record exists.
func (g *generation) bill(ctx context.Context, item *workitem.WorkItem, r *rate.HourlyRate, summary *dto.PersonSummary) {
	switch Match(item, g.index) {
	case MatchAlreadyBilled:
		g.report.Skipped.AlreadyBilled++
		g.uc.logger.Debug("skip %s: already billed in %s", item.DedupKey(), g.period)
		return
	case MatchNotFinished:
		g.report.Skipped.NotFinished++
		g.uc.logger.Debug("skip %s: status %s is not finished", item.DedupKey(), item.Status())
		return
	case MatchNoHours:
		g.report.Skipped.NoHours++
		g.uc.logger.Debug("skip %s: no hours logged", item.DedupKey())
		return
	}

	record, err := expense.NewExpenseRecord(expense.LineInput{
		Period:      g.period,
		Person:      r.PersonID(),
		PersonName:  r.PersonName(),
		Kind:        item.Kind(),
		WorkItemID:  item.ID(),
		ProjectID:   item.ProjectID(),
		ProjectName: g.projectName(item.ProjectID()),
		Title:       lineDescription(item, r),
		Hours:       item.ActualHours(),
		RatePerHour: r.RatePerHour(),
	})
	if err != nil {
		g.fail(itemError(item, r, err))
		return
	}

	if !g.report.DryRun {
		record, err = g.uc.expenseRepo.Create(ctx, record)
		if errors.Is(err, repository.ErrDuplicateSourceKey) {
			// Billed by someone else since the index was loaded
			g.index.Add(item.DedupKey())
			g.report.Skipped.AlreadyBilled++
			g.uc.logger.Warn("skip %s: ledger already holds it for %s", item.DedupKey(), g.period)
			return
		}
		if err != nil {
			g.fail(itemError(item, r, err))
			return
		}
	}

	g.index.Add(item.DedupKey())
	g.report.Records = append(g.report.Records, dto.ToExpenseDTO(record))
	g.report.Created++
	summary.Created++
	summary.Amount += record.Amount()
	g.uc.logger.Debug("billed %s to %s: %g h x %g = %g", item.DedupKey(), r.PersonID(), record.Hours(), record.RatePerHour(), record.Amount())
}

func (g *generation) fail(e dto.ItemError) {
	g.uc.logger.Warn("generate %s: %s %s: %s", g.period, e.Kind, e.ID, e.Message)
	g.report.Errors = append(g.report.Errors, e)
}

func (g *generation) note(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	g.uc.logger.Info("generate %s: %s", g.period, msg)
	g.report.Notes = append(g.report.Notes, msg)
}

func (g *generation) message() string {
	verb := "created"
	if g.report.DryRun {
		verb = "would create"
	}
	if g.report.Created == 0 {
		if g.report.DryRun {
			return fmt.Sprintf("nothing to bill for %s", g.period)
		}
		return fmt.Sprintf("no new expense records for %s", g.period)
	}
	msg := fmt.Sprintf("%s %d expense record(s) for %s", verb, g.report.Created, g.period)
	if n := len(g.report.Errors); n > 0 {
		msg += fmt.Sprintf(", %d error(s)", n)
	}
	return msg
}

func itemError(item *workitem.WorkItem, r *rate.HourlyRate, err error) dto.ItemError {
	return dto.ItemError{
		Kind:      item.Kind().String(),
		ID:        item.ID(),
		ProjectID: item.ProjectID(),
		Person:    r.PersonID(),
		Message:   err.Error(),
	}
}

// projectName resolves the display name recorded on feature lines
func (g *generation) projectName(projectID string) string {
	if projectID == "" {
		return ""
	}
	for _, p := range g.projects {
		if p.ID == projectID {
			return p.DisplayName()
		}
	}
	return projectID
}

// lineDescription is the text of the expense line: "<handle> - <title>".
// Unassigned work carries the payee's handle.
func lineDescription(item *workitem.WorkItem, payee *rate.HourlyRate) string {
	handle := person.DisplayHandle(item.Assignee())
	if handle == "" {
		handle = person.DisplayHandle(payee.PersonID())
	}
	title := item.Title()
	if title == "" {
		title = fmt.Sprintf("%s %s", item.Kind(), item.ID())
	}
	return handle + " - " + title
}
