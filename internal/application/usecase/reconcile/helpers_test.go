package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
	"github.com/YoshitsuguKoike/billrecon/internal/application/service"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/project"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/rate"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/workitem"
	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/repository/mock"
)

type silentLogger struct{}

func (silentLogger) Debug(string, ...interface{}) {}
func (silentLogger) Info(string, ...interface{})  {}
func (silentLogger) Warn(string, ...interface{})  {}
func (silentLogger) Error(string, ...interface{}) {}

// fixedClock pins "now" to 2026-10-15 so the current period is 2026-10
var fixedClock = Clock{
	Now:      func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) },
	Location: time.UTC,
}

// recordingArchive keeps archived reports in memory
type recordingArchive struct {
	mu      sync.Mutex
	reports []output.SaveReportRequest
}

func (a *recordingArchive) SaveReport(ctx context.Context, req output.SaveReportRequest) (*output.ReportMetadata, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reports = append(a.reports, req)
	return &output.ReportMetadata{ID: req.RunID, RunID: req.RunID, Kind: req.Kind, StoragePath: "memory://" + req.RunID}, nil
}

func (a *recordingArchive) LoadReport(ctx context.Context, reportID string) (*output.Report, error) {
	return nil, nil
}

func (a *recordingArchive) ListReports(ctx context.Context, kind output.ReportKind) ([]*output.ReportMetadata, error) {
	return nil, nil
}

func (a *recordingArchive) saved() []output.SaveReportRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]output.SaveReportRequest(nil), a.reports...)
}

// testEnv wires the use cases over in-memory stores
type testEnv struct {
	items    *mock.MockWorkItemRepository
	projects *mock.MockProjectRepository
	rates    *mock.MockRateRepository
	ledger   *mock.MockExpenseRepository
	locks    *mock.MockRunLockRepository
	archive  *recordingArchive
	lockSvc  service.LockService
}

func newTestEnv(projects ...*project.Project) *testEnv {
	env := &testEnv{
		items:    mock.NewMockWorkItemRepository(),
		projects: mock.NewMockProjectRepository(projects...),
		rates:    mock.NewMockRateRepository(),
		ledger:   mock.NewMockExpenseRepository(),
		locks:    mock.NewMockRunLockRepository(),
		archive:  &recordingArchive{},
	}
	env.lockSvc = service.NewLockService(env.locks, service.LockServiceConfig{
		HeartbeatInterval: time.Hour,
		CleanupInterval:   time.Hour,
	}, silentLogger{})
	return env
}

func (e *testEnv) audit() *AuditUseCaseImpl {
	return NewAuditUseCase(e.items, e.projects, e.rates, e.ledger, fixedClock, silentLogger{})
}

func (e *testEnv) repair() *RepairUseCaseImpl {
	return NewRepairUseCase(e.items, e.projects, e.archive, silentLogger{})
}

func (e *testEnv) generator(fallback string) *GenerateUseCaseImpl {
	return NewGenerateUseCase(e.items, e.projects, e.rates, e.ledger, e.lockSvc, e.archive, GenerateConfig{
		Clock:            fixedClock,
		LockTTL:          time.Minute,
		FallbackPersonID: fallback,
	}, silentLogger{})
}

func (e *testEnv) addRate(personID, name string, perHour float64) {
	_ = e.rates.Save(context.Background(), rate.MustNewHourlyRate(personID, name, perHour))
}

func teamTask(id string, status workitem.Status, assignee string, hours float64) *workitem.WorkItem {
	return workitem.MustNew(workitem.Params{
		ID: id, Kind: workitem.KindTeamTask, Status: status, Assignee: assignee, ActualHours: hours, Title: "Task " + id,
	})
}

func feature(id, projectID string, status workitem.Status, assignee string, hours float64) *workitem.WorkItem {
	return workitem.MustNew(workitem.Params{
		ID: id, Kind: workitem.KindFeature, Status: status, Assignee: assignee, ActualHours: hours, ProjectID: projectID, Title: "Feature " + id,
	})
}
