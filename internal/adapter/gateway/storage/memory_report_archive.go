package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
)

// MemoryReportArchive keeps reports in memory for the lifetime of the process.
// It backs the in-memory store profile.
type MemoryReportArchive struct {
	mu      sync.RWMutex
	reports map[string]*output.Report
	nextID  int
}

// NewMemoryReportArchive creates an empty in-memory archive
func NewMemoryReportArchive() *MemoryReportArchive {
	return &MemoryReportArchive{
		reports: make(map[string]*output.Report),
		nextID:  1,
	}
}

func (a *MemoryReportArchive) SaveReport(ctx context.Context, req output.SaveReportRequest) (*output.ReportMetadata, error) {
	if err := validateSaveRequest(req); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	reportID := fmt.Sprintf("memory-report-%d", a.nextID)
	a.nextID++

	content := append([]byte(nil), req.Content...)
	report := &output.Report{
		ID:      reportID,
		Content: content,
		Metadata: output.ReportMetadata{
			ID:          reportID,
			RunID:       req.RunID,
			Kind:        req.Kind,
			Period:      req.Period,
			StoragePath: "memory://reports/" + reportID,
			Size:        int64(len(content)),
			ArchivedAt:  time.Now().UTC(),
		},
	}
	a.reports[reportID] = report

	md := report.Metadata
	return &md, nil
}

func (a *MemoryReportArchive) LoadReport(ctx context.Context, reportID string) (*output.Report, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	report, exists := a.reports[reportID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", output.ErrReportNotFound, reportID)
	}
	cp := *report
	return &cp, nil
}

func (a *MemoryReportArchive) ListReports(ctx context.Context, kind output.ReportKind) ([]*output.ReportMetadata, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	list := []*output.ReportMetadata{}
	for _, report := range a.reports {
		if report.Metadata.Kind == kind {
			md := report.Metadata
			list = append(list, &md)
		}
	}
	sortNewestFirst(list)
	return list, nil
}

// Count returns the number of archived reports
func (a *MemoryReportArchive) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.reports)
}
