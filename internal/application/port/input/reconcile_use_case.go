package input

import (
	"context"

	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
)

// AuditUseCase produces the read-only consistency and readiness report
type AuditUseCase interface {
	Execute(ctx context.Context) (*dto.AuditReport, error)
}

// RepairUseCase restores the finished <=> hours invariant on every work item
type RepairUseCase interface {
	Execute(ctx context.Context) (*dto.RepairReport, error)
}

// GenerateUseCase creates expense records from finished work
type GenerateUseCase interface {
	// GenerateAll bills every person in the rate directory
	GenerateAll(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateReport, error)

	// GenerateForPerson bills one person (req.PersonID is required)
	GenerateForPerson(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateReport, error)

	// Preview reports what generation would create without writing anything
	Preview(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateReport, error)
}

// ImportUseCase loads a fixture document into the stores
type ImportUseCase interface {
	Execute(ctx context.Context, doc dto.FixtureDocument) (*dto.ImportReport, error)
}

// DirectoryUseCase maintains the rate directory and reads the ledger
type DirectoryUseCase interface {
	ListRates(ctx context.Context) ([]dto.RateDTO, error)
	SetRate(ctx context.Context, rate dto.RateDTO) (*dto.RateDTO, error)
	ListLedger(ctx context.Context, period string) (*dto.LedgerListing, error)
}

// ReportUseCase reads archived run reports
type ReportUseCase interface {
	ListReports(ctx context.Context, kind string) ([]dto.ReportInfo, error)
	ShowReport(ctx context.Context, reportID string) (*dto.ReportDocument, error)
}
