package output

import (
	"context"
	"errors"
	"time"
)

// ErrReportNotFound is returned when no archived report has the requested ID
var ErrReportNotFound = errors.New("report not found")

// ReportArchive persists run reports (audit, repair, generate) outside the ledger.
// Supports the local filesystem and S3.
type ReportArchive interface {
	// SaveReport persists one report
	SaveReport(ctx context.Context, req SaveReportRequest) (*ReportMetadata, error)

	// LoadReport retrieves a report by ID
	LoadReport(ctx context.Context, reportID string) (*Report, error)

	// ListReports lists archived reports of one kind, newest first
	ListReports(ctx context.Context, kind ReportKind) ([]*ReportMetadata, error)
}

// SaveReportRequest represents a request to archive a report
type SaveReportRequest struct {
	RunID   string     // Run that produced the report
	Kind    ReportKind // Type of report
	Period  string     // Billing period, empty for audit and repair
	Content []byte     // JSON document
}

// ReportKind represents the operation that produced a report
type ReportKind string

const (
	ReportKindAudit    ReportKind = "audit"
	ReportKindRepair   ReportKind = "repair"
	ReportKindGenerate ReportKind = "generate"
)

// ReportKinds lists every report kind
var ReportKinds = []ReportKind{ReportKindAudit, ReportKindRepair, ReportKindGenerate}

// IsValid validates the report kind
func (k ReportKind) IsValid() bool {
	switch k {
	case ReportKindAudit, ReportKindRepair, ReportKindGenerate:
		return true
	default:
		return false
	}
}

// Report represents an archived report
type Report struct {
	ID       string         // Unique report ID
	Content  []byte         // Report content
	Metadata ReportMetadata // Report metadata
}

// ReportMetadata contains information about an archived report
type ReportMetadata struct {
	ID          string     `json:"id"`
	RunID       string     `json:"runId"`
	Kind        ReportKind `json:"kind"`
	Period      string     `json:"period,omitempty"`
	StoragePath string     `json:"storagePath"` // e.g. s3://bucket/key
	Size        int64      `json:"size"`
	ArchivedAt  time.Time  `json:"archivedAt"`
}
