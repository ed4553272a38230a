package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
)

// ErrArchiveDisabled is returned by report queries when no archive is configured
var ErrArchiveDisabled = errors.New("report archive is disabled")

// ReportUseCaseImpl implements input.ReportUseCase
type ReportUseCaseImpl struct {
	archive output.ReportArchive
}

// NewReportUseCase creates a report query use case. archive may be nil.
func NewReportUseCase(archive output.ReportArchive) *ReportUseCaseImpl {
	return &ReportUseCaseImpl{archive: archive}
}

// ListReports lists archived reports newest first. An empty kind lists every kind.
func (uc *ReportUseCaseImpl) ListReports(ctx context.Context, kind string) ([]dto.ReportInfo, error) {
	if uc.archive == nil {
		return nil, ErrArchiveDisabled
	}

	kinds := output.ReportKinds
	if kind != "" {
		k := output.ReportKind(kind)
		if !k.IsValid() {
			return nil, fmt.Errorf("%w: unknown report kind %q", ErrInvalidRequest, kind)
		}
		kinds = []output.ReportKind{k}
	}

	var result []dto.ReportInfo
	for _, k := range kinds {
		list, err := uc.archive.ListReports(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("list %s reports: %w", k, err)
		}
		for _, md := range list {
			result = append(result, toReportInfo(*md))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ArchivedAt.After(result[j].ArchivedAt)
	})
	return result, nil
}

// ShowReport loads one archived report
func (uc *ReportUseCaseImpl) ShowReport(ctx context.Context, reportID string) (*dto.ReportDocument, error) {
	if uc.archive == nil {
		return nil, ErrArchiveDisabled
	}
	report, err := uc.archive.LoadReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !json.Valid(report.Content) {
		return nil, fmt.Errorf("report %s is not valid JSON", reportID)
	}
	return &dto.ReportDocument{
		Info:    toReportInfo(report.Metadata),
		Content: json.RawMessage(report.Content),
	}, nil
}

func toReportInfo(md output.ReportMetadata) dto.ReportInfo {
	return dto.ReportInfo{
		ID:          md.ID,
		RunID:       md.RunID,
		Kind:        string(md.Kind),
		Period:      md.Period,
		StoragePath: md.StoragePath,
		Size:        md.Size,
		ArchivedAt:  md.ArchivedAt,
	}
}
