package reconcile

import (
	"context"
	"encoding/json"

	"github.com/YoshitsuguKoike/billrecon/internal/app"
	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
)

// archiveReport stores report in the archive. Failures are logged, never returned.
func archiveReport(ctx context.Context, archive output.ReportArchive, logger app.Logger, kind output.ReportKind, runID, period string, report interface{}) {
	if archive == nil {
		return
	}

	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Warn("encode %s report %s: %v", kind, runID, err)
		return
	}

	meta, err := archive.SaveReport(ctx, output.SaveReportRequest{
		RunID:   runID,
		Kind:    kind,
		Period:  period,
		Content: content,
	})
	if err != nil {
		logger.Warn("archive %s report %s: %v", kind, runID, err)
		return
	}
	logger.Debug("archived %s report at %s", kind, meta.StoragePath)
}
