package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
)

func newLocalArchive(t *testing.T) (*LocalReportArchive, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	archive, err := NewLocalReportArchive(fs, "/var/billrecon")
	require.NoError(t, err)
	return archive, fs
}

func TestLocalReportArchive_SaveAndLoad(t *testing.T) {
	archive, fs := newLocalArchive(t)
	ctx := context.Background()
	content := []byte(`{"runId":"run-1","created":2}`)

	metadata, err := archive.SaveReport(ctx, output.SaveReportRequest{
		RunID:   "run-1",
		Kind:    output.ReportKindGenerate,
		Period:  "2026-10",
		Content: content,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, metadata.ID)
	assert.Equal(t, "run-1", metadata.RunID)
	assert.Equal(t, int64(len(content)), metadata.Size)
	assert.Equal(t, filepath.Join("/var/billrecon", "reports", "generate", metadata.ID, "report.json"), metadata.StoragePath)

	onDisk, err := afero.ReadFile(fs, metadata.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, content, onDisk)

	report, err := archive.LoadReport(ctx, metadata.ID)
	require.NoError(t, err)
	assert.Equal(t, content, report.Content)
	assert.Equal(t, "2026-10", report.Metadata.Period)
	assert.Equal(t, output.ReportKindGenerate, report.Metadata.Kind)
}

func TestLocalReportArchive_LoadNotFound(t *testing.T) {
	archive, _ := newLocalArchive(t)

	_, err := archive.LoadReport(context.Background(), "missing")
	assert.ErrorIs(t, err, output.ErrReportNotFound)
}

func TestLocalReportArchive_ListReports(t *testing.T) {
	archive, fs := newLocalArchive(t)
	ctx := context.Background()

	var ids []string
	for _, runID := range []string{"run-1", "run-2"} {
		md, err := archive.SaveReport(ctx, output.SaveReportRequest{RunID: runID, Kind: output.ReportKindRepair, Content: []byte(runID)})
		require.NoError(t, err)
		ids = append(ids, md.ID)
		time.Sleep(2 * time.Millisecond)
	}
	_, err := archive.SaveReport(ctx, output.SaveReportRequest{RunID: "run-3", Kind: output.ReportKindAudit, Content: []byte("{}")})
	require.NoError(t, err)

	// A directory without metadata is ignored
	require.NoError(t, fs.MkdirAll("/var/billrecon/reports/repair/broken", 0o755))

	list, err := archive.ListReports(ctx, output.ReportKindRepair)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[1], list[0].ID, "newest first")
	assert.Equal(t, ids[0], list[1].ID)

	empty, err := archive.ListReports(ctx, output.ReportKindGenerate)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLocalReportArchive_RejectsInvalidRequest(t *testing.T) {
	archive, _ := newLocalArchive(t)
	ctx := context.Background()

	_, err := archive.SaveReport(ctx, output.SaveReportRequest{RunID: "r", Kind: "invoice"})
	assert.Error(t, err)

	_, err = archive.SaveReport(ctx, output.SaveReportRequest{Kind: output.ReportKindAudit})
	assert.Error(t, err)
}
