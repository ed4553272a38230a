package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
)

func TestS3ReportArchive_SaveAndLoad(t *testing.T) {
	client := NewMockS3Client()
	archive := NewS3ReportArchiveWithClient(client, "billing", "/billrecon/prod/")
	ctx := context.Background()
	content := []byte(`{"success":true}`)

	metadata, err := archive.SaveReport(ctx, output.SaveReportRequest{RunID: "run-1", Kind: output.ReportKindAudit, Content: content})
	require.NoError(t, err)
	assert.Equal(t, 2, client.ObjectCount())

	key := fmt.Sprintf("billrecon/prod/reports/audit/%s/report.json", metadata.ID)
	assert.Equal(t, "s3://billing/"+key, metadata.StoragePath)
	body, userMeta, ok := client.Object(key)
	require.True(t, ok)
	assert.Equal(t, content, body)
	assert.Equal(t, "run-1", userMeta["run-id"])

	report, err := archive.LoadReport(ctx, metadata.ID)
	require.NoError(t, err)
	assert.Equal(t, content, report.Content)
	assert.Equal(t, "run-1", report.Metadata.RunID)
}

func TestS3ReportArchive_LoadNotFound(t *testing.T) {
	archive := NewS3ReportArchiveWithClient(NewMockS3Client(), "billing", "")

	_, err := archive.LoadReport(context.Background(), "missing")
	assert.ErrorIs(t, err, output.ErrReportNotFound)
}

func TestS3ReportArchive_LoadPropagatesStoreErrors(t *testing.T) {
	client := NewMockS3Client()
	archive := NewS3ReportArchiveWithClient(client, "billing", "")
	client.FailGet("reports/audit/r1/metadata.json", errors.New("access denied"))

	_, err := archive.LoadReport(context.Background(), "r1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, output.ErrReportNotFound)
	assert.Contains(t, err.Error(), "access denied")
}

func TestS3ReportArchive_ListReportsPaginates(t *testing.T) {
	client := NewMockS3Client()
	archive := NewS3ReportArchiveWithClient(client, "billing", "")
	archive.pageSize = 3
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := archive.SaveReport(ctx, output.SaveReportRequest{
			RunID:   fmt.Sprintf("run-%d", i),
			Kind:    output.ReportKindGenerate,
			Period:  "2026-10",
			Content: []byte(fmt.Sprintf(`{"n":%d}`, i)),
		})
		require.NoError(t, err)
	}
	_, err := archive.SaveReport(ctx, output.SaveReportRequest{RunID: "other", Kind: output.ReportKindRepair, Content: []byte("{}")})
	require.NoError(t, err)

	list, err := archive.ListReports(ctx, output.ReportKindGenerate)
	require.NoError(t, err)
	assert.Len(t, list, 4)
	assert.Equal(t, 3, client.ListCalls(), "8 objects at 3 per page")
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].ArchivedAt.After(list[i-1].ArchivedAt))
	}
}

func TestS3ReportArchive_SaveFailure(t *testing.T) {
	client := NewMockS3Client()
	client.FailPut(errors.New("bucket is read-only"))
	archive := NewS3ReportArchiveWithClient(client, "billing", "")

	_, err := archive.SaveReport(context.Background(), output.SaveReportRequest{RunID: "r", Kind: output.ReportKindRepair, Content: []byte("{}")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
}

func TestMemoryReportArchive(t *testing.T) {
	archive := NewMemoryReportArchive()
	ctx := context.Background()

	md, err := archive.SaveReport(ctx, output.SaveReportRequest{RunID: "r1", Kind: output.ReportKindAudit, Content: []byte("{}")})
	require.NoError(t, err)
	assert.Equal(t, "memory://reports/"+md.ID, md.StoragePath)

	report, err := archive.LoadReport(ctx, md.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), report.Content)

	list, err := archive.ListReports(ctx, output.ReportKindAudit)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = archive.LoadReport(ctx, "nope")
	assert.ErrorIs(t, err, output.ErrReportNotFound)
	assert.Equal(t, 1, archive.Count())
}

var (
	_ output.ReportArchive = (*LocalReportArchive)(nil)
	_ output.ReportArchive = (*S3ReportArchive)(nil)
	_ output.ReportArchive = (*MemoryReportArchive)(nil)
)
