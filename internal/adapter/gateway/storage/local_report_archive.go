package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
	"github.com/YoshitsuguKoike/billrecon/internal/infra/persistence/file"
)

const (
	reportFileName   = "report.json"
	metadataFileName = "metadata.json"
)

// LocalReportArchive implements ReportArchive on a filesystem
// Directory structure: <baseDir>/reports/<kind>/<reportID>/
//   - report.json: the report document
//   - metadata.json: report metadata
type LocalReportArchive struct {
	fs      afero.Fs
	baseDir string
}

// NewLocalReportArchive creates a filesystem-backed archive rooted at baseDir
func NewLocalReportArchive(fs afero.Fs, baseDir string) (*LocalReportArchive, error) {
	if err := fs.MkdirAll(filepath.Join(baseDir, "reports"), 0o755); err != nil {
		return nil, fmt.Errorf("create reports directory: %w", err)
	}
	return &LocalReportArchive{fs: fs, baseDir: baseDir}, nil
}

// SaveReport writes the report and its metadata
func (a *LocalReportArchive) SaveReport(ctx context.Context, req output.SaveReportRequest) (*output.ReportMetadata, error) {
	if err := validateSaveRequest(req); err != nil {
		return nil, err
	}

	reportID := generateReportID(req.Content)
	reportDir := filepath.Join(a.baseDir, "reports", string(req.Kind), reportID)
	contentPath := filepath.Join(reportDir, reportFileName)

	if err := file.WriteFileAtomic(a.fs, contentPath, req.Content); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	metadata := output.ReportMetadata{
		ID:          reportID,
		RunID:       req.RunID,
		Kind:        req.Kind,
		Period:      req.Period,
		StoragePath: contentPath,
		Size:        int64(len(req.Content)),
		ArchivedAt:  time.Now().UTC(),
	}
	if err := file.WriteJSONAtomic(a.fs, filepath.Join(reportDir, metadataFileName), metadata); err != nil {
		return nil, fmt.Errorf("write report metadata: %w", err)
	}

	return &metadata, nil
}

// LoadReport finds a report by ID under any kind
func (a *LocalReportArchive) LoadReport(ctx context.Context, reportID string) (*output.Report, error) {
	for _, kind := range output.ReportKinds {
		reportDir := filepath.Join(a.baseDir, "reports", string(kind), reportID)
		exists, err := afero.DirExists(a.fs, reportDir)
		if err != nil {
			return nil, fmt.Errorf("search report: %w", err)
		}
		if !exists {
			continue
		}

		metadata, err := a.readMetadata(reportDir)
		if err != nil {
			return nil, err
		}
		content, err := afero.ReadFile(a.fs, filepath.Join(reportDir, reportFileName))
		if err != nil {
			return nil, fmt.Errorf("read report: %w", err)
		}
		return &output.Report{ID: reportID, Content: content, Metadata: *metadata}, nil
	}

	return nil, fmt.Errorf("%w: %s", output.ErrReportNotFound, reportID)
}

// ListReports lists the reports of one kind, newest first.
// Entries with missing or unreadable metadata are skipped.
func (a *LocalReportArchive) ListReports(ctx context.Context, kind output.ReportKind) ([]*output.ReportMetadata, error) {
	kindDir := filepath.Join(a.baseDir, "reports", string(kind))

	entries, err := afero.ReadDir(a.fs, kindDir)
	if os.IsNotExist(err) {
		return []*output.ReportMetadata{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read reports directory: %w", err)
	}

	list := []*output.ReportMetadata{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		metadata, err := a.readMetadata(filepath.Join(kindDir, entry.Name()))
		if err != nil {
			continue
		}
		list = append(list, metadata)
	}

	sortNewestFirst(list)
	return list, nil
}

func (a *LocalReportArchive) readMetadata(reportDir string) (*output.ReportMetadata, error) {
	data, err := afero.ReadFile(a.fs, filepath.Join(reportDir, metadataFileName))
	if err != nil {
		return nil, fmt.Errorf("read report metadata: %w", err)
	}
	var metadata output.ReportMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("unmarshal report metadata: %w", err)
	}
	return &metadata, nil
}

func sortNewestFirst(list []*output.ReportMetadata) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ArchivedAt.After(list[j].ArchivedAt)
	})
}
