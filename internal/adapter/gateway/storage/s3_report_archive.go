package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
)

// S3ReportArchive implements ReportArchive on AWS S3
// Bucket structure: s3://<bucket>/<prefix>/reports/<kind>/<reportID>/
//   - report.json: the report document
//   - metadata.json: report metadata
type S3ReportArchive struct {
	client     S3API
	bucketName string
	prefix     string // Optional prefix for all keys (e.g., "billrecon/prod")
	pageSize   int32  // List page size; 0 leaves it to S3
}

// S3Config holds S3 archive configuration
type S3Config struct {
	BucketName string // S3 bucket name
	Prefix     string // Optional key prefix
	Region     string // AWS region (optional, uses default if empty)
}

// NewS3ReportArchive creates an S3-backed archive from the default AWS credential chain
func NewS3ReportArchive(ctx context.Context, cfg S3Config) (*S3ReportArchive, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("S3 bucket name is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	}

	return NewS3ReportArchiveWithClient(s3.NewFromConfig(awsCfg), cfg.BucketName, cfg.Prefix), nil
}

// NewS3ReportArchiveWithClient creates an S3-backed archive over a custom client
func NewS3ReportArchiveWithClient(client S3API, bucketName, prefix string) *S3ReportArchive {
	return &S3ReportArchive{
		client:     client,
		bucketName: bucketName,
		prefix:     strings.Trim(prefix, "/"),
	}
}

// SaveReport uploads the report and its metadata
func (a *S3ReportArchive) SaveReport(ctx context.Context, req output.SaveReportRequest) (*output.ReportMetadata, error) {
	if err := validateSaveRequest(req); err != nil {
		return nil, err
	}

	reportID := generateReportID(req.Content)
	contentKey := a.buildKey("reports", string(req.Kind), reportID, reportFileName)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(contentKey),
		Body:        bytes.NewReader(req.Content),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"report-id": reportID,
			"run-id":    req.RunID,
			"kind":      string(req.Kind),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload report to S3: %w", err)
	}

	metadata := output.ReportMetadata{
		ID:          reportID,
		RunID:       req.RunID,
		Kind:        req.Kind,
		Period:      req.Period,
		StoragePath: fmt.Sprintf("s3://%s/%s", a.bucketName, contentKey),
		Size:        int64(len(req.Content)),
		ArchivedAt:  time.Now().UTC(),
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal report metadata: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(a.buildKey("reports", string(req.Kind), reportID, metadataFileName)),
		Body:        bytes.NewReader(metadataJSON),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("upload report metadata to S3: %w", err)
	}

	return &metadata, nil
}

// LoadReport finds a report by ID under any kind
func (a *S3ReportArchive) LoadReport(ctx context.Context, reportID string) (*output.Report, error) {
	for _, kind := range output.ReportKinds {
		metadataJSON, err := a.download(ctx, a.buildKey("reports", string(kind), reportID, metadataFileName))
		if isNoSuchKey(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("download report metadata from S3: %w", err)
		}

		var metadata output.ReportMetadata
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal report metadata: %w", err)
		}

		content, err := a.download(ctx, a.buildKey("reports", string(kind), reportID, reportFileName))
		if err != nil {
			return nil, fmt.Errorf("download report from S3: %w", err)
		}
		return &output.Report{ID: reportID, Content: content, Metadata: metadata}, nil
	}

	return nil, fmt.Errorf("%w: %s", output.ErrReportNotFound, reportID)
}

// ListReports lists the reports of one kind, newest first.
// Metadata objects that cannot be read are skipped.
func (a *S3ReportArchive) ListReports(ctx context.Context, kind output.ReportKind) ([]*output.ReportMetadata, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucketName),
		Prefix: aws.String(a.buildKey("reports", string(kind)) + "/"),
	}
	if a.pageSize > 0 {
		input.MaxKeys = aws.Int32(a.pageSize)
	}
	paginator := s3.NewListObjectsV2Paginator(a.client, input)

	list := []*output.ReportMetadata{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list S3 objects: %w", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if path.Base(key) != metadataFileName {
				continue
			}

			data, err := a.download(ctx, key)
			if err != nil {
				continue
			}
			var metadata output.ReportMetadata
			if err := json.Unmarshal(data, &metadata); err != nil {
				continue
			}
			list = append(list, &metadata)
		}
	}

	sortNewestFirst(list)
	return list, nil
}

func (a *S3ReportArchive) download(ctx context.Context, key string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer obj.Body.Close()

	return io.ReadAll(obj.Body)
}

// buildKey joins parts under the configured prefix
func (a *S3ReportArchive) buildKey(parts ...string) string {
	if a.prefix != "" {
		parts = append([]string{a.prefix}, parts...)
	}
	return strings.Join(parts, "/")
}

func isNoSuchKey(err error) bool {
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &noSuchKey)
}
