package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kendall-kelly/repair-service-api/config"
	"github.com/kendall-kelly/repair-service-api/utils"
	"go.uber.org/zap"
)

// presignExpiry is how long an archived report download link stays valid
const presignExpiry = time.Hour

// ReportArchive stores exported reports in object storage
type ReportArchive interface {
	Upload(ctx context.Context, key, contentType string, body []byte) error
	PresignedURL(ctx context.Context, key string) (string, error)
}

// S3ReportArchive archives reports in an S3 bucket
type S3ReportArchive struct {
	client *s3.Client
	bucket string
}

// NewS3ReportArchive builds an S3 client from the application configuration.
// Static credentials are used when configured, otherwise the default chain.
func NewS3ReportArchive(ctx context.Context, cfg *config.Config) (*S3ReportArchive, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3ReportArchive{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSS3Bucket,
	}, nil
}

// Upload writes an object to the bucket
func (a *S3ReportArchive) Upload(ctx context.Context, key, contentType string, body []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// PresignedURL returns a time-limited download link for an object
func (a *S3ReportArchive) PresignedURL(ctx context.Context, key string) (string, error) {
	req, err := s3.NewPresignClient(a.client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return req.URL, nil
}

// ArchivedReport points at an exported report in object storage
type ArchivedReport struct {
	Name      string    `json:"name"`
	Format    string    `json:"format"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ArchiveReport exports a report and uploads it to the report archive
func (s *Service) ArchiveReport(ctx context.Context, name, format string) (*ArchivedReport, error) {
	if s.archive == nil {
		return nil, unavailableError("ARCHIVE_DISABLED", "Report archiving is not configured", nil)
	}
	export, err := s.ExportReport(ctx, name, format)
	if err != nil {
		return nil, err
	}

	now := s.now()
	key := utils.ArchiveKey(name, export.Format, now)
	if err := s.archive.Upload(ctx, key, export.ContentType, export.Data); err != nil {
		s.log.Error("Report upload failed", zap.String("key", key), zap.Error(err))
		return nil, unavailableError("ARCHIVE_UNAVAILABLE", "Failed to archive report", err)
	}
	url, err := s.archive.PresignedURL(ctx, key)
	if err != nil {
		return nil, unavailableError("ARCHIVE_UNAVAILABLE", "Failed to sign archived report URL", err)
	}

	s.log.Info("Report archived", zap.String("report", name), zap.String("key", key))
	return &ArchivedReport{
		Name:      name,
		Format:    export.Format,
		Key:       key,
		URL:       url,
		ExpiresAt: now.Add(presignExpiry),
	}, nil
}
