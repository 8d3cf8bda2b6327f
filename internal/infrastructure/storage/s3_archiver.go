// Package storage archives generated payroll documents in S3-compatible
// object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	payrollapp "github.com/erp/payroll/internal/application/payroll"
	infraconfig "github.com/erp/payroll/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const keyTimeLayout = "20060102T150405Z"

// S3Archiver uploads documents and hands out presigned download URLs.
// It works with any S3-compatible backend (AWS S3, MinIO, RustFS).
type S3Archiver struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	presignExpiration time.Duration
	logger            *zap.Logger
	now               func() time.Time
}

// S3ArchiverOption is a functional option for configuring S3Archiver
type S3ArchiverOption func(*S3Archiver)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3ArchiverOption {
	return func(s *S3Archiver) {
		s.logger = logger
	}
}

// WithPresignExpiration sets how long download URLs stay valid
func WithPresignExpiration(d time.Duration) S3ArchiverOption {
	return func(s *S3Archiver) {
		s.presignExpiration = d
	}
}

// NewS3Archiver creates an archiver from configuration
func NewS3Archiver(cfg *infraconfig.StorageConfig, opts ...S3ArchiverOption) (*S3Archiver, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("storage access key id and secret access key are required")
	}

	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	if endpoint != "" {
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	a := &S3Archiver{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		presignExpiration: cfg.PresignExpiry,
		logger:            zap.NewNop(),
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.presignExpiration <= 0 {
		a.presignExpiration = 15 * time.Minute
	}
	return a, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *S3Archiver) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Archive uploads data under key and returns a presigned download URL
func (s *S3Archiver) Archive(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}

	s.logger.Debug("Archived object",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)
	return req.URL, nil
}

// ArchiveExport stores a list export under exports/<tenant>/<timestamp>-<file>
func (s *S3Archiver) ArchiveExport(ctx context.Context, tenantID uuid.UUID, doc *payrollapp.Document) (string, error) {
	return s.Archive(ctx, ExportKey(tenantID, s.now(), doc.Filename), doc.Data, doc.ContentType)
}

// ArchivePayslip stores a printed payslip under payslips/<tenant>/
func (s *S3Archiver) ArchivePayslip(ctx context.Context, tenantID, payslipID uuid.UUID, doc *payrollapp.Document) (string, error) {
	return s.Archive(ctx, PayslipKey(tenantID, payslipID, s.now(), path.Ext(doc.Filename)), doc.Data, doc.ContentType)
}

// Bucket returns the bucket name
func (s *S3Archiver) Bucket() string {
	return s.bucket
}

var _ payrollapp.DocumentArchiver = (*S3Archiver)(nil)

// ExportKey is the object key of an archived list export
func ExportKey(tenantID uuid.UUID, at time.Time, filename string) string {
	return path.Join("exports", tenantID.String(), at.UTC().Format(keyTimeLayout)+"-"+path.Base(filename))
}

// PayslipKey is the object key of an archived printable payslip
func PayslipKey(tenantID, payslipID uuid.UUID, at time.Time, ext string) string {
	return path.Join("payslips", tenantID.String(), payslipID.String()+"-"+at.UTC().Format(keyTimeLayout)+ext)
}
