package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/scogranger/ec2-incident-responder/internal/config"
)

// Archiver stores a rendered report durably and returns its location.
type Archiver interface {
	Upload(ctx context.Context, date, body string) (string, error)
}

// S3API defines the S3 operations required for report archival.
type S3API interface {
	PutObject(
		ctx context.Context,
		input *s3.PutObjectInput,
		optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver uploads reports to <prefix><date>.md in the report bucket.
type S3Archiver struct {
	client S3API
	config *config.Config
}

func NewS3Archiver(client S3API, config *config.Config) *S3Archiver {
	return &S3Archiver{
		client: client,
		config: config,
	}
}

func (a *S3Archiver) Upload(ctx context.Context, date, body string) (string, error) {
	if a.config.ReportBucket == "" {
		return "", errors.New("REPORT_BUCKET_NAME is not configured")
	}

	prefix := a.config.ReportPrefix
	if prefix == "" {
		prefix = "daily-reports/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	key := prefix + date + ".md"

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(a.config.ReportBucket),
		Key:                aws.String(key),
		Body:               strings.NewReader(body),
		ContentType:        aws.String("text/markdown; charset=utf-8"),
		ContentDisposition: aws.String("inline"),
	})
	if err != nil {
		return "", fmt.Errorf("cannot upload report to s3://%s/%s: %w", a.config.ReportBucket, key, err)
	}

	return key, nil
}
