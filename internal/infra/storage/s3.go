package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/config"
)

// ObjectStore keeps public blobs and returns the URL they are served from.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type S3 struct {
	client     *s3.Client
	bucket     string
	region     string
	endpoint   string
	publicBase string
}

// NewS3 builds a client from static credentials. A custom endpoint
// (MinIO, R2, localstack) switches to path-style addressing.
func NewS3(cfg config.S3Config) *S3 {
	awsCfg := aws.Config{Region: cfg.Region}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{
		client:     client,
		bucket:     cfg.Bucket,
		region:     cfg.Region,
		endpoint:   cfg.Endpoint,
		publicBase: cfg.PublicBaseURL,
	}
}

func (s *S3) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

func (s *S3) PublicURL(key string) string {
	switch {
	case s.publicBase != "":
		return strings.TrimRight(s.publicBase, "/") + "/" + key
	case s.endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
}

var _ ObjectStore = (*S3)(nil)
