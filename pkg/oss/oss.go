// Package oss uploads files to an S3-compatible object store (Aliyun OSS,
// MinIO, AWS S3) and returns their public URLs.
package oss

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const defaultExt = ".jpg"

// ErrNotConfigured is returned by New when the store is not configured.
var ErrNotConfigured = errors.New("oss: endpoint and bucket are required")

// IUploader uploads local files and returns a public URL.
type IUploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// Config holds object store configuration
type Config struct {
	// "https://oss-cn-beijing.aliyuncs.com"
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	AccessKeySecret string
	// Key prefix, e.g. "uploads/"
	Prefix string
	// Path-style addressing (MinIO, tests). OSS uses virtual-hosted style.
	PathStyle bool
}

type uploader struct {
	client    *s3.Client
	bucket    string
	prefix    string
	publicURL func(key string) string
}

// New connects to the store endpoint.
func New(cfg Config) (IUploader, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}
	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil || endpoint.Host == "" {
		return nil, fmt.Errorf("oss: invalid endpoint %q", cfg.Endpoint)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	client := s3.NewFromConfig(aws.Config{Region: cfg.Region}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, "")
		o.UsePathStyle = cfg.PathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	u := &uploader{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}
	u.publicURL = func(key string) string {
		if cfg.PathStyle {
			return fmt.Sprintf("%s://%s/%s/%s", endpoint.Scheme, endpoint.Host, cfg.Bucket, key)
		}
		return fmt.Sprintf("https://%s.%s/%s", cfg.Bucket, endpoint.Host, key)
	}
	return u, nil
}

// Upload stores the file under <prefix><uuid><ext> and returns its public URL.
func (u *uploader) Upload(ctx context.Context, localPath string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("oss: read %s: %w", localPath, err)
	}

	ext := strings.ToLower(filepath.Ext(localPath))
	if ext == "" {
		ext = defaultExt
	}
	key := u.prefix + strings.ReplaceAll(uuid.NewString(), "-", "") + ext

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("oss: put %s: %w", key, err)
	}
	return u.publicURL(key), nil
}
