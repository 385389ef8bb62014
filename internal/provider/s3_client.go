package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3 timeout constants
const (
	s3UploadTimeout   = 60 * time.Second
	s3DownloadTimeout = 30 * time.Second
)

// S3Client wraps the MinIO SDK for vault blob operations
type S3Client struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// ParseS3Token splits a provider token in ACCESS_KEY:SECRET_KEY format.
// An empty token is allowed (IAM role / anonymous access).
func ParseS3Token(token string) (accessKey, secretKey string, err error) {
	if token == "" {
		return "", "", nil
	}
	accessKey, secretKey, found := strings.Cut(token, ":")
	if !found || accessKey == "" || secretKey == "" {
		return "", "", fmt.Errorf("S3 token must be in ACCESS_KEY:SECRET_KEY format")
	}
	return accessKey, secretKey, nil
}

// NewS3Client creates a MinIO client for the given endpoint and credentials
func NewS3Client(endpoint, bucket, key, accessKey, secretKey string, useSSL bool, region string, logger *slog.Logger) (*S3Client, error) {
	opts := &minio.Options{
		Secure: useSSL,
	}
	if accessKey != "" {
		opts.Creds = credentials.NewStaticV4(accessKey, secretKey, "")
	} else {
		opts.Creds = credentials.NewIAM("")
	}
	if region != "" {
		opts.Region = region
	}

	client, err := minio.New(endpoint, opts)
	if err != nil {
		logger.Error("Failed to create S3 client",
			"endpoint", endpoint,
			"bucket", bucket,
			"error", err)
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	logger.Info("S3 client created",
		"endpoint", endpoint,
		"bucket", bucket,
		"key", key,
		"ssl", useSSL)

	return &S3Client{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}, nil
}

// ValidateBucket checks that the bucket exists and is accessible
func (c *S3Client) ValidateBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		c.logger.Error("S3 bucket validation failed",
			"bucket", c.bucket,
			"error", err)
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", c.bucket)
	}
	return nil
}

// Exists checks if the vault object exists in the bucket
func (c *S3Client) Exists(ctx context.Context) (bool, error) {
	_, err := c.client.StatObject(ctx, c.bucket, c.key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return false, nil
		}
		c.logger.Error("S3 existence check failed",
			"bucket", c.bucket,
			"key", c.key,
			"error", err)
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

// Download retrieves the vault object
func (c *S3Client) Download(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s3DownloadTimeout)
	defer cancel()

	obj, err := c.client.GetObject(ctx, c.bucket, c.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

// Upload writes the vault object
func (c *S3Client) Upload(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s3UploadTimeout)
	defer cancel()

	_, err := c.client.PutObject(ctx, c.bucket, c.key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		c.logger.Error("S3 upload failed",
			"bucket", c.bucket,
			"key", c.key,
			"error", err)
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}
