// Package storage keeps uploaded case files in an S3-compatible object store.
// Files are stored under cases/<nanoid>.<ext>; the key is recorded on the
// case row and travels with the queue message.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	appconfig "github.com/cognitive-crime/casegraph/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// FileStore wraps an S3 client bound to one bucket.
type FileStore struct {
	client *s3.Client
	bucket string
}

// NewFileStore builds a FileStore from static credentials. Path-style
// addressing keeps it working against MinIO and other S3 lookalikes.
func NewFileStore(ctx context.Context, cfg appconfig.S3Config) (*FileStore, error) {
	awsCfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(cfg.Region),
		config.WithBaseEndpoint(cfg.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure S3 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return &FileStore{client: client, bucket: cfg.Bucket}, nil
}

// PutFile uploads a case file under a fresh random key and returns that key.
// The original filename only contributes its extension.
func (f *FileStore) PutFile(ctx context.Context, filename string, file io.ReadSeeker) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	ext := filepath.Ext(filename)
	key := fmt.Sprintf("cases/%s%s", id, ext)

	_, err = f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(f.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(mime.TypeByExtension(ext)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return key, nil
}

// GetFile downloads a stored case file.
func (f *FileStore) GetFile(ctx context.Context, key string) ([]byte, error) {
	result, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get file from S3: %w", err)
	}
	defer result.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, result.Body); err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}
	return buf.Bytes(), nil
}

// DeleteFile removes a stored case file.
func (f *FileStore) DeleteFile(ctx context.Context, key string) error {
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}
