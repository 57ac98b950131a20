package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/contacthub/contacts-api/internal/core/ports"
	"github.com/contacthub/contacts-api/internal/infrastructure/config"
)

var _ ports.AvatarStorage = (*AvatarStorage)(nil)

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
}

// AvatarStorage uploads avatar images to an S3-compatible bucket and returns
// the object's public URL. A custom endpoint (e.g. MinIO) switches the client
// to path-style addressing.
type AvatarStorage struct {
	cfg config.S3Config
}

func NewAvatarStorage(cfg config.S3Config) *AvatarStorage {
	return &AvatarStorage{cfg: cfg}
}

func (s *AvatarStorage) Upload(ctx context.Context, contentType string, data []byte) (string, error) {
	client, err := s.newClient(ctx)
	if err != nil {
		return "", err
	}

	key := objectKey(contentType)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}

	return s.publicURL(key), nil
}

func (s *AvatarStorage) newClient(ctx context.Context) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s.cfg.Region),
	}
	if s.cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.cfg.AccessKey, s.cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (s *AvatarStorage) publicURL(key string) string {
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

func objectKey(contentType string) string {
	ext := extensions[contentType]
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("avatars/%s.%s", uuid.New(), ext)
}
