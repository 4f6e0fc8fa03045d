package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/zourte2486/school-platform-test/internal/config"
	"github.com/zourte2486/school-platform-test/internal/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type S3Storage struct {
	client  *s3.S3
	bucket  string
	folder  string
	baseURL string
}

func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.Storage.S3.AccessKey, cfg.Storage.S3.SecretKey, ""),
		Endpoint:         aws.String(cfg.Storage.S3.Endpoint),
		Region:           aws.String(cfg.Storage.S3.Region),
		DisableSSL:       aws.Bool(!cfg.Storage.S3.UseSSL),
		S3ForcePathStyle: aws.Bool(true),
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.Storage.S3.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Storage.S3.Endpoint, "/"), cfg.Storage.S3.Bucket)
	}

	return &S3Storage{
		client:  s3.New(sess),
		bucket:  cfg.Storage.S3.Bucket,
		folder:  cfg.Storage.Folder,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, img model.ImagePayload) (string, error) {
	key := path.Join(s.folder, newObjectName(img))

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

func (s *S3Storage) Delete(ctx context.Context, locator string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.keyFromLocator(locator)),
	})
	return err
}

// keyFromLocator recovers the object key from a locator this store issued.
// Bare keys pass through so reconciliation markers and URLs are
// interchangeable.
func (s *S3Storage) keyFromLocator(locator string) string {
	if rest, ok := strings.CutPrefix(locator, s.baseURL+"/"); ok {
		return rest
	}
	return locator
}
