package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/geocoder89/recipehub/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Upload struct {
	ObjectName string `json:"objectName"`
	ImageURL   string `json:"imageUrl"`
}

// Images stores recipe pictures in an S3-compatible bucket.
type Images struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewImages(ctx context.Context, cfg config.MinIO) (*Images, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}

	s := &Images{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Images) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", s.bucket, err)
	}
	return nil
}

// Upload writes the object under recipes/<owner>/<yyyy>/<mm>/<uuid><ext>.
func (s *Images) Upload(ctx context.Context, ownerID, fileName, contentType, ext string, body io.Reader, size int64) (Upload, error) {
	now := time.Now().UTC()
	objectName := ObjectName(ownerID, ext, now)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, body, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-filename": fileName,
			"owner-id":          ownerID,
			"uploaded-at":       now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return Upload{}, fmt.Errorf("put object: %w", err)
	}

	return Upload{ObjectName: objectName, ImageURL: s.URL(objectName)}, nil
}

func (s *Images) URL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName)
}

func ObjectName(ownerID, ext string, at time.Time) string {
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("recipes/%s/%d/%02d/%s%s", ownerID, at.Year(), at.Month(), uuid.NewString(), ext)
}
