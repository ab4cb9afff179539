package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/spec-kit/tryon-service/internal/config"
	"github.com/spec-kit/tryon-service/internal/domain"
)

// MinIOModelStore serves the stock model catalog from an object storage
// bucket. Image URLs are presigned and short-lived.
type MinIOModelStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOModelStore connects to object storage.
func NewMinIOModelStore(cfg config.MinIOConfig) (*MinIOModelStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio access_key and secret_key are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinIOModelStore{client: client, bucket: cfg.Bucket}, nil
}

// List returns the catalog in object-name order.
func (s *MinIOModelStore) List(ctx context.Context) ([]domain.StockModel, error) {
	keys, err := s.imageKeys(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]domain.StockModel, 0, len(keys))
	for i, key := range keys {
		signed, err := s.client.PresignedGetObject(ctx, s.bucket, key, time.Hour, url.Values{})
		if err != nil {
			return nil, fmt.Errorf("presign %s: %w", key, err)
		}
		models = append(models, domain.StockModel{
			ID:    fmt.Sprintf("model%d", i+1),
			Name:  fmt.Sprintf("Model %d", i+1),
			Image: signed.String(),
		})
	}
	return models, nil
}

// Open streams the object for a model id.
func (s *MinIOModelStore) Open(ctx context.Context, id string) (io.ReadCloser, string, error) {
	keys, err := s.imageKeys(ctx)
	if err != nil {
		return nil, "", err
	}

	index, err := strconv.Atoi(strings.TrimPrefix(id, "model"))
	if err != nil || index < 1 || index > len(keys) {
		return nil, "", ErrModelNotFound
	}

	key := keys[index-1]
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}
	return obj, contentTypeFor(key), nil
}

func (s *MinIOModelStore) imageKeys(ctx context.Context) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		ext := strings.ToLower(filepath.Ext(obj.Key))
		if ext == ".jpg" || ext == ".jpeg" || ext == ".png" {
			keys = append(keys, obj.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
