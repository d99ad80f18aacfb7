package repository

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"

	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
	"github.com/hkwon327/timesheet-dashboard/pkg/storage"
)

// ObjectStore is the subset of *minio.Client used for document lookups.
type ObjectStore interface {
	StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucket, object string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// DocumentStore resolves stored PDF keys to presigned download URLs.
type DocumentStore struct {
	client ObjectStore
	bucket string
	ttl    time.Duration
}

// NewDocumentStore constructs the store.
func NewDocumentStore(client ObjectStore, bucket string, ttl time.Duration) *DocumentStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &DocumentStore{client: client, bucket: bucket, ttl: ttl}
}

// Lookup checks the object exists and returns a presigned GET URL for it.
func (s *DocumentStore) Lookup(ctx context.Context, key string) (string, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if storage.IsNotFound(err) {
			return "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "document not found")
		}
		return "", fmt.Errorf("stat %s/%s: %w", s.bucket, key, err)
	}

	params := url.Values{}
	params.Set("response-content-type", "application/pdf")
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.ttl, params)
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", s.bucket, key, err)
	}
	return u.String(), nil
}
