// Package tokenstore persists the storefront bearer token between runs.
package tokenstore

import (
	"context"
	"log/slog"
	"strings"

	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

// BlobStore keeps the token as a single object in a gocloud bucket, which
// makes a local directory and a cloud bucket interchangeable.
type BlobStore struct {
	bucket *blob.Bucket
	key    string
	logger *slog.Logger
}

var _ service.TokenStore = (*BlobStore)(nil)

// OpenBlobStore opens the bucket at bucketURL (file:///dir, mem://, s3://...).
func OpenBlobStore(ctx context.Context, bucketURL, key string, logger *slog.Logger) (*BlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open token bucket %s", bucketURL)
	}

	return NewBlobStore(bucket, key, logger), nil
}

// NewBlobStore wraps an already opened bucket. The store owns the bucket from then on.
func NewBlobStore(bucket *blob.Bucket, key string, logger *slog.Logger) *BlobStore {
	return &BlobStore{
		bucket: bucket,
		key:    key,
		logger: logger,
	}
}

func (s *BlobStore) Load(ctx context.Context) (string, error) {
	data, err := s.bucket.ReadAll(ctx, s.key)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to read token")
	}

	return strings.TrimSpace(string(data)), nil
}

func (s *BlobStore) Save(ctx context.Context, token string) error {
	err := s.bucket.WriteAll(ctx, s.key, []byte(token), &blob.WriterOptions{ContentType: "text/plain"})
	if err != nil {
		return errors.Wrap(err, "failed to write token")
	}
	s.logger.Debug("Token saved", slog.String("key", s.key))

	return nil
}

// Clear is idempotent.
func (s *BlobStore) Clear(ctx context.Context) error {
	err := s.bucket.Delete(ctx, s.key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrap(err, "failed to delete token")
	}
	s.logger.Debug("Token cleared", slog.String("key", s.key))

	return nil
}

func (s *BlobStore) Close() error {
	return errors.WithStack(s.bucket.Close())
}
