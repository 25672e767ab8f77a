// Package storage keeps product images in a gocloud.dev/blob bucket.
package storage

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/gcsblob"  // gs:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	_ "gocloud.dev/blob/s3blob"   // s3:// buckets
	"gocloud.dev/gcerrors"

	"boutique/config"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
)

// BucketStorage implements service.ObjectStorage on a blob bucket.
type BucketStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
	signedExpiry  time.Duration
}

var _ service.ObjectStorage = (*BucketStorage)(nil)

// NewBucketStorage wraps an open bucket. publicBaseURL may be empty, in which case
// URL asks the driver for a signed URL.
func NewBucketStorage(bucket *blob.Bucket, publicBaseURL string, signedExpiry time.Duration) *BucketStorage {
	return &BucketStorage{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		signedExpiry:  signedExpiry,
	}
}

// StorageParams holds dependencies for the object storage, injected by Fx
type StorageParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewObjectStorage opens the bucket named by storage.bucketUrl and closes it on stop.
func NewObjectStorage(params StorageParams) (service.ObjectStorage, error) {
	cfg := params.Config.Storage

	bucket, err := blob.OpenBucket(params.Ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", redactBucketURL(cfg.BucketURL))
	}

	params.Logger.Info("Object storage opened", slog.String("bucket", redactBucketURL(cfg.BucketURL)))

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing object storage")

			return errors.WithStack(bucket.Close())
		},
	})

	return NewBucketStorage(bucket, cfg.PublicBaseURL, cfg.SignedURLExpiry), nil
}

func (s *BucketStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrapf(err, "failed to open writer for %s", key)
	}

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()

		return errors.Wrapf(err, "failed to write %s", key)
	}

	// the object only becomes visible once Close succeeds
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "failed to commit %s", key)
	}

	return nil
}

func (s *BucketStorage) URL(ctx context.Context, key string) (string, error) {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + escapeKey(key), nil
	}

	signed, err := s.bucket.SignedURL(ctx, key, &blob.SignedURLOptions{Expiry: s.signedExpiry})
	if err != nil {
		return "", errors.Wrapf(err, "failed to sign url for %s", key)
	}

	return signed, nil
}

func (s *BucketStorage) Delete(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrapf(err, "failed to delete %s", key)
	}

	return nil
}

func (s *BucketStorage) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.bucket.Exists(ctx, key)
	if err != nil {
		return false, errors.Wrapf(err, "failed to stat %s", key)
	}

	return ok, nil
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}

	return strings.Join(parts, "/")
}

// redactBucketURL drops query parameters, which may carry credentials.
func redactBucketURL(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}

	return raw
}
