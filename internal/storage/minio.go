package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/handiism/album-catalog/internal/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig holds S3 connection settings.
type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

// MinioStore keeps track files in an S3 compatible bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to the bucket, creating it if it does not exist.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	s := &MinioStore{client: client, bucket: cfg.BucketName}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket: %w", err)
	}
	return s, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

// Size implements Store.
func (s *MinioStore) Size(ctx context.Context, track *model.Track, format model.Format) (int64, error) {
	info, err := s.client.StatObject(ctx, s.bucket, Key(track, format), minio.StatObjectOptions{})
	if isNoSuchKey(err) {
		return 0, notFound(track, format)
	}
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", Key(track, format), err)
	}
	return info.Size, nil
}

// Open implements Store.
func (s *MinioStore) Open(ctx context.Context, track *model.Track, format model.Format) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, Key(track, format), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", Key(track, format), err)
	}

	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, notFound(track, format)
		}
		return nil, fmt.Errorf("get %s: %w", Key(track, format), err)
	}
	return obj, nil
}

// Put uploads r as the track's file in format.
func (s *MinioStore) Put(ctx context.Context, track *model.Track, format model.Format, r io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucket, Key(track, format), r, size, minio.PutObjectOptions{
		ContentType: format.MimeType,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", Key(track, format), err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	if err == nil {
		return false
	}
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
