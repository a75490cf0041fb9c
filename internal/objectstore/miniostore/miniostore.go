// Package miniostore implements objectstore.Store with the MinIO client.
package miniostore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dmitrijs2005/filekeeper/internal/objectstore"
)

const (
	codeNoSuchKey = "NoSuchKey"
	codeNotFound  = "NotFound"

	defaultURLExpiry = 15 * time.Minute
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	URLExpiry time.Duration
}

// api is the subset of *minio.Client used by Store.
type api interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	CopyObject(ctx context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

var newMinioClient = func(endpoint string, opts *minio.Options) (api, error) {
	return minio.New(endpoint, opts)
}

type Store struct {
	client api
	bucket string
	expiry time.Duration
}

var _ objectstore.Store = (*Store)(nil)

// New connects to MinIO and creates the bucket when it does not exist yet.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client, err := newMinioClient(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ok, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !ok {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = defaultURLExpiry
	}

	return &Store{client: client, bucket: cfg.Bucket, expiry: expiry}, nil
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *Store) URL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Delete stats the object first: RemoveObject succeeds on missing keys.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.stat(ctx, key); err != nil {
		return err
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *Store) List(ctx context.Context, prefix string) ([]objectstore.Object, error) {
	var out []objectstore.Object
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		out = append(out, objectstore.Object{Key: obj.Key, Size: obj.Size})
	}
	return out, nil
}

func (s *Store) Metadata(ctx context.Context, key string) (objectstore.Metadata, error) {
	info, err := s.stat(ctx, key)
	if err != nil {
		return nil, err
	}
	return objectstore.Normalize(info.UserMetadata), nil
}

func (s *Store) UpdateMetadata(ctx context.Context, key string, patch objectstore.Metadata) error {
	info, err := s.stat(ctx, key)
	if err != nil {
		return err
	}

	merged := objectstore.Merge(objectstore.Normalize(info.UserMetadata), patch)
	// Standard headers in UserMetadata are sent as-is, which keeps the
	// content type across the replace.
	meta := make(map[string]string, len(merged)+1)
	for k, v := range merged {
		meta[k] = v
	}
	if info.ContentType != "" {
		meta["Content-Type"] = info.ContentType
	}

	_, err = s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.bucket, Object: key, UserMetadata: meta, ReplaceMetadata: true},
		minio.CopySrcOptions{Bucket: s.bucket, Object: key},
	)
	return err
}

func (s *Store) stat(ctx context.Context, key string) (minio.ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		switch minio.ToErrorResponse(err).Code {
		case codeNoSuchKey, codeNotFound:
			return minio.ObjectInfo{}, fmt.Errorf("%w: %s", objectstore.ErrNotFound, key)
		}
		return minio.ObjectInfo{}, err
	}
	return info, nil
}
