// Package media stores complaint photos in S3-compatible object storage.
// The lifecycle only ever persists the resulting URL; raw bytes never
// reach the complaint service.
package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hosteldesk/hosteldesk-backend/pkg/config"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
)

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// Store uploads complaint photos and returns their public URL.
type Store interface {
	UploadPhoto(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error)
}

type objectStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	maxBytes      int64
}

// NewObjectStore builds a MinIO-backed photo store and ensures the bucket
// exists.
func NewObjectStore(ctx context.Context, cfg config.MediaConfig) (Store, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse media endpoint")
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}
	if endpoint == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "media endpoint required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "init object storage client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check media bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create media bucket")
		}
	}

	maxBytes := int64(cfg.MaxUploadMB) * 1024 * 1024
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}

	return &objectStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxBytes:      maxBytes,
	}, nil
}

func (s *objectStore) UploadPhoto(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	ext, err := extensionFor(contentType)
	if err != nil {
		return "", err
	}
	if size <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "photo payload is empty")
	}
	if size > s.maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("photo exceeds the %dMB upload limit", s.maxBytes/(1024*1024)))
	}

	key := path.Join("complaints", uuid.NewString()+ext)
	_, err = s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload photo")
	}

	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key, nil
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key), nil
}

// extensionFor validates the content type against the allowed image set.
func extensionFor(contentType string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(normalized, ";"); idx >= 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	ext, ok := allowedImageTypes[normalized]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "photo must be a PNG, JPEG, or WebP image")
	}
	return ext, nil
}
