package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsPublicBaseURL = "https://storage.googleapis.com"

// GCSStorage stores files in a Google Cloud Storage bucket with public read URLs.
type GCSStorage struct {
	client *gcs.Client
	bucket string
}

// NewGCSStorage uses application default credentials unless credentialsFile is set.
func NewGCSStorage(ctx context.Context, bucket, credentialsFile string) (*GCSStorage, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("gcs bucket is empty")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient failed: %w", err)
	}

	return &GCSStorage{
		client: client,
		bucket: bucket,
	}, nil
}

func (s *GCSStorage) object(path string) *gcs.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(strings.TrimLeft(path, "/"))
}

func (s *GCSStorage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	obj := strings.TrimLeft(path, "/")
	if obj == "" {
		return "", fmt.Errorf("invalid file path: %s", path)
	}

	w := s.object(obj).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"

	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object: %w", err)
	}

	return obj, nil
}

func (s *GCSStorage) Delete(ctx context.Context, path string) error {
	if err := s.object(path).Delete(ctx); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// GetURL returns the public object URL; the bucket is expected to allow public reads.
func (s *GCSStorage) GetURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	obj := strings.TrimLeft(path, "/")
	escaped := (&url.URL{Path: obj}).EscapedPath()
	return fmt.Sprintf("%s/%s/%s", gcsPublicBaseURL, s.bucket, escaped), nil
}

// PathFromURL implements FileStorage.
func (s *GCSStorage) PathFromURL(rawURL string) (string, bool) {
	rest, ok := strings.CutPrefix(rawURL, fmt.Sprintf("%s/%s/", gcsPublicBaseURL, s.bucket))
	if !ok {
		return "", false
	}
	obj, ok := stripURL(rest)
	if !ok || strings.TrimLeft(obj, "/") == "" {
		return "", false
	}
	return strings.TrimLeft(obj, "/"), true
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}
