package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadURLDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	path, err := s.Upload(ctx, strings.NewReader("hello"), "invitations/photos/a.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "invitations/photos/a.jpg", path)

	data, err := os.ReadFile(filepath.Join(dir, "invitations", "photos", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	url, err := s.GetURL(ctx, path, 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/invitations/photos/a.jpg", url)

	resolved, ok := s.PathFromURL(url)
	require.True(t, ok)
	assert.Equal(t, path, resolved)

	require.NoError(t, s.Delete(ctx, resolved))
	require.NoError(t, s.Delete(ctx, resolved))

	_, err = os.Stat(filepath.Join(dir, "invitations", "photos", "a.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_PathFromURL(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	tests := []struct {
		name string
		url  string
		want string
		ok   bool
	}{
		{"own url", "http://localhost:8080/uploads/invitations/photos/a.jpg", "invitations/photos/a.jpg", true},
		{"query dropped", "http://localhost:8080/uploads/invitations/photos/a.jpg?v=2", "invitations/photos/a.jpg", true},
		{"escaped", "http://localhost:8080/uploads/invitations/photos/a%20b.jpg", "invitations/photos/a b.jpg", true},
		{"traversal kept inside", "http://localhost:8080/uploads/../../etc/passwd", "etc/passwd", true},
		{"other host", "https://cdn.example.com/invitations/photos/a.jpg", "", false},
		{"base only", "http://localhost:8080/uploads/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.PathFromURL(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGCSStorage_PathFromURL(t *testing.T) {
	s := &GCSStorage{bucket: "evermoment-photos"}

	url, err := s.GetURL(context.Background(), "invitations/photos/a b.jpg", 0)
	require.NoError(t, err)

	path, ok := s.PathFromURL(url)
	require.True(t, ok)
	assert.Equal(t, "invitations/photos/a b.jpg", path)

	_, ok = s.PathFromURL("https://storage.googleapis.com/another-bucket/a.jpg")
	assert.False(t, ok)
}

func TestLocalStorage_PathTraversalStaysInside(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)

	path, err := s.Upload(ctx, strings.NewReader("x"), "../../etc/evil.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "etc/evil.txt", path)

	_, err = s.Upload(ctx, strings.NewReader("x"), "..", "text/plain")
	assert.Error(t, err)
}
