package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"
)

type FileStorage interface {
	// Upload uploads a file and returns the file path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file. A missing file is not an error.
	Delete(ctx context.Context, path string) error

	// GetURL generates a presigned/public URL
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// PathFromURL maps a URL produced by GetURL back to its path/key and
	// reports false for URLs this storage did not produce.
	PathFromURL(rawURL string) (string, bool)
}

// stripURL removes the query and fragment and unescapes the remainder.
func stripURL(rawURL string) (string, bool) {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	unescaped, err := url.PathUnescape(rawURL)
	if err != nil {
		return "", false
	}
	return unescaped, true
}
