// Package storage provides archival of completed generation media.
// Providers host results on their own CDN with limited retention, so the
// service can keep its own copy: locally for development, or in S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Static errors for archival operations.
var (
	// ErrSourceURLRequired is returned when the media URL is empty.
	ErrSourceURLRequired = errors.New("storage: source URL is required")
	// ErrKeyRequired is returned when the destination key is empty.
	ErrKeyRequired = errors.New("storage: destination key is required")
	// ErrFetchFailed is returned when the media download returns a
	// non-success HTTP status.
	ErrFetchFailed = errors.New("storage: media fetch failed")
)

// Archiver stores a copy of completed generation media.
type Archiver interface {
	// Archive downloads the media at srcURL and stores it under key,
	// returning the location of the stored copy.
	Archive(ctx context.Context, srcURL, key string) (location string, err error)
}

// fetchMedia downloads the media at srcURL. The caller must close the
// returned body.
func fetchMedia(ctx context.Context, client *http.Client, srcURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: fetch media: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d from %s", ErrFetchFailed, resp.StatusCode, srcURL)
	}

	return resp.Body, nil
}

// defaultHTTPClient is used when no custom client is provided.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 120 * time.Second}
}
