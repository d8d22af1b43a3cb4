package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Compile-time check that LocalArchiver implements Archiver.
var _ Archiver = (*LocalArchiver)(nil)

// LocalArchiver stores media copies on local disk.
// Suitable for development; use S3Archiver in production.
type LocalArchiver struct {
	dir        string
	httpClient *http.Client
}

// NewLocalArchiver creates a new LocalArchiver rooted at dir.
// If dir is empty, a directory under os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewLocalArchiver(dir string) (*LocalArchiver, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "crie-media")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("storage: create archive directory: %w", err)
	}

	return &LocalArchiver{dir: dir, httpClient: defaultHTTPClient()}, nil
}

// Dir returns the archive directory path.
func (a *LocalArchiver) Dir() string {
	return a.dir
}

// Archive downloads the media at srcURL and writes it to a file named by
// key inside the archive directory, returning the file path.
func (a *LocalArchiver) Archive(ctx context.Context, srcURL, key string) (string, error) {
	if srcURL == "" {
		return "", ErrSourceURLRequired
	}
	if key == "" {
		return "", ErrKeyRequired
	}

	body, err := fetchMedia(ctx, a.httpClient, srcURL)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	dest := filepath.Join(a.dir, filepath.Base(key))
	f, err := os.Create(dest) // #nosec G304 - dest is confined to the archive dir
	if err != nil {
		return "", fmt.Errorf("storage: create archive file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return "", fmt.Errorf("storage: write archive file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("storage: close archive file: %w", err)
	}

	return dest, nil
}
