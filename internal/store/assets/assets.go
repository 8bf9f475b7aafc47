// Package assets resolves canonical filenames to file content. Production
// serves from an R2 bucket over plain HTTP; local development and tests use
// a directory on disk.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound reports that the named object does not exist in the store.
var ErrNotFound = errors.New("assets: object not found")

// Store fetches a stored file by its canonical filename. The caller owns
// closing the returned reader.
type Store interface {
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
}

// DirStore serves files from a local directory.
type DirStore struct {
	Root string
}

func (s *DirStore) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	// Filenames are derived server-side from the catalog, but reject path
	// separators anyway.
	if filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		return nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.Root, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// HTTPStore proxies reads from a bucket exposed over HTTP (R2 in production).
// The bucket is consumed as an opaque URL; any auth lives in the URL or the
// optional bearer token.
type HTTPStore struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func (s *HTTPStore) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(s.BaseURL, "/")+"/"+filename, nil)
	if err != nil {
		return nil, err
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, nil
	case http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, ErrNotFound
	default:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("assets: unexpected status %d for %s", resp.StatusCode, filename)
	}
}
