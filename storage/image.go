package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore is the capability boundary for product/customization images.
// Callers hold references, never backend-specific paths or URLs.
type ImageStore interface {
	// Store persists the image bytes and returns an opaque reference.
	Store(ctx context.Context, filename string, r io.Reader) (string, error)
	// URL turns a stored reference into a deliverable URL. Absolute
	// references (already-hosted images) pass through unchanged.
	URL(ref string) string
}

// DiskStore writes images under a local directory served at /uploads,
// the same arrangement the API's static file route expects.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Store(_ context.Context, filename string, r io.Reader) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := dst.Sync(); err != nil {
		return "", fmt.Errorf("sync image file: %w", err)
	}
	return "/uploads/" + name, nil
}

func (s *DiskStore) URL(ref string) string {
	if ref == "" {
		return ""
	}
	lower := strings.ToLower(strings.TrimSpace(ref))
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return strings.TrimSpace(ref)
	}
	return s.BaseURL + ref
}
