// Package storage deletes uploaded resume assets (thumbnails and profile
// images) from local disk or an S3 compatible bucket.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/jonathan/resume-builder/internal/config"
)

// Store removes the object an asset reference points to. Deleting an object
// that does not exist is not an error.
type Store interface {
	Delete(ctx context.Context, ref string) error
}

// New builds the Store selected by cfg.Driver.
func New(ctx context.Context, cfg *config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.StorageLocal:
		return NewLocalStore(cfg.UploadsDir), nil
	case config.StorageS3:
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// refPath returns the path component of an asset reference, which may be an
// absolute URL ("http://host/uploads/a.png") or a bare path ("/uploads/a.png").
func refPath(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty asset reference")
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid asset reference %q: %w", ref, err)
	}
	p := path.Clean("/" + u.Path)
	if p == "/" {
		return "", fmt.Errorf("asset reference %q has no path", ref)
	}
	return p, nil
}
