package storage

import (
	"context"
	"fmt"

	"github.com/zourte2486/school-platform-test/internal/config"
	"github.com/zourte2486/school-platform-test/internal/model"
)

// BlobStore is the image hosting contract. Upload returns an opaque public
// locator (a URL for remote backends, a bare filename for the local one);
// Delete accepts that same locator. Implementations must be safe for
// concurrent use.
type BlobStore interface {
	Upload(ctx context.Context, img model.ImagePayload) (string, error)
	Delete(ctx context.Context, locator string) error
}

// New selects the configured backend.
func New(cfg *config.Config) (BlobStore, error) {
	switch cfg.Storage.Backend {
	case "s3", "":
		return NewS3Storage(cfg)
	case "local":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
