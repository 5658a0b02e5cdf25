package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/techcare-rwanda/account-service/internal/config"
)

// Store persists an uploaded file and returns a retrievable URL. Every
// implementation validates the upload against the shared policy first; a
// rejected file reports an error wrapping ErrInvalidFile. Files are keyed
// by owner, so re-uploading replaces the previous file of that kind.
type Store interface {
	Save(ctx context.Context, kind Kind, owner string, filename string, content io.Reader, size int64) (string, error)
}

// New selects a driver from configuration: "s3" or "local" (default).
func New(cfg config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "s3":
		return NewS3Store(DefaultPolicy())
	case "local", "":
		return NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL, DefaultPolicy()), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
