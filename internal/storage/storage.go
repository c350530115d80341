package storage

import (
	"fmt"
	"io"

	cfg "github.com/dakflow/dakflow/internal/config"
)

// Storage defines the interface for attachment storage backends
type Storage interface {
	// Save stores a file at the given path
	Save(path string, file io.Reader) error

	// Delete removes a file at the given path
	Delete(path string) error

	// URL returns the URL for accessing the file
	URL(path string) string
}

// New creates a storage backend from app config.
// "local" keeps uploads under a directory on disk; "s3" works with
// AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "local":
		return NewLocalStorage(c.UploadDir)
	case "s3":
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver: %s (supported: local, s3)", c.StorageDriver)
	}
}
