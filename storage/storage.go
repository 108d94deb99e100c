package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Storage holds archived pleadings documents keyed by case. Backends are
// interchangeable; the relational store records the returned path.
type Storage interface {
	// Upload stores a document for a case and returns the storage path
	Upload(ctx context.Context, caseID string, filename string, data io.Reader) (string, error)

	// Download retrieves a document by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a document by storage path
	Delete(ctx context.Context, storagePath string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// documentPath builds the storage key for a case's pleadings document.
// Case ids come from the docket feed and may contain separators, so they
// are sanitized like filenames.
func documentPath(caseID, filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("complaints/%s/complaint%s", sanitize(caseID), ext)
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
