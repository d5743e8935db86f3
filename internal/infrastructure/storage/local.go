package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	practiceapp "github.com/estudio/backend/internal/application/practice"
)

var _ practiceapp.ObjectStorageService = (*LocalObjectStorage)(nil)

// LocalObjectStorage keeps objects on the local filesystem. It exists
// for development and tests where no S3-compatible backend is
// available. The generated URLs are not real presigned URLs; clients
// running against this backend write the files directly.
type LocalObjectStorage struct {
	baseDir string
	baseURL string
}

// NewLocalObjectStorage creates the base directory if needed.
func NewLocalObjectStorage(baseDir string) (*LocalObjectStorage, error) {
	if baseDir == "" {
		return nil, errors.New("storage base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalObjectStorage{
		baseDir: baseDir,
		baseURL: "file://" + filepath.ToSlash(baseDir),
	}, nil
}

func (s *LocalObjectStorage) objectPath(storageKey string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(storageKey))
}

// GenerateUploadURL returns a file URL pointing into the base
// directory and pre-creates the parent directory so the client can
// write the object.
func (s *LocalObjectStorage) GenerateUploadURL(
	ctx context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = practiceapp.AdjuntoURLExpiry
	}
	if err := os.MkdirAll(filepath.Dir(s.objectPath(storageKey)), 0755); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to prepare object directory: %w", err)
	}
	return s.baseURL + "/" + storageKey, time.Now().Add(expiresIn), nil
}

// GenerateDownloadURL returns a file URL for an existing object.
func (s *LocalObjectStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = practiceapp.AdjuntoURLExpiry
	}
	return s.baseURL + "/" + storageKey, time.Now().Add(expiresIn), nil
}

// DeleteObject removes the object file. Missing objects are not an
// error, matching S3 delete semantics.
func (s *LocalObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	if err := os.Remove(s.objectPath(storageKey)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// ObjectExists reports whether the object file is present.
func (s *LocalObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	_, err := os.Stat(s.objectPath(storageKey))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

// WriteObject stores data directly, bypassing the URL flow. Used by
// tests and tooling.
func (s *LocalObjectStorage) WriteObject(storageKey string, data []byte) error {
	path := s.objectPath(storageKey)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
