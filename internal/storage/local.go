package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements ObjectStorage on a local directory. Keys map to
// file paths under the root; path traversal outside the root is rejected.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates a directory-backed storage rooted at dir.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{root: dir}, nil
}

func (s *LocalStorage) path(key string) (string, error) {
	cleaned := filepath.Clean(filepath.Join(s.root, filepath.FromSlash(key)))
	if !strings.HasPrefix(cleaned, filepath.Clean(s.root)+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}

// Upload writes an object to a file under the root.
func (s *LocalStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

// Download opens an object file.
func (s *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return f, nil
}

// GetURL returns the object's filesystem path.
func (s *LocalStorage) GetURL(key string) string {
	path, err := s.path(key)
	if err != nil {
		return ""
	}
	return path
}

// Delete removes an object file.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// EnsureBucket creates the root directory if it is missing.
func (s *LocalStorage) EnsureBucket(ctx context.Context) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return nil
}

// Exists checks whether an object file is present.
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	path, err := s.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
