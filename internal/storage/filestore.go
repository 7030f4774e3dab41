// Package storage keeps uploaded image files on local disk under the names
// assigned by the dedup bookkeeping ("f_<id>.<ext>"). It satisfies the
// content.Opener interface so the scene loader can read intrinsic image
// dimensions straight from the store.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStore is a flat directory of stored images.
type FileStore struct {
	dir string
}

// NewFileStore creates the storage directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// path rejects names that would escape the storage directory.
func (s *FileStore) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid stored image name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

// Save writes a stored image. Writing an existing name is an error; stored
// names are unique by construction and files are immutable once written.
func (s *FileStore) Save(name string, data []byte) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to store image %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(p)
		return fmt.Errorf("failed to store image %s: %w", name, err)
	}
	return f.Close()
}

// Open returns a reader over a stored image.
func (s *FileStore) Open(name string) (io.ReadCloser, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", name, err)
	}
	return f, nil
}

// Exists reports whether a stored image is present.
func (s *FileStore) Exists(name string) bool {
	p, err := s.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}
