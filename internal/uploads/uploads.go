// Package uploads manages the shared directory of uploaded image files.
// Report generation only reads from it; uploads are the single writer.
package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is a directory-backed file store.
type Store struct {
	dir string
}

// New creates the uploads directory if needed and returns a Store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// List returns the filenames of all stored files, sorted by name.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("uploads: list: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Open opens a stored file for reading.
func (s *Store) Open(name string) (io.ReadCloser, error) {
	clean, err := sanitizeName(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, clean))
	if err != nil {
		return nil, fmt.Errorf("uploads: open %s: %w", clean, err)
	}
	return f, nil
}

// Path returns the on-disk path for a stored filename.
func (s *Store) Path(name string) (string, error) {
	clean, err := sanitizeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, clean), nil
}

// Save writes the reader's contents under a unique filename derived from the
// client-supplied name and returns the stored filename. The UUID prefix
// prevents a later upload from silently replacing an earlier one.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	base, err := sanitizeName(filepath.Base(name))
	if err != nil {
		return "", err
	}
	stored := uuid.New().String() + "_" + base

	f, err := os.Create(filepath.Join(s.dir, stored))
	if err != nil {
		return "", fmt.Errorf("uploads: create %s: %w", stored, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("uploads: write %s: %w", stored, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("uploads: close %s: %w", stored, err)
	}
	return stored, nil
}

// sanitizeName rejects names that could escape the uploads directory.
func sanitizeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("uploads: filename must not be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("uploads: invalid filename %q", name)
	}
	return name, nil
}
