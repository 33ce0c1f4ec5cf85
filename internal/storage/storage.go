// Package storage keeps generated media files on the local filesystem
package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidName is returned for file names that would escape their category directory
var ErrInvalidName = errors.New("invalid file name")

// localStorage stores files under basePath/<category>/<name>
type localStorage struct {
	basePath string
}

// NewLocalStorage creates a new localStorage instance
func NewLocalStorage(basePath string) *localStorage {
	return &localStorage{
		basePath: basePath,
	}
}

// path returns the full file path of name inside category
func (s *localStorage) path(category, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidName
	}
	return filepath.Join(s.basePath, category, name), nil
}

// Create creates a new file and returns a WriteCloser
func (s *localStorage) Create(category, name string) (io.WriteCloser, error) {
	path, err := s.path(category, name)
	if err != nil {
		return nil, err
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	return os.Create(path)
}

// OpenFile opens a file and returns *os.File
func (s *localStorage) OpenFile(category, name string) (*os.File, error) {
	path, err := s.path(category, name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes a file
func (s *localStorage) Delete(category, name string) error {
	path, err := s.path(category, name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// GenerateFileName generates a UUID-based file name with the provided extension
func GenerateFileName(extension string) string {
	newUUID := uuid.New().String()
	if extension != "" && extension[0] != '.' {
		return newUUID + "." + extension
	}
	return newUUID + extension
}
