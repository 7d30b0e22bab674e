package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type file struct {
	path string
}

// NewFileBackend keeps the record in a single JSON file at path. The file
// is replaced through a temporary sibling and a rename, so it is never seen
// half written.
func NewFileBackend(path string) (Backend, error) {
	if path == "" {
		return nil, errors.New("file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	return &file{path: path}, nil
}

func (s *file) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrRecordNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	return data, nil
}

func (s *file) Replace(_ context.Context, data []byte) error {
	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	return nil
}

func (s *file) Close() error {
	return nil
}
