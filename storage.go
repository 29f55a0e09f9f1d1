package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// slot is the single file holding the latest reading blob.
// Writers are not serialized: each Write replaces the whole file via
// rename, so readers see either the previous blob or the new one.
type slot struct {
	path string
}

func newSlot(path string) *slot {
	return &slot{path: path}
}

// Path returns the file location of the slot.
func (s *slot) Path() string {
	return s.path
}

// Write overwrites the slot with data exactly as given.
func (s *slot) Write(data []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	// CreateTemp uses 0600; the slot is served publicly anyway.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Read returns the current blob. It returns an error wrapping
// os.ErrNotExist when nothing has been written yet.
func (s *slot) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, nil
}
