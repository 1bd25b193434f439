// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/checkin/internal/ports/secondary"
)

// SlotFileStore implements secondary.SlotStore with one file per slot.
// Writes go to a temp file in the same directory and are renamed over the
// slot, so a reader sees either the old payload or the new one.
type SlotFileStore struct {
	dir string
}

// NewSlotFileStore creates a slot store rooted at dir.
func NewSlotFileStore(dir string) (*SlotFileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("slot directory is required")
	}
	return &SlotFileStore{dir: dir}, nil
}

// Dir returns the directory holding the slot files.
func (s *SlotFileStore) Dir() string {
	return s.dir
}

// PathFor returns the file that backs the named slot.
func (s *SlotFileStore) PathFor(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid slot name %q", name)
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// Read returns the payload of the named slot.
func (s *SlotFileStore) Read(ctx context.Context, name string) ([]byte, bool, error) {
	path, err := s.PathFor(name)
	if err != nil {
		return nil, false, err
	}

	payload, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot file: %w", err)
	}
	return payload, true, nil
}

// Write atomically replaces the named slot.
func (s *SlotFileStore) Write(ctx context.Context, name string, payload []byte) error {
	path, err := s.PathFor(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create slot directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace slot file: %w", err)
	}
	return nil
}

// Ensure SlotFileStore implements the interface
var _ secondary.SlotStore = (*SlotFileStore)(nil)
