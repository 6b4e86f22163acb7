package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// ErrCorruptFile is returned when the store file is not a JSON object of
// string values.
var ErrCorruptFile = errors.New("store: corrupt file")

// fileStore keeps every key in a single JSON object on disk.
type fileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store persisted to the JSON file at path. The file
// is created on the first Put.
func NewFileStore(path string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &fileStore{path: path}, nil
}

func (s *fileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readLocked()
	if err != nil {
		return nil, false, err
	}
	v, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (s *fileStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readLocked()
	if errors.Is(err, ErrCorruptFile) {
		slog.Warn("store file is corrupt, rewriting it", "path", s.path, "error", err)
		entries = map[string]string{}
	} else if err != nil {
		return err
	}
	entries[key] = string(value)
	return s.writeLocked(entries)
}

func (s *fileStore) Close() error { return nil }

// readLocked loads the file; a missing file is an empty store.
func (s *fileStore) readLocked() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	entries := map[string]string{}
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	if entries == nil {
		entries = map[string]string{}
	}
	return entries, nil
}

// writeLocked writes via a temp file, then atomically replaces the target.
func (s *fileStore) writeLocked(entries map[string]string) error {
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
