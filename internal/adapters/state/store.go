// Package state implements the on-disk build-record store backing the
// driver's cache state machine.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/zerr"

	"go.trai.ch/forge/internal/core/domain"
)

// Store implements ports.BuildRecordStore using one flat JSON file. A store
// is scoped to exactly one (triple, configuration, destination) key; the
// caller namespaces the backing path per key, so concurrent builds of
// different triples never share a file.
type Store struct {
	path   string
	mu     sync.RWMutex
	record *domain.BuildRecord
}

// NewStore creates a store backed by the file at the given path, loading the
// existing record when present.
func NewStore(path string) (*Store, error) {
	s := &Store{path: filepath.Clean(path)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read build record")
	}

	if len(data) == 0 {
		return nil
	}

	var record domain.BuildRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return zerr.Wrap(err, "failed to unmarshal build record")
	}
	s.record = &record
	return nil
}

// Get retrieves the stored record. Returns nil, nil when none exists.
func (s *Store) Get() (*domain.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.record == nil {
		return nil, nil
	}
	record := *s.record
	return &record, nil
}

// Put stores the record and persists it to disk.
func (s *Store) Put(record domain.BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal build record")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for build record")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write build record")
	}

	s.record = &record
	return nil
}
