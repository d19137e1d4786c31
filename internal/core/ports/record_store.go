package ports

import "go.trai.ch/forge/internal/core/domain"

// BuildRecordStore persists the per-destination planning record the cache
// state machine reads. One store instance is scoped to exactly one
// (triple, configuration, destination) key; different keys must never share
// backing files.
//
//go:generate go run go.uber.org/mock/mockgen -source=record_store.go -destination=mocks/mock_record_store.go -package=mocks
type BuildRecordStore interface {
	// Get retrieves the stored record. Returns nil, nil when absent.
	Get() (*domain.BuildRecord, error)

	// Put stores the record.
	Put(record domain.BuildRecord) error
}

// BuildRecordStoreOpener opens the record store backing one destination key.
// The path is already namespaced per (triple, configuration, destination).
type BuildRecordStoreOpener func(path string) (BuildRecordStore, error)

// DepfileReader parses a compiler-emitted .d file into the paths it
// references. A missing file is reported as an error; consumers treat that
// as "no data".
type DepfileReader func(path string) ([]string, error)
