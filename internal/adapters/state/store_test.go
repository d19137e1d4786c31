package state_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/forge/internal/adapters/state"
	"go.trai.ch/forge/internal/core/domain"
)

func testRecord() domain.BuildRecord {
	return domain.BuildRecord{
		Signature:     "00000000deadbeef",
		Triple:        "x86_64-unknown-linux-gnu",
		Configuration: "debug",
		Destination:   "products",
		ManifestPath:  filepath.Join("scratch", "products-debug.yaml"),
		PlannedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_GetEmpty(t *testing.T) {
	store, err := state.NewStore(filepath.Join(t.TempDir(), "build-record.json"))
	require.NoError(t, err)

	record, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestStore_PutGetRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "build-record.json")
	store, err := state.NewStore(path)
	require.NoError(t, err)

	want := testRecord()
	require.NoError(t, store.Put(want))

	got, err := store.Get()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
	assert.FileExists(t, path)
}

func TestStore_ReopenLoadsPersistedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build-record.json")

	store, err := state.NewStore(path)
	require.NoError(t, err)
	want := testRecord()
	require.NoError(t, store.Put(want))

	reopened, err := state.NewStore(path)
	require.NoError(t, err)
	got, err := reopened.Get()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Signature, got.Signature)
	assert.Equal(t, want.Triple, got.Triple)
	assert.True(t, want.PlannedAt.Equal(got.PlannedAt))
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store, err := state.NewStore(filepath.Join(t.TempDir(), "build-record.json"))
	require.NoError(t, err)
	require.NoError(t, store.Put(testRecord()))

	first, err := store.Get()
	require.NoError(t, err)
	first.Signature = "mutated"

	second, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "00000000deadbeef", second.Signature)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build-record.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := state.NewStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal build record")
}
