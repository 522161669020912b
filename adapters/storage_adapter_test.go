package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storageContract exercises the StorageAdapter semantics every
// implementation must share: absent keys read as "" without error, sets
// persist, deletes are idempotent.
func storageContract(t *testing.T, storage StorageAdapter) {
	t.Helper()

	value, err := storage.Get("absent")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, storage.Set("key_1", "value_1"))
	require.NoError(t, storage.Set("key_2", "value_2"))

	value, err = storage.Get("key_1")
	require.NoError(t, err)
	assert.Equal(t, "value_1", value)

	require.NoError(t, storage.Set("key_1", "updated"))
	value, err = storage.Get("key_1")
	require.NoError(t, err)
	assert.Equal(t, "updated", value)

	require.NoError(t, storage.Delete("key_1"))
	require.NoError(t, storage.Delete("key_1"))
	value, err = storage.Get("key_1")
	require.NoError(t, err)
	assert.Empty(t, value)

	// Other keys are untouched.
	value, err = storage.Get("key_2")
	require.NoError(t, err)
	assert.Equal(t, "value_2", value)
}

func TestMemoryStorageAdapter(t *testing.T) {
	storageContract(t, NewMemoryStorageAdapter())
}

func TestFileStorageAdapter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	storageContract(t, NewFileStorageAdapter(path))
}

func TestFileStorageAdapter_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	first := NewFileStorageAdapter(path)
	require.NoError(t, first.Set("visitor", "v-1"))

	second := NewFileStorageAdapter(path)
	value, err := second.Get("visitor")
	require.NoError(t, err)
	assert.Equal(t, "v-1", value)
}

func TestFileStorageAdapter_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	storage := NewFileStorageAdapter(path)
	_, err := storage.Get("key")
	require.Error(t, err)
}

func TestNoOpStorageAdapter(t *testing.T) {
	storage := NewNoOpStorageAdapter()

	require.NoError(t, storage.Set("key", "value"))
	value, err := storage.Get("key")
	require.NoError(t, err)
	assert.Empty(t, value, "noop storage never retains anything")
	require.NoError(t, storage.Delete("key"))
}

func TestRedisStorageAdapter(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	storageContract(t, NewRedisStorageAdapter(client, "outlit:"))
}

func TestRedisStorageAdapter_KeyPrefix(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	storage := NewRedisStorageAdapter(client, "outlit:")
	require.NoError(t, storage.Set("visitor", "v-1"))

	value, err := server.Get("outlit:visitor")
	require.NoError(t, err)
	assert.Equal(t, "v-1", value)
}

func TestRedisStorageAdapter_ServerDown(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	storage := NewRedisStorageAdapter(client, "outlit:")
	server.Close()

	_, err := storage.Get("visitor")
	require.Error(t, err)
	require.Error(t, storage.Set("visitor", "v-1"))
}
