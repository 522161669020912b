package outlit

import (
	"errors"
	"testing"

	"github.com/outlit/outlit-go/adapters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStorage errors on every call, simulating an unavailable backend.
type failingStorage struct{}

func (failingStorage) Get(string) (string, error) { return "", errors.New("storage down") }
func (failingStorage) Set(string, string) error   { return errors.New("storage down") }
func (failingStorage) Delete(string) error        { return errors.New("storage down") }

func TestConsentStore_Unset(t *testing.T) {
	store := NewConsentStore(adapters.NewMemoryStorageAdapter(), adapters.NewMemoryStorageAdapter(), quietLogger())
	assert.Equal(t, ConsentUnset, store.Get())
}

func TestConsentStore_SetAndGet(t *testing.T) {
	primary := adapters.NewMemoryStorageAdapter()
	fallback := adapters.NewMemoryStorageAdapter()
	store := NewConsentStore(primary, fallback, quietLogger())

	store.Set(true)
	assert.Equal(t, ConsentGranted, store.Get())

	store.Set(false)
	assert.Equal(t, ConsentDenied, store.Get())

	// Both backends hold the decision.
	v, err := primary.Get(consentKey)
	require.NoError(t, err)
	assert.Equal(t, "0", v)
	v, err = fallback.Get(consentKey)
	require.NoError(t, err)
	assert.Equal(t, "0", v)
}

func TestConsentStore_FallbackWhenPrimaryFails(t *testing.T) {
	fallback := adapters.NewMemoryStorageAdapter()
	require.NoError(t, fallback.Set(consentKey, "1"))

	store := NewConsentStore(failingStorage{}, fallback, quietLogger())
	assert.Equal(t, ConsentGranted, store.Get())

	// Writing still succeeds against the surviving backend.
	store.Set(false)
	assert.Equal(t, ConsentDenied, store.Get())
}

func TestConsentStore_FallbackWhenPrimaryEmpty(t *testing.T) {
	primary := adapters.NewMemoryStorageAdapter()
	fallback := adapters.NewMemoryStorageAdapter()
	require.NoError(t, fallback.Set(consentKey, "0"))

	store := NewConsentStore(primary, fallback, quietLogger())
	assert.Equal(t, ConsentDenied, store.Get())
}

func TestConsentStore_BothBackendsDown(t *testing.T) {
	store := NewConsentStore(failingStorage{}, failingStorage{}, quietLogger())
	assert.Equal(t, ConsentUnset, store.Get())
	store.Set(true)
	store.Clear()
}

func TestConsentStore_GarbageValueIsUnset(t *testing.T) {
	primary := adapters.NewMemoryStorageAdapter()
	require.NoError(t, primary.Set(consentKey, "maybe"))

	store := NewConsentStore(primary, adapters.NewMemoryStorageAdapter(), quietLogger())
	assert.Equal(t, ConsentUnset, store.Get())
}

func TestConsentStore_Clear(t *testing.T) {
	primary := adapters.NewMemoryStorageAdapter()
	fallback := adapters.NewMemoryStorageAdapter()
	store := NewConsentStore(primary, fallback, quietLogger())

	store.Set(true)
	store.Clear()
	assert.Equal(t, ConsentUnset, store.Get())
}
