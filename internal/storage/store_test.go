package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir(), false)
	require.True(t, s.Available())
	assert.Equal(t, "file", s.Kind())

	require.NoError(t, s.Set(SessionKey, []byte(`{"totalDuration":180}`)))

	data, err := s.Get(SessionKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalDuration":180}`, string(data))
}

func TestFileStoreMissingKey(t *testing.T) {
	s := NewFileStore(t.TempDir(), false)

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreRemove(t *testing.T) {
	s := NewFileStore(t.TempDir(), false)

	require.NoError(t, s.Set("k", []byte("v")))
	require.NoError(t, s.Remove("k"))

	_, err := s.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)

	// Removing a missing key is not an error
	assert.NoError(t, s.Remove("k"))
}

func TestFileStoreCompression(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, true)

	payload := []byte(`{"timelineEntries":[],"activities":[],"version":1}`)
	require.NoError(t, s.Set(RecoveryKey, payload))

	data, err := s.Get(RecoveryKey)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	// A plain store reading the same dir must still decompress
	plain := NewFileStore(dir, false)
	data, err = plain.Get(RecoveryKey)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestMemStoreRoundTrip(t *testing.T) {
	s := NewMemStore()
	require.True(t, s.Available())
	assert.Equal(t, "memory", s.Kind())

	require.NoError(t, s.Set("k", []byte("v")))

	data, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)

	require.NoError(t, s.Remove("k"))
	_, err = s.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreCopiesValues(t *testing.T) {
	s := NewMemStore()

	value := []byte("original")
	require.NoError(t, s.Set("k", value))
	value[0] = 'X'

	data, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)
}

func TestNopStore(t *testing.T) {
	s := Nop()

	assert.False(t, s.Available())
	assert.Equal(t, "none", s.Kind())
	assert.NoError(t, s.Set("k", []byte("v")))

	_, err := s.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewPrefersFileStore(t *testing.T) {
	s := New(t.TempDir(), false)
	assert.Equal(t, "file", s.Kind())
}
