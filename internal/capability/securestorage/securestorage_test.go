package securestorage_test

import (
	"testing"

	"github.com/krema-build/krema/internal/capability/securestorage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore pins down securestorage.Store's contract independent of any
// platform backend: Get on an absent key must report ok=false, not an
// error (spec §8 round-trip law).
type fakeStore struct {
	entries map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]string{}}
}

func (f *fakeStore) Set(key, value string) error {
	f.entries[key] = value
	return nil
}

func (f *fakeStore) Get(key string) (string, bool, error) {
	v, ok := f.entries[key]
	return v, ok, nil
}

func (f *fakeStore) Has(key string) (bool, error) {
	_, ok := f.entries[key]
	return ok, nil
}

func (f *fakeStore) Delete(key string) error {
	delete(f.entries, key)
	return nil
}

var _ securestorage.Store = (*fakeStore)(nil)

func TestSetThenGetRoundTrips(t *testing.T) {
	s := newFakeStore()
	require.NoError(t, s.Set("api-token", "abc123"))

	value, ok, err := s.Get("api-token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", value)
}

func TestGetAbsentKeyIsNotAnError(t *testing.T) {
	s := newFakeStore()
	value, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestDeleteThenHasReportsFalse(t *testing.T) {
	s := newFakeStore()
	require.NoError(t, s.Set("api-token", "abc123"))
	require.NoError(t, s.Delete("api-token"))

	ok, err := s.Has("api-token")
	require.NoError(t, err)
	assert.False(t, ok)
}
