package securestorage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *fileStore {
	t.Helper()
	return &fileStore{path: filepath.Join(t.TempDir(), "secure.json"), service: "com.krema.test"}
}

func TestFileStoreSetGetRoundTrip(t *testing.T) {
	s := newTestFileStore(t)
	require.NoError(t, s.Set("token", "s3cret"))

	value, ok, err := s.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "s3cret", value)
}

func TestFileStoreGetMissingKeyReportsNotOK(t *testing.T) {
	s := newTestFileStore(t)
	value, ok, err := s.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestFileStoreDeleteRemovesEntry(t *testing.T) {
	s := newTestFileStore(t)
	require.NoError(t, s.Set("token", "s3cret"))
	require.NoError(t, s.Delete("token"))

	ok, err := s.Has("token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secure.json")

	first := &fileStore{path: path, service: "com.krema.test"}
	require.NoError(t, first.Set("token", "s3cret"))

	second := &fileStore{path: path, service: "com.krema.test"}
	value, ok, err := second.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "s3cret", value)
}

func TestFileStoreOverwriteReplacesValue(t *testing.T) {
	s := newTestFileStore(t)
	require.NoError(t, s.Set("token", "first"))
	require.NoError(t, s.Set("token", "second"))

	value, ok, err := s.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}
