package fs_test

import (
	"path/filepath"
	"testing"

	kfs "github.com/krema-build/krema/internal/capability/fs"
	"github.com/krema-build/krema/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.txt")

	require.NoError(t, kfs.WriteTextFile(path, "hi"))
	assert.True(t, kfs.Exists(path))

	got, err := kfs.ReadTextFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hi", got)

	st, err := kfs.StatFile(path)
	require.NoError(t, err)
	assert.EqualValues(t, len("hi"), st.Size)
	assert.False(t, st.IsDir)
}

func TestReadMissingFileReturnsIOKind(t *testing.T) {
	_, err := kfs.ReadTextFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.IO))
}

func TestRemoveDeletesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.txt")
	require.NoError(t, kfs.WriteTextFile(path, "x"))
	require.NoError(t, kfs.Remove(path))
	assert.False(t, kfs.Exists(path))
}

func TestExistsFalseForMissingPath(t *testing.T) {
	assert.False(t, kfs.Exists(filepath.Join(t.TempDir(), "missing")))
}
