package platform_test

import (
	"os"
	"testing"

	"github.com/krema-build/krema/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryFileName(t *testing.T) {
	name := platform.LibraryFileName("foo")
	switch platform.Current() {
	case platform.MacOS:
		assert.Equal(t, "libfoo.dylib", name)
	case platform.Windows:
		assert.Equal(t, "foo.dll", name)
	default:
		assert.Equal(t, "libfoo.so", name)
	}
}

func TestConventionalPaths(t *testing.T) {
	p, err := platform.ConventionalPaths("com.krema.demo")
	require.NoError(t, err)
	assert.NotEmpty(t, p.Home)
	assert.Contains(t, p.AppData, "com.krema.demo")
	assert.Contains(t, p.AppConfig, "com.krema.demo")
	assert.Contains(t, p.AppCache, "com.krema.demo")
	assert.Contains(t, p.AppLog, "com.krema.demo")
}

func TestResolveLibraryExhaustsToNotFound(t *testing.T) {
	_, err := platform.ResolveLibrary("definitely-not-a-real-krema-lib", nil)
	require.Error(t, err)
}

func TestResolveLibraryHonorsOverride(t *testing.T) {
	dir := t.TempDir()
	libPath := dir + "/" + platform.LibraryFileName("overridable")
	require.NoError(t, os.WriteFile(libPath, []byte{}, 0o644))

	t.Setenv("KREMA_NATIVE_LIB_OVERRIDABLE", libPath)

	resolved, err := platform.ResolveLibrary("overridable", nil)
	require.NoError(t, err)
	assert.Equal(t, platform.SourceOverride, resolved.Source)
	assert.Equal(t, libPath, resolved.Path)
}
