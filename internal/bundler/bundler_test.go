package bundler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krema-build/krema/internal/errors"
)

func writeFakeBinary(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "app-binary")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho fake\n"), 0o755))
	return path
}

func baseConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		AppName:    "Krema Demo",
		Identifier: "com.krema.demo",
		Version:    "1.2.3",
		BinaryPath: writeFakeBinary(t, dir),
		OutDir:     filepath.Join(dir, "dist"),
		DeepLinks:  []string{"kremademo"},
	}
}

func TestBundleMacOSProducesExpectedLayout(t *testing.T) {
	cfg := baseConfig(t)
	result, err := BundleMacOS(cfg)
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(result.OutputPath, "Contents", "MacOS"))
	assert.FileExists(t, filepath.Join(result.OutputPath, "Contents", "MacOS", cfg.AppName))
	assert.FileExists(t, filepath.Join(result.OutputPath, "Contents", "Info.plist"))

	plist, err := os.ReadFile(filepath.Join(result.OutputPath, "Contents", "Info.plist"))
	require.NoError(t, err)
	assert.Contains(t, string(plist), "com.krema.demo")
	assert.Contains(t, string(plist), "kremademo")
}

func TestBundleMacOSSkipsSigningWithoutAnIdentity(t *testing.T) {
	cfg := baseConfig(t)
	_, err := BundleMacOS(cfg)
	require.NoError(t, err)
}

func TestBundleWindowsWritesExeAndProtocolScripts(t *testing.T) {
	cfg := baseConfig(t)
	result, err := BundleWindows(cfg)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(result.OutputPath, cfg.AppName+".exe"))
	require.Len(t, result.GeneratedScripts, 2)
	for _, script := range result.GeneratedScripts {
		assert.FileExists(t, script)
	}

	regContent, err := os.ReadFile(filepath.Join(result.OutputPath, "register-kremademo.reg"))
	require.NoError(t, err)
	assert.Contains(t, string(regContent), "kremademo")
}

func TestBundleLinuxProducesAppDirWithDesktopEntry(t *testing.T) {
	cfg := baseConfig(t)
	result, err := BundleLinux(cfg)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(result.OutputPath, "AppRun"))
	assert.FileExists(t, filepath.Join(result.OutputPath, "usr", "bin", cfg.AppName))

	desktop, err := os.ReadFile(filepath.Join(result.OutputPath, cfg.Identifier+".desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(desktop), "x-scheme-handler/kremademo")

	require.Len(t, result.GeneratedScripts, 1)
	assert.FileExists(t, result.GeneratedScripts[0])
}

func TestBundleRejectsConfigMissingRequiredFields(t *testing.T) {
	_, err := BundleMacOS(Config{})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.ConfigInvalid))
}
