package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/krema-build/krema/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseManifest = `
[package]
name = "Demo"
version = "0.1.0"
identifier = "com.krema.demo"
description = "A demo app"

[window]
title = "Demo"
width = 800
height = 600
resizable = true

[build]
frontend_dev_url = "http://localhost:1420"

[permissions]
allow = ["fs:read"]

[env.staging]
[env.staging.window]
title = "Demo (staging)"
width = 800
height = 600

[env.staging.permissions]
allow = ["fs:read", "fs:write"]
`

func writeManifest(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "krema.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadBaseManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, baseManifest)

	cfg, err := config.Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "Demo", cfg.Package.Name)
	assert.Equal(t, "com.krema.demo", cfg.Package.Identifier)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, []string{"fs:read"}, cfg.Permissions.Allow)
}

func TestLoadProfileOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, baseManifest)

	cfg, err := config.Load(path, "staging")
	require.NoError(t, err)
	assert.Equal(t, "Demo (staging)", cfg.Window.Title)
	assert.Equal(t, []string{"fs:read", "fs:write"}, cfg.Permissions.Allow)
}

func TestLoadMissingRequiredField(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "Demo"
`)
	_, err := config.Load(path, "")
	require.Error(t, err)
}

func TestParseEnv(t *testing.T) {
	vars := config.ParseEnv("# comment\nFOO=bar\nBAZ=\"quoted value\"\nEMPTY=\n")
	assert.Equal(t, "bar", vars["FOO"])
	assert.Equal(t, "quoted value", vars["BAZ"])
	assert.Equal(t, "", vars["EMPTY"])
}

func TestEnvFileProfileOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, baseManifest)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(cwd) }()

	require.NoError(t, os.WriteFile(".env", []byte("KREMA_WINDOW_TITLE=BaseEnvTitle\n"), 0o644))
	require.NoError(t, os.WriteFile(".env.staging", []byte("KREMA_WINDOW_TITLE=StagingEnvTitle\n"), 0o644))

	cfg, err := config.Load(path, "staging")
	require.NoError(t, err)
	assert.Equal(t, "StagingEnvTitle", cfg.Window.Title)
}
