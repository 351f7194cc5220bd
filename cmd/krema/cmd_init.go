package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/krema-build/krema/internal/config"
)

// defaultManifest is the starter krema.toml a new project gets. Per the
// spec's Non-goals, init's job stops at this file: an interactive prompter
// or project-template generator is out of scope, left to external tooling.
const defaultManifest = `[package]
name = "my-app"
version = "0.1.0"
identifier = "com.example.my-app"

[window]
title = "My App"
width = 1024
height = 768
resizable = true
decorations = true

[build]
frontend_dev_command = ""
frontend_dev_url = "http://localhost:5173"
frontend_command = ""
out_dir = "dist"
assets_path = "dist"

[bundle]
identifier = "com.example.my-app"

[permissions]
allow = ["fs:read", "dialog:open", "clipboard:read", "clipboard:write"]

[deep-link]
schemes = []

[updater]
endpoints = []
`

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter krema.toml manifest in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ManifestFileName
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(defaultManifest), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			abs, _ := filepath.Abs(path)
			fmt.Printf("wrote %s\n", abs)
			return nil
		},
	}
}
