package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// runShellLine wraps a shell command string from krema.toml's
// frontend_command / frontend_dev_command the way npm scripts expect to be
// invoked: through the platform shell, with stdio inherited so the
// frontend tool's own output streams straight to the terminal.
func runShellLine(line string) *exec.Cmd {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", line)
	} else {
		cmd = exec.Command("sh", "-c", line)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd
}

// runFrontendStep runs line to completion, used by `build` where the
// frontend command must finish (and succeed) before the host compiles.
func runFrontendStep(line string) error {
	if line == "" {
		return nil
	}
	if err := runShellLine(line).Run(); err != nil {
		return fmt.Errorf("frontend command %q: %w", line, err)
	}
	return nil
}

// startFrontendBackground starts line without waiting, used by `dev` where
// the frontend dev server keeps running alongside the host.
func startFrontendBackground(line string) (*exec.Cmd, error) {
	if line == "" {
		return nil, nil
	}
	cmd := runShellLine(line)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start frontend command %q: %w", line, err)
	}
	return cmd, nil
}

// stopProcess terminates a process started with Start, tolerating one that
// already exited on its own.
func stopProcess(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
	_, _ = cmd.Process.Wait()
}

// buildHostBinary compiles this module's own cmd/krema package into outPath.
// "Building the host" and "building krema itself" are the same invocation,
// since the compiled krema binary is what embeds the webview and runs as
// the application (see runHost in app.go).
func buildHostBinary(outPath string) error {
	cmd := exec.Command("go", "build", "-o", outPath, "./cmd/krema")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build ./cmd/krema: %w", err)
	}
	return nil
}

// hostBinaryName returns the conventional compiled binary name for
// identifier, adding the platform executable suffix.
func hostBinaryName(identifier string) string {
	if runtime.GOOS == "windows" {
		return identifier + ".exe"
	}
	return identifier
}

func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
