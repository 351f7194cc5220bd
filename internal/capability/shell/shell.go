// Package shell implements the shell capability (spec §4.8 "Shell"):
// opening URLs/paths with the OS default handler, revealing a file in the
// system file manager, launching a named application, and executing a
// command line. execute is the only operation here gated by a dedicated
// permission (shell:execute) beyond the module's base shell:* grant —
// enforced at the command-registration layer, not in this package.
//
// Process invocation is grounded in the teacher's exec.CommandContext
// usage (internal/sync/git.go): always pass a context so a caller-supplied
// timeout cancels a hung subprocess, and always capture stdout/stderr
// separately rather than combined.
package shell

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"

	"github.com/krema-build/krema/internal/errors"
)

// ExecuteResult is the shape spec §4.8 promises the frontend: "{code,
// stdout, stderr}".
type ExecuteResult struct {
	Code   int
	Stdout string
	Stderr string
}

// Open launches target (URL or path) with the OS default handler.
func Open(ctx context.Context, target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", target)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	}
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.IO, "open "+target, err)
	}
	return nil
}

// RevealInFileManager shows path selected in the system file manager.
func RevealInFileManager(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", "-R", path)
	case "windows":
		cmd = exec.CommandContext(ctx, "explorer", "/select,", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.IO, "reveal "+path, err)
	}
	return nil
}

// OpenWith launches path using the named application.
func OpenWith(ctx context.Context, appName, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", "-a", appName, path)
	case "windows":
		cmd = exec.CommandContext(ctx, appName, path)
	default:
		cmd = exec.CommandContext(ctx, appName, path)
	}
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.IO, "open "+path+" with "+appName, err)
	}
	return nil
}

// Execute runs name with args, capturing exit code and output separately.
// A non-zero exit is not itself an error — callers inspect Code — but a
// failure to start the process (not found, permission) is.
func Execute(ctx context.Context, name string, args []string) (ExecuteResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ExecuteResult{Stdout: stdout.String(), Stderr: stderr.String()}

	if exitErr, ok := err.(*exec.ExitError); ok {
		result.Code = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return ExecuteResult{}, errors.Wrap(errors.IO, "execute "+name, err)
	}
	result.Code = 0
	return result, nil
}
