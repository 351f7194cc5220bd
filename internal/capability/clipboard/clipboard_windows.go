//go:build windows

package clipboard

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/krema-build/krema/internal/errors"
)

type osClipboard struct{}

// New returns the platform clipboard backend. PowerShell's Get-Clipboard/
// Set-Clipboard cmdlets are used instead of raw OpenClipboard/
// SetClipboardData Win32 calls — host_windows.go already reserves the
// syscall/COM route for WebView2's own ABI; clipboard access doesn't need
// that level of ceremony when the shell exposes it directly.
func New() Clipboard { return &osClipboard{} }

func (osClipboard) WriteText(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", "Set-Clipboard", "-Value", text)
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.TransientSystem, "Set-Clipboard", err)
	}
	return nil
}

func (osClipboard) ReadText() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", "Get-Clipboard")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(errors.TransientSystem, "Get-Clipboard", err)
	}
	return strings.TrimRight(out.String(), "\r\n"), nil
}

func (c *osClipboard) HasText() (bool, error) {
	text, err := c.ReadText()
	if err != nil {
		return false, err
	}
	return text != "", nil
}

func (osClipboard) HasImage() (bool, error) { return false, nil }

func (c *osClipboard) AvailableFormats() ([]string, error) {
	if ok, _ := c.HasText(); ok {
		return []string{"text/plain"}, nil
	}
	return nil, nil
}
