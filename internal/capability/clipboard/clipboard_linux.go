//go:build linux

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

// New returns the platform clipboard backend, shelling out to xclip (X11)
// or wl-copy/wl-paste (Wayland) depending on which is on PATH — GTK/GDK's
// own clipboard API would require this package to depend on the cgo GTK
// bindings internal/host already carries, which would create an import
// cycle; the teacher's own exec.CommandContext subprocess pattern avoids
// that entirely.
func New() Clipboard {
	if _, err := exec.LookPath("wl-copy"); err == nil {
		return &wlClipboard{}
	}
	return &xclipClipboard{}
}

type xclipClipboard struct{}

func (xclipClipboard) WriteText(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "xclip", "-selection", "clipboard")
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.TransientSystem, "xclip", err)
	}
	return nil
}

func (xclipClipboard) ReadText() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "xclip", "-selection", "clipboard", "-o")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(errors.TransientSystem, "xclip", err)
	}
	return out.String(), nil
}

func (c xclipClipboard) HasText() (bool, error) {
	text, err := c.ReadText()
	return text != "", err
}

func (xclipClipboard) HasImage() (bool, error) { return false, nil }

func (c xclipClipboard) AvailableFormats() ([]string, error) {
	if ok, _ := c.HasText(); ok {
		return []string{"text/plain"}, nil
	}
	return nil, nil
}

type wlClipboard struct{}

func (wlClipboard) WriteText(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "wl-copy")
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.TransientSystem, "wl-copy", err)
	}
	return nil
}

func (wlClipboard) ReadText() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "wl-paste", "--no-newline")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(errors.TransientSystem, "wl-paste", err)
	}
	return out.String(), nil
}

func (c wlClipboard) HasText() (bool, error) {
	text, err := c.ReadText()
	return text != "", err
}

func (wlClipboard) HasImage() (bool, error) { return false, nil }

func (c wlClipboard) AvailableFormats() ([]string, error) {
	if ok, _ := c.HasText(); ok {
		return []string{"text/plain"}, nil
	}
	return nil, nil
}
