//go:build darwin

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

// New returns the platform clipboard backend, driven by pbcopy/pbpaste —
// the same exec.CommandContext subprocess pattern the teacher uses for its
// git plumbing (internal/sync/git.go), applied here since Cocoa's
// NSPasteboard has no simpler non-cgo Go binding in the pack.
func New() Clipboard { return &osClipboard{} }

func (osClipboard) WriteText(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "pbcopy")
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.TransientSystem, "pbcopy", err)
	}
	return nil
}

func (osClipboard) ReadText() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "pbpaste")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(errors.TransientSystem, "pbpaste", err)
	}
	return out.String(), nil
}

func (c *osClipboard) HasText() (bool, error) {
	text, err := c.ReadText()
	if err != nil {
		return false, err
	}
	return text != "", nil
}

func (osClipboard) HasImage() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "osascript", "-e", `return (the clipboard info) as string`)
	out, err := cmd.Output()
	if err != nil {
		return false, errors.Wrap(errors.TransientSystem, "clipboard info", err)
	}
	return strings.Contains(string(out), "TIFF") || strings.Contains(string(out), "PNG"), nil
}

func (c *osClipboard) AvailableFormats() ([]string, error) {
	hasText, _ := c.HasText()
	hasImage, _ := c.HasImage()
	var formats []string
	if hasText {
		formats = append(formats, "text/plain")
	}
	if hasImage {
		formats = append(formats, "image/png")
	}
	return formats, nil
}
