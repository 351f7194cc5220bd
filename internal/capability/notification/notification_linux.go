//go:build linux

package notification

import (
	"context"
	"os/exec"
	"time"

	"github.com/krema-build/krema/internal/errors"
)

type osNotifier struct{}

// New drives libnotify via notify-send, the conventional non-cgo route on
// Linux desktops (same rationale as clipboard_linux.go: avoids importing
// internal/host's GTK cgo bindings into this package).
func New() Notifier { return &osNotifier{} }

func (osNotifier) Show(opts Options) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	args := []string{opts.Title, opts.Body}
	if err := exec.CommandContext(ctx, "notify-send", args...).Run(); err != nil {
		if _, lookErr := exec.LookPath("notify-send"); lookErr != nil {
			return errors.E(errors.Unsupported, "notify-send not available")
		}
		return errors.Wrap(errors.TransientSystem, "notify-send", err)
	}
	return nil
}
