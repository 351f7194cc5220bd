//go:build darwin

package notification

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/krema-build/krema/internal/errors"
)

type osNotifier struct{}

// New drives UNUserNotificationCenter via osascript's "display
// notification" AppleScript command — avoids pulling the Cocoa cgo surface
// into a package host_darwin.go doesn't otherwise need to share.
func New() Notifier { return &osNotifier{} }

func (osNotifier) Show(opts Options) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	script := fmt.Sprintf("display notification %q with title %q", opts.Body, opts.Title)
	if opts.Sound {
		script += ` sound name "default"`
	}
	if err := exec.CommandContext(ctx, "osascript", "-e", script).Run(); err != nil {
		return errors.Wrap(errors.TransientSystem, "display notification", err)
	}
	return nil
}
