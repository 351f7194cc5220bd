//go:build windows

package notification

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/krema-build/krema/internal/errors"
)

type osNotifier struct{}

// New shows each notification as a WScript.Shell Popup message box run
// through PowerShell, with the body as its text and the title as its
// caption. This is a modal message box, not an Action Center toast or a
// tray balloon, and Options.Sound is not used.
func New() Notifier { return &osNotifier{} }

func (osNotifier) Show(opts Options) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	script := fmt.Sprintf(`
$obj = New-Object -ComObject WScript.Shell
$obj.Popup(%q, 0, %q, 0x40)
`, opts.Body, opts.Title)
	if err := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", script).Run(); err != nil {
		return errors.Wrap(errors.TransientSystem, "toast notification", err)
	}
	return nil
}
