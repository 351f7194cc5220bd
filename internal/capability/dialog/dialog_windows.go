//go:build windows

package dialog

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/krema-build/krema/internal/errors"
)

type osDialogs struct{}

// New drives System.Windows.Forms' common dialogs via PowerShell, the
// same subprocess-over-syscall tradeoff host_windows.go makes for message
// pumping: no cgo toolchain assumption on the build machine.
func New() Dialogs { return &osDialogs{} }

func powershell(script string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	out, err := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", script).Output()
	return strings.TrimSpace(string(out)), err
}

func (osDialogs) OpenFile(windowLabel string, opts OpenFileOptions) ([]string, error) {
	multi := "$false"
	if opts.Multiple {
		multi = "$true"
	}
	script := fmt.Sprintf(`
Add-Type -AssemblyName System.Windows.Forms
$d = New-Object System.Windows.Forms.OpenFileDialog
$d.Multiselect = %s
if ($d.ShowDialog() -eq 'OK') { $d.FileNames -join "` + "`n" + `" }
`, multi)
	out, err := powershell(script)
	if err != nil {
		return nil, errors.Wrap(errors.IO, "OpenFileDialog", err)
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

func (osDialogs) SaveFile(windowLabel string, opts SaveFileOptions) (string, error) {
	script := fmt.Sprintf(`
Add-Type -AssemblyName System.Windows.Forms
$d = New-Object System.Windows.Forms.SaveFileDialog
$d.FileName = %q
if ($d.ShowDialog() -eq 'OK') { $d.FileName }
`, opts.DefaultFileName)
	out, err := powershell(script)
	if err != nil {
		return "", errors.Wrap(errors.IO, "SaveFileDialog", err)
	}
	return out, nil
}

func (osDialogs) SelectFolder(windowLabel string, opts SelectFolderOptions) (string, error) {
	script := `
Add-Type -AssemblyName System.Windows.Forms
$d = New-Object System.Windows.Forms.FolderBrowserDialog
if ($d.ShowDialog() -eq 'OK') { $d.SelectedPath }
`
	out, err := powershell(script)
	if err != nil {
		return "", errors.Wrap(errors.IO, "FolderBrowserDialog", err)
	}
	return out, nil
}

func (osDialogs) Confirm(windowLabel, title, message string) (bool, error) {
	script := fmt.Sprintf(`
Add-Type -AssemblyName System.Windows.Forms
$r = [System.Windows.Forms.MessageBox]::Show(%q, %q, 'OKCancel')
$r
`, message, title)
	out, err := powershell(script)
	if err != nil {
		return false, errors.Wrap(errors.IO, "MessageBox", err)
	}
	return out == "OK", nil
}

func (osDialogs) Prompt(windowLabel, title, message, defaultValue string) (string, bool, error) {
	script := fmt.Sprintf(`
Add-Type -AssemblyName Microsoft.VisualBasic
[Microsoft.VisualBasic.Interaction]::InputBox(%q, %q, %q)
`, message, title, defaultValue)
	out, err := powershell(script)
	if err != nil {
		return "", false, errors.Wrap(errors.IO, "InputBox", err)
	}
	if out == "" {
		return "", false, nil
	}
	return out, true, nil
}

func (osDialogs) Message(windowLabel, title, message string) error {
	script := fmt.Sprintf(`
Add-Type -AssemblyName System.Windows.Forms
[System.Windows.Forms.MessageBox]::Show(%q, %q) | Out-Null
`, message, title)
	if _, err := powershell(script); err != nil {
		return errors.Wrap(errors.IO, "MessageBox", err)
	}
	return nil
}
