//go:build darwin

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

// New drives NSOpenPanel/NSSavePanel/NSAlert via osascript's "choose
// file"/"display dialog" AppleScript commands, keeping this package free
// of the Cocoa cgo surface host_darwin.go already owns.
func New() Dialogs { return &osDialogs{} }

func run(script string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
	return strings.TrimSpace(string(out)), err
}

func (osDialogs) OpenFile(windowLabel string, opts OpenFileOptions) ([]string, error) {
	script := "POSIX path of (choose file)"
	if opts.Multiple {
		script = "set out to {}\n" +
			"repeat with f in (choose file with multiple selections allowed)\n" +
			"set end of out to POSIX path of (f as alias)\n" +
			"end repeat\n" +
			"set AppleScript's text item delimiters to \", \"\n" +
			"return out as text"
	}
	out, err := run(script)
	if err != nil {
		if isCancel(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.IO, "choose file", err)
	}
	return strings.Split(out, ", "), nil
}

func (osDialogs) SaveFile(windowLabel string, opts SaveFileOptions) (string, error) {
	script := fmt.Sprintf("POSIX path of (choose file name with prompt %q default name %q)", opts.Title, opts.DefaultFileName)
	out, err := run(script)
	if err != nil {
		if isCancel(err) {
			return "", nil
		}
		return "", errors.Wrap(errors.IO, "choose file name", err)
	}
	return out, nil
}

func (osDialogs) SelectFolder(windowLabel string, opts SelectFolderOptions) (string, error) {
	out, err := run("POSIX path of (choose folder)")
	if err != nil {
		if isCancel(err) {
			return "", nil
		}
		return "", errors.Wrap(errors.IO, "choose folder", err)
	}
	return out, nil
}

func (osDialogs) Confirm(windowLabel, title, message string) (bool, error) {
	script := fmt.Sprintf("button returned of (display dialog %q with title %q buttons {\"Cancel\", \"OK\"} default button \"OK\")", message, title)
	out, err := run(script)
	if err != nil {
		if isCancel(err) {
			return false, nil
		}
		return false, errors.Wrap(errors.IO, "display dialog", err)
	}
	return out == "OK", nil
}

func (osDialogs) Prompt(windowLabel, title, message, defaultValue string) (string, bool, error) {
	script := fmt.Sprintf("text returned of (display dialog %q with title %q default answer %q)", message, title, defaultValue)
	out, err := run(script)
	if err != nil {
		if isCancel(err) {
			return "", false, nil
		}
		return "", false, errors.Wrap(errors.IO, "display dialog", err)
	}
	return out, true, nil
}

func (osDialogs) Message(windowLabel, title, message string) error {
	script := fmt.Sprintf("display dialog %q with title %q buttons {\"OK\"} default button \"OK\"", message, title)
	if _, err := run(script); err != nil && !isCancel(err) {
		return errors.Wrap(errors.IO, "display dialog", err)
	}
	return nil
}

func isCancel(err error) bool {
	return strings.Contains(err.Error(), "User canceled") || strings.Contains(err.Error(), "-128")
}
