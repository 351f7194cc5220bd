//go:build linux

package dialog

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/krema-build/krema/internal/errors"
)

type osDialogs struct{}

// New drives GTK's native file/message dialogs via zenity, the
// conventional choice on Linux desktops that keeps this package free of
// internal/host's GTK cgo bindings (same rationale as clipboard_linux.go).
func New() Dialogs { return &osDialogs{} }

func zenity(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	out, err := exec.CommandContext(ctx, "zenity", args...).Output()
	return strings.TrimRight(string(out), "\n"), err
}

func isCancel(err error) bool {
	exitErr, ok := err.(*exec.ExitError)
	return ok && exitErr.ExitCode() == 1
}

func (osDialogs) OpenFile(windowLabel string, opts OpenFileOptions) ([]string, error) {
	args := []string{"--file-selection", "--title=" + opts.Title}
	if opts.Multiple {
		args = append(args, "--multiple", "--separator=\n")
	}
	out, err := zenity(args...)
	if err != nil {
		if isCancel(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.IO, "zenity file-selection", err)
	}
	return strings.Split(out, "\n"), nil
}

func (osDialogs) SaveFile(windowLabel string, opts SaveFileOptions) (string, error) {
	out, err := zenity("--file-selection", "--save", "--title="+opts.Title, "--filename="+opts.DefaultFileName)
	if err != nil {
		if isCancel(err) {
			return "", nil
		}
		return "", errors.Wrap(errors.IO, "zenity save", err)
	}
	return out, nil
}

func (osDialogs) SelectFolder(windowLabel string, opts SelectFolderOptions) (string, error) {
	out, err := zenity("--file-selection", "--directory", "--title="+opts.Title)
	if err != nil {
		if isCancel(err) {
			return "", nil
		}
		return "", errors.Wrap(errors.IO, "zenity directory", err)
	}
	return out, nil
}

func (osDialogs) Confirm(windowLabel, title, message string) (bool, error) {
	_, err := zenity("--question", "--title="+title, "--text="+message)
	if err != nil {
		if isCancel(err) {
			return false, nil
		}
		return false, errors.Wrap(errors.IO, "zenity question", err)
	}
	return true, nil
}

func (osDialogs) Prompt(windowLabel, title, message, defaultValue string) (string, bool, error) {
	out, err := zenity("--entry", "--title="+title, "--text="+message, "--entry-text="+defaultValue)
	if err != nil {
		if isCancel(err) {
			return "", false, nil
		}
		return "", false, errors.Wrap(errors.IO, "zenity entry", err)
	}
	return out, true, nil
}

func (osDialogs) Message(windowLabel, title, message string) error {
	_, err := zenity("--info", "--title="+title, "--text="+message)
	if err != nil && !isCancel(err) {
		return errors.Wrap(errors.IO, "zenity info", err)
	}
	return nil
}
