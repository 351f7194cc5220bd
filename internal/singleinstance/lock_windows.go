//go:build windows

package singleinstance

import (
	"strings"
	"syscall"
	"unsafe"

	"github.com/krema-build/krema/internal/errors"
)

// lockFile wraps a named Win32 mutex (mirrors the syscall.NewLazyDLL /
// raw Win32 call idiom used throughout host_windows.go, tray_windows.go
// and shortcut_windows.go): CreateMutexW both creates and, if another
// process already owns the name, atomically reports ERROR_ALREADY_EXISTS
// via GetLastError, giving single-instance detection without a separate
// file-based handshake.
type lockFile struct {
	handle syscall.Handle
}

const errorAlreadyExists = 183

var kernel32 = syscall.NewLazyDLL("kernel32.dll")

func acquireLock(path string) (*lockFile, bool, error) {
	// The mutex name must be unique per app but contain no backslashes;
	// the lock file path (already namespaced under the app's config dir)
	// is repurposed as the name rather than inventing a second identifier.
	name := "Local\\krema-" + strings.ReplaceAll(path, "\\", "-")
	namePtr, err := syscall.UTF16PtrFromString(name)
	if err != nil {
		return nil, false, errors.Wrap(errors.IO, "encode single-instance mutex name", err)
	}

	createMutex := kernel32.NewProc("CreateMutexW")
	ret, _, lastErr := createMutex.Call(0, 0, uintptr(unsafe.Pointer(namePtr)))
	if ret == 0 {
		return nil, false, errors.Wrap(errors.IO, "create single-instance mutex", lastErr)
	}

	handle := syscall.Handle(ret)
	if lastErr == syscall.Errno(errorAlreadyExists) {
		syscall.CloseHandle(handle)
		return nil, false, nil
	}

	return &lockFile{handle: handle}, true, nil
}

func (l *lockFile) release() {
	_ = syscall.CloseHandle(l.handle)
}
