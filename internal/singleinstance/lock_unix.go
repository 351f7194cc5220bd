//go:build !windows

package singleinstance

import (
	"os"
	"syscall"

	"github.com/krema-build/krema/internal/errors"
)

// lockFile holds an flock(2)'d file descriptor open for the process
// lifetime; the lock is released automatically if the process dies, which
// is what makes flock preferable here to a PID file a crashed process
// could leave stale.
type lockFile struct {
	file *os.File
}

// acquireLock tries to take an exclusive, non-blocking flock on path.
// acquired is false (with no error) when another process already holds it.
func acquireLock(path string) (*lockFile, bool, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, false, errors.Wrap(errors.IO, "open single-instance lock file", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		if err == syscall.EWOULDBLOCK {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(errors.IO, "flock single-instance lock file", err)
	}

	return &lockFile{file: file}, true, nil
}

func (l *lockFile) release() {
	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	_ = l.file.Close()
}
