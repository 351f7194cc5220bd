package bundler

import (
	"fmt"

	"github.com/krema-build/krema/internal/errors"
)

func wrapIO(action string, err error) error {
	return errors.Wrap(errors.IO, "bundler: "+action, err)
}

// wrapSubprocess surfaces a failed tool invocation's combined output the
// same way the teacher's git.go does: the output is the most useful part of
// the failure, so it goes in the message rather than just the exit error.
func wrapSubprocess(tool string, output []byte, err error) error {
	return errors.Wrap(errors.HandlerFault, fmt.Sprintf("bundler: %s failed: %s", tool, output), err)
}
