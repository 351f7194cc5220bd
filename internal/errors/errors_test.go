package errors_test

import (
	"testing"

	"github.com/krema-build/krema/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWireFormat(t *testing.T) {
	err := errors.E(errors.BadRequest, "division by zero")
	assert.Equal(t, "BadRequest: division by zero", err.Error())
}

func TestErrorWireFormatNoMessage(t *testing.T) {
	err := errors.E(errors.ShuttingDown, "")
	assert.Equal(t, "ShuttingDown", err.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.E(errors.IO, "disk full")
	err := errors.Wrap(errors.HandlerFault, "write failed", cause)
	require.ErrorIs(t, err, cause)
	assert.Same(t, cause, err.Unwrap())
}

func TestIsKind(t *testing.T) {
	err := errors.E(errors.PermissionDenied, "fs:write")
	assert.True(t, errors.IsKind(err, errors.PermissionDenied))
	assert.False(t, errors.IsKind(err, errors.BadRequest))
	assert.False(t, errors.IsKind(nil, errors.BadRequest))
}

func TestRetryable(t *testing.T) {
	assert.True(t, errors.Retryable(errors.E(errors.TransientSystem, "busy")))
	assert.True(t, errors.Retryable(errors.E(errors.Timeout, "slow")))
	assert.False(t, errors.Retryable(errors.E(errors.BadRequest, "nope")))
	assert.False(t, errors.Retryable(assertPlainError{}))
}

type assertPlainError struct{}

func (assertPlainError) Error() string { return "plain" }
