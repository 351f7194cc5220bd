package shell_test

import (
	"context"
	"testing"

	"github.com/krema-build/krema/internal/capability/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteCapturesStdout(t *testing.T) {
	result, err := shell.Execute(context.Background(), "echo", []string{"hello"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Code)
	assert.Contains(t, result.Stdout, "hello")
}

func TestExecuteNonZeroExitIsNotAnError(t *testing.T) {
	result, err := shell.Execute(context.Background(), "sh", []string{"-c", "exit 3"})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Code)
}

func TestExecuteMissingBinaryIsError(t *testing.T) {
	_, err := shell.Execute(context.Background(), "definitely-not-a-real-binary-xyz", nil)
	require.Error(t, err)
}
