package logger_test

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/krema-build/krema/internal/logger"
	"github.com/stretchr/testify/require"
)

func TestInitializeWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	closer, err := logger.Initialize(logger.Options{
		AppName:    "krema-demo",
		AppVersion: "0.1.0",
		Level:      "info",
		LogDir:     dir,
	})
	require.NoError(t, err)
	defer closer()

	logger.Log.Info().Msg("hello")

	f, err := os.Open(filepath.Join(dir, "app.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lastLine string
	for scanner.Scan() {
		lastLine = scanner.Text()
	}
	require.NotEmpty(t, lastLine)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lastLine), &record))
	require.Equal(t, "krema-demo", record["appName"])
	require.Equal(t, "0.1.0", record["appVersion"])
	require.Contains(t, record, "sessionId")
	require.Contains(t, record, "timestamp")
}
