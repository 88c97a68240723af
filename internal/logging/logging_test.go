package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesToRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy.log")

	logger, err := New(Options{Level: "debug", Format: "json", File: FileOptions{Filename: path}})
	require.NoError(t, err)

	logger.Debug("upstream call", zap.String("endpoint", "search"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"upstream call"`)
	assert.Contains(t, string(data), `"endpoint":"search"`)
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy.log")

	logger, err := New(Options{Level: "warn", File: FileOptions{Filename: path}})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNew_Console(t *testing.T) {
	logger, err := New(Options{Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
