package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetState() {
	Close()
	logsDir = ""
	enabled = false
	logLevel = LevelInfo
}

func TestDisabledLoggingIsNoOp(t *testing.T) {
	defer resetState()
	dir := t.TempDir()

	require.NoError(t, Initialize(dir, false, "debug"))
	Get(CategoryGateway).Info("should go nowhere")

	_, err := os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(err))
}

func TestEnabledLoggingWritesCategoryFile(t *testing.T) {
	defer resetState()
	dir := t.TempDir()

	require.NoError(t, Initialize(dir, true, "debug"))
	Get(CategoryGateway).Debug("fetched %d prompts", 3)
	Close()

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)

	var found bool
	for _, e := range entries {
		if strings.Contains(e.Name(), string(CategoryGateway)) {
			data, err := os.ReadFile(filepath.Join(dir, "logs", e.Name()))
			require.NoError(t, err)
			assert.Contains(t, string(data), "fetched 3 prompts")
			found = true
		}
	}
	assert.True(t, found, "expected a gateway log file")
}

func TestLevelFiltering(t *testing.T) {
	defer resetState()
	dir := t.TempDir()

	require.NoError(t, Initialize(dir, true, "error"))
	l := Get(CategoryUI)
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("hidden")
	l.Error("visible")
	Close()

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	for _, e := range entries {
		if !strings.Contains(e.Name(), string(CategoryUI)) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, "logs", e.Name()))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "hidden")
		assert.Contains(t, string(data), "visible")
	}
}
