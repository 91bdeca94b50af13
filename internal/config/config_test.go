package config

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/budget-buddy/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BUDGET_TEST_FROM_FILE=loaded\nBUDGET_TEST_PRESET=file\n"), 0600))

	t.Setenv("BUDGET_TEST_PRESET", "process")
	t.Cleanup(func() { _ = os.Unsetenv("BUDGET_TEST_FROM_FILE") })

	logger := &logging.MockLogger{}
	loaded := LoadEnv(logger, filepath.Join(dir, "missing.env"), envFile)

	assert.Equal(t, envFile, loaded)
	assert.Equal(t, "loaded", os.Getenv("BUDGET_TEST_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("BUDGET_TEST_PRESET"), "process environment wins")
	assert.True(t, logger.HasEntry("DEBUG", "Loaded environment variables"))
}

func TestLoadEnv_NoFile(t *testing.T) {
	logger := &logging.MockLogger{}
	loaded := LoadEnv(logger, filepath.Join(t.TempDir(), ".env"))

	assert.Empty(t, loaded)
	assert.True(t, logger.HasEntry("DEBUG", "No .env file found, using environment variables"))
}

func TestLoadEnv_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LoadEnv(nil, filepath.Join(t.TempDir(), ".env"))
	})
}
