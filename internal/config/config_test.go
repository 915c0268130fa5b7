package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "alumni.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.Anthropic.Model)
	assert.Equal(t, int64(2048), cfg.Anthropic.MaxTokens)
	assert.Equal(t, "au", cfg.Serper.Country)
	assert.Equal(t, 10, cfg.Search.MaxSnippets)
	assert.Equal(t, 20, cfg.Search.CallTimeoutSecs)
	assert.InDelta(t, 2.0, cfg.Search.RatePerSecond, 0.001)
	assert.InDelta(t, 0.5, cfg.Extract.ConfidenceFloor, 0.001)
	assert.InDelta(t, 0.1, cfg.Extract.Temperature, 0.001)
	assert.Equal(t, 90, cfg.Schedule.ImmediateAgeDays)
	assert.InDelta(t, 0.3, cfg.Schedule.ImmediateConfidence, 0.001)
	assert.Equal(t, 30, cfg.Schedule.ShouldAgeDays)
	assert.InDelta(t, 0.6, cfg.Schedule.ShouldConfidence, 0.001)
	assert.Equal(t, 7, cfg.Schedule.CanAgeDays)
	assert.Equal(t, 3, cfg.Batch.MaxConcurrentNames)
	assert.Equal(t, 120, cfg.Batch.NameBudgetSecs)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/alumni
log:
  level: debug
  format: console
server:
  port: 9090
batch:
  max_concurrent_names: 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Batch.MaxConcurrentNames)
	// Defaults still apply for unset values
	assert.Equal(t, 10, cfg.Search.MaxSnippets)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("ALUMNI_STORE_DRIVER", "postgres")
	t.Setenv("ALUMNI_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	require.Error(t, err)
}
