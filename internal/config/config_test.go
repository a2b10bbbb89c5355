package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from a temp dir so no config.yaml is picked up.
	orig, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(orig) })
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 100, cfg.Search.PageSize)
	assert.Equal(t, 500, cfg.Search.RequestDelayMS)
	assert.Equal(t, 50, cfg.Enrich.BatchSize)
	assert.Equal(t, 10, cfg.Verify.BatchSize)
	assert.Equal(t, 50, cfg.Pipeline.CheckpointInterval)
	assert.Equal(t, "progress.json", cfg.Pipeline.CheckpointPath)
	assert.Equal(t, []string{"602", "480", "623", "520", "928"}, cfg.Region.AreaCodes)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/leads
region:
  area_codes: ["212", "646"]
pipeline:
  workspace_id: ws-123
  checkpoint_interval: 25
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	orig, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(orig) })
	require.NoError(t, os.Chdir(dir))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/leads", cfg.Store.DatabaseURL)
	assert.Equal(t, []string{"212", "646"}, cfg.Region.AreaCodes)
	assert.Equal(t, "ws-123", cfg.Pipeline.WorkspaceID)
	assert.Equal(t, 25, cfg.Pipeline.CheckpointInterval)
	// Untouched defaults survive.
	assert.Equal(t, 100, cfg.Search.PageSize)
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}
