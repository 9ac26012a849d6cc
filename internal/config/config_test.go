package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
save_directory = "`+filepath.ToSlash(dir)+`"

[grid]
visible = false
size = 0
snap = true

[view]
cell_width = 8

[logging]
level = "debug"
file = "scenedit.log"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.SaveDirectory)
	assert.False(t, cfg.Grid.Visible)
	assert.Equal(t, 1, cfg.Grid.Size, "grid size is clamped")
	assert.True(t, cfg.Grid.Snap)
	assert.Equal(t, 8, cfg.View.CellWidth)
	assert.Equal(t, 20, cfg.View.CellHeight, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "scenedit.log", cfg.Logging.File)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[grid\nsize = "), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCENEDIT_GRID_SIZE", "32")
	t.Setenv("SCENEDIT_GRID_SNAP", "true")
	t.Setenv("SCENEDIT_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Grid.Size)
	assert.True(t, cfg.Grid.Snap)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestGetSavePath(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "scene.json", cfg.GetSavePath("scene.json"))

	dir := filepath.Join(t.TempDir(), "scenes")
	cfg.SaveDirectory = dir
	assert.Equal(t, filepath.Join(dir, "scene.json"), cfg.GetSavePath("scene.json"))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	abs := filepath.Join(t.TempDir(), "elsewhere.json")
	assert.Equal(t, abs, cfg.GetSavePath(abs))
}
