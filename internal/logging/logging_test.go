package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenedit/internal/config"
)

func TestNewWithoutFileIsNop(t *testing.T) {
	log, err := New(config.LoggingConfig{Level: "debug"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1))
}

func TestNewWritesToFile(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"console", "scene saved"},
		{"json", `"msg":"scene saved"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scenedit.log")
			log, err := New(config.LoggingConfig{Level: "debug", Format: tt.format, File: path})
			require.NoError(t, err)

			log.Info("scene saved")
			log.Debug("debug line")
			_ = log.Sync()

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
			assert.Contains(t, string(data), "debug line")
		})
	}
}

func TestNewBadLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenedit.log")
	log, err := New(config.LoggingConfig{Level: "loud", File: path})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("shown")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}
