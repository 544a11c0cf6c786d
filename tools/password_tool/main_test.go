package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysdash/internal/config"
	"sysdash/internal/middleware"
)

func TestSetPasswordEnablesAuth(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultFileName)

	require.NoError(t, setPassword(path, "correct horse"))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.AuthEnabled)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.True(t, middleware.CheckPassword("correct horse", cfg.AccessPasswordHash))

	require.NoError(t, disableAuth(path))
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.AuthEnabled)
	assert.Empty(t, cfg.AccessPasswordHash)
}

func TestResolvePasswordLength(t *testing.T) {
	_, err := resolvePassword("short")
	assert.Error(t, err)

	pwd, err := resolvePassword("  long enough  ")
	require.NoError(t, err)
	assert.Equal(t, "long enough", pwd)
}
