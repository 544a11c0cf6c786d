package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)

	created, err := Bootstrap(path)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = Bootstrap(path)
	require.NoError(t, err)
	assert.False(t, created, "an existing file is left alone")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5050, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.BindAddress)
	assert.Equal(t, dir, cfg.RootPath)
	assert.Equal(t, 10*time.Second, cfg.GPUProbeTimeout())
	assert.False(t, cfg.PopulateIPAddresses)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.config")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": 9000, "populate_ip_addresses": true}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.PopulateIPAddresses)
	assert.Equal(t, 10, cfg.GPUProbeTimeoutSeconds)
	assert.Equal(t, filepath.Dir(path), cfg.RootPath)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "port out of range", body: `{"port": 70000}`},
		{name: "negative timeout", body: `{"gpu_probe_timeout_seconds": -1}`},
		{name: "tls without cert", body: `{"tls_enabled": true}`},
		{name: "auth without hash", body: `{"auth_enabled": true}`},
		{name: "short jwt secret", body: `{"jwt_secret": "short"}`},
		{name: "bad bind address", body: `{"bind_address": "not a host!"}`},
		{name: "malformed json", body: `{"port": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.config"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnsureJWTSecret(t *testing.T) {
	cfg := Default(t.TempDir())
	changed, err := cfg.EnsureJWTSecret()
	require.NoError(t, err)
	assert.False(t, changed, "auth disabled")

	cfg.AuthEnabled = true
	changed, err = cfg.EnsureJWTSecret()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, cfg.JWTSecret, 64)
	assert.Error(t, cfg.Validate(), "hash is still missing")
}

func TestListenAddr(t *testing.T) {
	cfg := Default("/tmp")
	assert.Equal(t, "127.0.0.1:5050", cfg.ListenAddr())
	cfg.BindAddress = "::1"
	assert.Equal(t, "[::1]:5050", cfg.ListenAddr())
	cfg.BindAddress = ""
	assert.Equal(t, ":5050", cfg.ListenAddr())
}

func TestWriteTimeoutOutlastsGPUProbe(t *testing.T) {
	cfg := Default(t.TempDir())

	cfg.GPUProbeTimeoutSeconds = 10
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout())

	cfg.GPUProbeTimeoutSeconds = 600
	assert.Equal(t, 615*time.Second, cfg.WriteTimeout())
	assert.Greater(t, cfg.WriteTimeout(), cfg.GPUProbeTimeout())

	cfg.GPUProbeTimeoutSeconds = 0
	assert.Zero(t, cfg.WriteTimeout(), "an unbounded probe gets no write deadline")
}

func TestSaveRoundTripsFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, Save(path, Default("/srv/sysdash")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"port", "bind_address", "root_path", "gpu_probe_timeout_seconds", "populate_ip_addresses", "auth_enabled", "rate_limit_per_minute"} {
		assert.Contains(t, raw, key)
	}
}
