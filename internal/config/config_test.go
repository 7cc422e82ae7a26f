package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Home)
	assert.Equal(t, DefaultBackendURL, cfg.BackendURL)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.True(t, cfg.Particles)
	assert.Equal(t, 120, cfg.ParticleCount)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	yml := "backend_url: http://localhost:8000\npoll_interval: 250ms\nparticles: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yml), 0644))
	t.Setenv("WEBIQ_POLL_INTERVAL", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.False(t, cfg.Particles)
}

func TestLoad_ParticleCountEnv(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	t.Setenv("WEBIQ_PARTICLE_COUNT", "40")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.ParticleCount)

	t.Setenv("WEBIQ_PARTICLE_COUNT", "many")
	_, err = Load()
	assert.ErrorContains(t, err, "WEBIQ_PARTICLE_COUNT")
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	t.Setenv("WEBIQ_HTTP_TIMEOUT", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "WEBIQ_HTTP_TIMEOUT")
}

func TestLoad_LeavesValidationToCaller(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	t.Setenv("WEBIQ_BACKEND_URL", "ftp://nope")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())

	cfg.BackendURL = "http://localhost:8000"
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.BackendURL = "ftp://example.com"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.PollInterval = 0
	assert.Error(t, cfg.Validate())
}
