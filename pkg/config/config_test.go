package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/overlayforge/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "github", cfg.DefaultOrigin)
	assert.Equal(t, "auto", cfg.Color)
	assert.True(t, cfg.CacheArchives)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("default_origin = \"gitlab\"\ncolor = \"never\"\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gitlab", cfg.DefaultOrigin)
	assert.Equal(t, "never", cfg.Color)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, "github", cfg.DefaultOrigin)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("default_origin = \"gitlab\"\n"), 0o644))

	t.Setenv("OVERLAYFORGE_DEFAULT_ORIGIN", "github")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "github", cfg.DefaultOrigin)
}

func TestLoadEnvTimeoutParsesAsDuration(t *testing.T) {
	t.Setenv("OVERLAYFORGE_TIMEOUT", "5s")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}
