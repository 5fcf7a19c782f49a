package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPath(t *testing.T) {
	// Clear XDG var to test default
	t.Setenv("XDG_CONFIG_HOME", "")

	path := DefaultPath()
	assert.Contains(t, path, filepath.Join(".config", "reelshelf", "config.toml"))
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	path := DefaultPath()
	assert.Equal(t, filepath.Join("/custom/config", "reelshelf", "config.toml"), path)
}

func TestDiscover_EnvOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[log]"), 0644))

	t.Setenv(EnvConfigPath, cfgPath)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path)
}

func TestDiscover_EnvOverrideNotFound(t *testing.T) {
	t.Setenv(EnvConfigPath, "/nonexistent/config.toml")

	_, err := Discover()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvConfigPath)
}

func TestDiscover_CurrentDir(t *testing.T) {
	origDir, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")
	defer func() {
		assert.NoError(t, os.Chdir(origDir), "failed to restore working directory")
	}()

	t.Setenv(EnvConfigPath, "")

	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "reelshelf.toml"), []byte("[log]"), 0644))
	require.NoError(t, os.Chdir(tmp))

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, "reelshelf.toml", filepath.Base(path))
}

func TestDiscover_NotFound(t *testing.T) {
	origDir, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")
	defer func() {
		assert.NoError(t, os.Chdir(origDir), "failed to restore working directory")
	}()

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
	require.NoError(t, os.Chdir(t.TempDir()))

	_, err = Discover()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}
