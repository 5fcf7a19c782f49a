// internal/config/load_test.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "reelshelf.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))
	return cfgPath
}

func TestLoad_Valid(t *testing.T) {
	cfgPath := writeConfig(t, `
[index]
path = "/srv/reelshelf/library.db"

[sidecar]
priority_names = ["poster", "folder"]
default_language = "de"

[thumbnails]
timeout = "3s"
quality = 70

[ingest]
workers = 2
`)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "/srv/reelshelf/library.db", cfg.Index.Path)
	assert.Equal(t, []string{"poster", "folder"}, cfg.Sidecar.PriorityNames)
	assert.Equal(t, "de", cfg.Sidecar.DefaultLanguage)
	assert.Equal(t, 3*time.Second, cfg.Thumbnails.Timeout)
	assert.Equal(t, 70, cfg.Thumbnails.Quality)
	assert.Equal(t, 2, cfg.Ingest.Workers)
	assert.True(t, cfg.Thumbnails.Enabled, "thumbnails default to enabled")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "./data/library.json", cfg.Index.Path)
	assert.Contains(t, cfg.Classify.VideoExtensions, "mkv")
	assert.Contains(t, cfg.Classify.SubtitleExtensions, "ass")
	assert.Equal(t, []string{"nfo"}, cfg.Classify.MetadataExtensions)
	assert.Equal(t, []string{"poster", "cover", "folder", "default"}, cfg.Sidecar.PriorityNames)
	assert.Equal(t, "poster", cfg.Sidecar.PosterSubstring)
	assert.Equal(t, "en", cfg.Sidecar.DefaultLanguage)
	assert.Equal(t, 8*time.Second, cfg.Thumbnails.Timeout)
	assert.InDelta(t, 0.1, cfg.Thumbnails.SeekMin, 1e-9)
	assert.InDelta(t, 0.9, cfg.Thumbnails.SeekMax, 1e-9)
	assert.Equal(t, 4, cfg.Ingest.Workers)
	assert.False(t, cfg.Relink.Subtitles)
}

func TestLoad_ThumbnailsDisabled(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[thumbnails]\nenabled = false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Thumbnails.Enabled)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("REELSHELF_TEST_INDEX", "/data/index.json")
	cfg, err := Load(writeConfig(t, "[index]\npath = \"${REELSHELF_TEST_INDEX}\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "/data/index.json", cfg.Index.Path)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	_, err := Load(writeConfig(t, "[thumbnails]\nffmpeg_path = \"${REELSHELF_TEST_MISSING_FFMPEG}\"\n"))
	require.Error(t, err)

	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"REELSHELF_TEST_MISSING_FFMPEG"}, cerr.Missing)
}

func TestLoad_ValidationError(t *testing.T) {
	_, err := Load(writeConfig(t, "[thumbnails]\nseek_min = 0.9\nseek_max = 0.2\n"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "thumbnails.seek_min"), "got %v", err)
}

func TestLoad_ParseError(t *testing.T) {
	_, err := Load(writeConfig(t, "[index\npath = 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "./data/library.json", cfg.Index.Path)
}

func TestDefault_IsValid(t *testing.T) {
	assert.Empty(t, Default().Validate())
}
