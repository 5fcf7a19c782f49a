// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Log        LogConfig        `toml:"log"`
	Index      IndexConfig      `toml:"index"`
	Classify   ClassifyConfig   `toml:"classify"`
	Sidecar    SidecarConfig    `toml:"sidecar"`
	Thumbnails ThumbnailsConfig `toml:"thumbnails"`
	Ingest     IngestConfig     `toml:"ingest"`
	Relink     RelinkConfig     `toml:"relink"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type IndexConfig struct {
	Path string `toml:"path"`
}

// ClassifyConfig lists the extensions (without dot, any case) for each file class.
type ClassifyConfig struct {
	VideoExtensions    []string `toml:"video_extensions"`
	ImageExtensions    []string `toml:"image_extensions"`
	SubtitleExtensions []string `toml:"subtitle_extensions"`
	MetadataExtensions []string `toml:"metadata_extensions"`
}

type SidecarConfig struct {
	PriorityNames   []string `toml:"priority_names"`
	PosterSubstring string   `toml:"poster_substring"`
	DefaultLanguage string   `toml:"default_language"`
}

type ThumbnailsConfig struct {
	Enabled     bool          `toml:"enabled"`
	FFmpegPath  string        `toml:"ffmpeg_path"`
	FFprobePath string        `toml:"ffprobe_path"`
	Timeout     time.Duration `toml:"timeout"`
	OutputDir   string        `toml:"output_dir"`
	Quality     int           `toml:"quality"`
	SeekMin     float64       `toml:"seek_min"`
	SeekMax     float64       `toml:"seek_max"`
}

type IngestConfig struct {
	Workers int `toml:"workers"`
}

type RelinkConfig struct {
	Workers             int     `toml:"workers"`
	Subtitles           bool    `toml:"subtitles"`
	Suggestions         int     `toml:"suggestions"`
	SuggestionThreshold float64 `toml:"suggestion_threshold"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := preset()
	cfg.applyDefaults()
	return &cfg
}

// preset holds defaults whose zero value is meaningful, so they are set
// before decoding rather than filled in afterwards.
func preset() Config {
	return Config{
		Thumbnails: ThumbnailsConfig{Enabled: true},
		Relink:     RelinkConfig{Suggestions: 3},
	}
}

// Load reads and parses the configuration file.
// Unresolved ${VAR} references and validation failures are reported as a *ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))

	cfg := preset()
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	cerr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cerr.HasErrors() {
		return nil, cerr
	}
	return &cfg, nil
}

// LoadOrDefault loads path, or returns Default() when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Index.Path == "" {
		c.Index.Path = "./data/library.json"
	}

	if len(c.Classify.VideoExtensions) == 0 {
		c.Classify.VideoExtensions = []string{"mp4", "mkv", "avi", "mov", "m4v", "webm", "wmv", "mpg", "mpeg", "ts"}
	}
	if len(c.Classify.ImageExtensions) == 0 {
		c.Classify.ImageExtensions = []string{"jpg", "jpeg", "png", "webp", "gif", "bmp"}
	}
	if len(c.Classify.SubtitleExtensions) == 0 {
		c.Classify.SubtitleExtensions = []string{"srt", "vtt", "ass", "ssa"}
	}
	if len(c.Classify.MetadataExtensions) == 0 {
		c.Classify.MetadataExtensions = []string{"nfo"}
	}

	if c.Sidecar.PriorityNames == nil {
		c.Sidecar.PriorityNames = []string{"poster", "cover", "folder", "default"}
	}
	if c.Sidecar.PosterSubstring == "" {
		c.Sidecar.PosterSubstring = "poster"
	}
	if c.Sidecar.DefaultLanguage == "" {
		c.Sidecar.DefaultLanguage = "en"
	}

	if c.Thumbnails.FFmpegPath == "" {
		c.Thumbnails.FFmpegPath = "ffmpeg"
	}
	if c.Thumbnails.FFprobePath == "" {
		c.Thumbnails.FFprobePath = "ffprobe"
	}
	if c.Thumbnails.Timeout == 0 {
		c.Thumbnails.Timeout = 8 * time.Second
	}
	if c.Thumbnails.OutputDir == "" {
		c.Thumbnails.OutputDir = "./data/thumbnails"
	}
	if c.Thumbnails.Quality == 0 {
		c.Thumbnails.Quality = 85
	}
	if c.Thumbnails.SeekMin == 0 && c.Thumbnails.SeekMax == 0 {
		c.Thumbnails.SeekMin = 0.1
		c.Thumbnails.SeekMax = 0.9
	}

	if c.Ingest.Workers == 0 {
		c.Ingest.Workers = 4
	}
	if c.Relink.Workers == 0 {
		c.Relink.Workers = 4
	}
	if c.Relink.SuggestionThreshold == 0 {
		c.Relink.SuggestionThreshold = 0.85
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
// ${VAR:-default} falls back to default when VAR is unset or empty;
// ${VAR:?message} reports "VAR: message" as missing in that case.
// Unresolved references are left in place and returned as missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	seen := make(map[string]bool)
	report := func(entry string) {
		if !seen[entry] {
			seen[entry] = true
			missing = append(missing, entry)
		}
	}

	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		expr := match[2 : len(match)-1] // Strip ${ and }

		if name, def, ok := strings.Cut(expr, ":-"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			return def
		}
		if name, msg, ok := strings.Cut(expr, ":?"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			report(name + ": " + msg)
			return match
		}

		if value, ok := os.LookupEnv(expr); ok {
			return value
		}
		report(expr)
		return match
	})
	return out, missing
}
