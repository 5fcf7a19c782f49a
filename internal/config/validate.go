// internal/config/validate.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true, "": true,
}

var validIndexExts = map[string]bool{
	".json": true, ".db": true, ".sqlite": true, ".sqlite3": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Log validation
	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format: must be text or json; got %q", c.Log.Format))
	}

	// Index validation
	if c.Index.Path != "" && !validIndexExts[strings.ToLower(filepath.Ext(c.Index.Path))] {
		errs = append(errs, fmt.Sprintf("index.path: extension must be .json, .db, .sqlite or .sqlite3; got %q", c.Index.Path))
	}

	// Classification tables must partition extensions
	errs = append(errs, c.validateExtensions()...)

	// Sidecar validation
	if len(c.Sidecar.DefaultLanguage) != 2 {
		errs = append(errs, fmt.Sprintf("sidecar.default_language: must be a two-letter code; got %q", c.Sidecar.DefaultLanguage))
	}

	// Thumbnail validation
	t := c.Thumbnails
	if t.SeekMin < 0 || t.SeekMax > 1 || t.SeekMin >= t.SeekMax {
		errs = append(errs, fmt.Sprintf("thumbnails.seek_min/seek_max: need 0 <= seek_min < seek_max <= 1; got %v, %v", t.SeekMin, t.SeekMax))
	}
	if t.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("thumbnails.timeout: must be positive; got %s", t.Timeout))
	}
	if t.Quality < 1 || t.Quality > 100 {
		errs = append(errs, fmt.Sprintf("thumbnails.quality: must be between 1 and 100; got %d", t.Quality))
	}

	// Worker validation
	if c.Ingest.Workers < 1 {
		errs = append(errs, fmt.Sprintf("ingest.workers: must be at least 1; got %d", c.Ingest.Workers))
	}
	if c.Relink.Workers < 1 {
		errs = append(errs, fmt.Sprintf("relink.workers: must be at least 1; got %d", c.Relink.Workers))
	}
	if c.Relink.Suggestions < 0 {
		errs = append(errs, fmt.Sprintf("relink.suggestions: must not be negative; got %d", c.Relink.Suggestions))
	}
	if c.Relink.SuggestionThreshold < 0 || c.Relink.SuggestionThreshold > 1 {
		errs = append(errs, fmt.Sprintf("relink.suggestion_threshold: must be between 0 and 1; got %v", c.Relink.SuggestionThreshold))
	}

	return errs
}

func (c *Config) validateExtensions() []string {
	var errs []string
	owner := make(map[string]string)
	tables := []struct {
		key  string
		exts []string
	}{
		{"classify.video_extensions", c.Classify.VideoExtensions},
		{"classify.image_extensions", c.Classify.ImageExtensions},
		{"classify.subtitle_extensions", c.Classify.SubtitleExtensions},
		{"classify.metadata_extensions", c.Classify.MetadataExtensions},
	}
	for _, tbl := range tables {
		if len(tbl.exts) == 0 {
			errs = append(errs, tbl.key+": at least one extension required")
		}
		for _, ext := range tbl.exts {
			norm := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
			if norm == "" {
				errs = append(errs, tbl.key+": empty extension")
				continue
			}
			if prev, ok := owner[norm]; ok && prev != tbl.key {
				errs = append(errs, fmt.Sprintf("%s: extension %q already listed in %s", tbl.key, norm, prev))
				continue
			}
			owner[norm] = tbl.key
		}
	}
	return errs
}
