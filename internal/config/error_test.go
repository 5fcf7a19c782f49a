// internal/config/error_test.go
package config

import (
	"strings"
	"testing"
)

func TestConfigError_Error_Empty(t *testing.T) {
	e := &ConfigError{Path: "/etc/reelshelf/config.toml"}
	got := e.Error()
	if got != "" {
		t.Errorf("expected empty string for no errors, got %q", got)
	}
}

func TestConfigError_Error_MissingVars(t *testing.T) {
	e := &ConfigError{
		Path:    "/etc/reelshelf/config.toml",
		Missing: []string{"API_KEY", "SECRET"},
	}
	got := e.Error()
	if !strings.Contains(got, "missing environment variables") {
		t.Errorf("expected 'missing environment variables', got %q", got)
	}
	if !strings.Contains(got, "API_KEY") || !strings.Contains(got, "SECRET") {
		t.Errorf("expected var names in error, got %q", got)
	}
}

func TestConfigError_Error_ValidationErrors(t *testing.T) {
	e := &ConfigError{
		Path:   "/etc/reelshelf/config.toml",
		Errors: []string{"thumbnails.quality: must be between 1 and 100", "ingest.workers: must be at least 1"},
	}
	got := e.Error()
	if !strings.Contains(got, "validation failed") {
		t.Errorf("expected 'validation failed', got %q", got)
	}
	if !strings.Contains(got, "thumbnails.quality") {
		t.Errorf("expected field name in error, got %q", got)
	}
}

func TestConfigError_Error_IncludesPath(t *testing.T) {
	e := &ConfigError{Path: "/etc/reelshelf/config.toml", Errors: []string{"log.level: invalid"}}
	if !strings.HasPrefix(e.Error(), "config /etc/reelshelf/config.toml:") {
		t.Errorf("expected path prefix, got %q", e.Error())
	}
}

func TestConfigError_Error_Both(t *testing.T) {
	e := &ConfigError{
		Path:    "/etc/reelshelf/config.toml",
		Missing: []string{"API_KEY"},
		Errors:  []string{"log.level: invalid"},
	}
	got := e.Error()
	if !strings.Contains(got, "missing environment variables") {
		t.Errorf("expected missing vars section, got %q", got)
	}
	if !strings.Contains(got, "validation failed") {
		t.Errorf("expected validation section, got %q", got)
	}
}
