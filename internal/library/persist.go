package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies how an index is stored on disk.
type Format string

const (
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// FormatFor picks the storage format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Load reads an index snapshot. A missing file yields an empty index.
// Every handle in the result is absent.
func Load(path string) (*Index, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return NewIndex(), nil
	}

	var idx *Index
	switch format {
	case FormatSQLite:
		idx, err = loadSQLite(path)
	default:
		idx, err = loadJSON(path)
	}
	if err != nil {
		return nil, err
	}
	idx.detach()
	idx.normalize()
	return idx, nil
}

// Save writes an index snapshot, replacing any previous content.
func Save(path string, idx *Index) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	idx.normalize()
	if format == FormatSQLite {
		return saveSQLite(path, idx)
	}
	return saveJSON(path, idx)
}

// Decode reads a JSON index document.
func Decode(r io.Reader) (*Index, error) {
	var idx Index
	if err := json.NewDecoder(r).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	idx.normalize()
	return &idx, nil
}

// Encode writes idx as an indented JSON document.
func Encode(w io.Writer, idx *Index) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(idx)
}

func loadJSON(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// saveJSON writes through a temp file so a failed write keeps the old snapshot.
func saveJSON(path string, idx *Index) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*.json")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Encode(tmp, idx); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode index: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace index: %w", err)
	}
	return nil
}
