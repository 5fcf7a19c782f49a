// Package grant turns a granted folder tree into library file entries.
package grant

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/vmunix/reelshelf/internal/library"
)

// ErrNotDirectory is returned when the granted root is not a directory.
var ErrNotDirectory = errors.New("grant root is not a directory")

// Walk lists every regular file below root as a FileEntry with a live handle.
// Relative paths are slash-separated and NFC-normalized. Hidden files and
// directories are skipped, as are subdirectories that cannot be read.
func Walk(ctx context.Context, root string, log *slog.Logger) ([]library.FileEntry, error) {
	if log == nil {
		log = slog.Default()
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	var entries []library.FileEntry
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if p == abs {
				return walkErr
			}
			log.Warn("skipping unreadable path", "path", p, "error", walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p != abs && hidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			log.Warn("skipping file", "path", p, "error", err)
			return nil
		}
		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", p, err)
		}

		entries = append(entries, library.NewFileEntry(RelativePath(rel), fi.Size(), library.NewHandle(p)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	log.Debug("granted folder walked", "root", abs, "files", len(entries))
	return entries, nil
}

// RelativePath converts an OS-specific relative path into the slash-separated,
// NFC-normalized form used as cross-session identity.
func RelativePath(rel string) string {
	return norm.NFC.String(filepath.ToSlash(rel))
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
