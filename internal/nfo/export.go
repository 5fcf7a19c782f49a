package nfo

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vmunix/reelshelf/internal/library"
)

// ErrPathTraversal is returned when a stored relative path escapes the root.
var ErrPathTraversal = errors.New("path escapes export root")

// ExportResult is the outcome of writing one video's sidecar.
type ExportResult struct {
	VideoID string
	Path    string
	Skipped bool // sidecar already existed and overwrite was off
	Err     error
}

// ExportSidecars writes <dir>/<base>.nfo next to every video of idx,
// resolving relative paths against root. Existing sidecars are kept
// unless overwrite is set. A failure for one video does not stop the rest.
func ExportSidecars(idx *library.Index, root string, overwrite bool) []ExportResult {
	results := make([]ExportResult, 0, len(idx.Videos))
	for i := range idx.Videos {
		results = append(results, exportOne(&idx.Videos[i], root, overwrite))
	}
	return results
}

func exportOne(v *library.MediaAsset, root string, overwrite bool) ExportResult {
	res := ExportResult{VideoID: v.ID}

	rel := strings.TrimSuffix(v.RelativePath, path.Ext(v.RelativePath)) + ".nfo"
	target := filepath.Join(root, filepath.FromSlash(rel))
	if err := validatePath(target, root); err != nil {
		res.Err = fmt.Errorf("%s: %w", v.RelativePath, err)
		return res
	}
	res.Path = target

	if !overwrite {
		if _, err := os.Stat(target); err == nil {
			res.Skipped = true
			return res
		}
	}

	data, err := Encode(v.Metadata)
	if err != nil {
		res.Err = err
		return res
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		res.Err = fmt.Errorf("write sidecar: %w", err)
	}
	return res
}

// validatePath ensures p stays inside root.
func validatePath(p, root string) error {
	cleanPath := filepath.Clean(p)
	cleanRoot := filepath.Clean(root)

	prefix := cleanRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if cleanPath != cleanRoot && !strings.HasPrefix(cleanPath, prefix) {
		return ErrPathTraversal
	}
	return nil
}
