package sidecar

import (
	"strings"

	"github.com/vmunix/reelshelf/internal/classify"
	"github.com/vmunix/reelshelf/internal/library"
)

// ThumbnailStrategy picks a sidecar image for a video with the given
// stripped base name, or reports that it found none.
type ThumbnailStrategy func(baseName string, images []library.FileEntry) (library.FileEntry, bool)

// PriorityName matches the first image whose stripped name is one of names.
func PriorityName(names []string) ThumbnailStrategy {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			set[n] = struct{}{}
		}
	}
	return func(_ string, images []library.FileEntry) (library.FileEntry, bool) {
		return first(images, func(stripped string) bool {
			_, ok := set[stripped]
			return ok
		})
	}
}

// PosterSubstring matches the first image whose stripped name contains sub.
func PosterSubstring(sub string) ThumbnailStrategy {
	sub = strings.ToLower(sub)
	return func(_ string, images []library.FileEntry) (library.FileEntry, bool) {
		if sub == "" {
			return library.FileEntry{}, false
		}
		return first(images, func(stripped string) bool {
			return strings.Contains(stripped, sub)
		})
	}
}

// ExactName matches the first image whose stripped name equals the video's.
func ExactName() ThumbnailStrategy {
	return func(baseName string, images []library.FileEntry) (library.FileEntry, bool) {
		return first(images, func(stripped string) bool {
			return stripped == baseName
		})
	}
}

func first(images []library.FileEntry, match func(stripped string) bool) (library.FileEntry, bool) {
	for _, img := range images {
		if match(classify.StrippedName(img.Name)) {
			return img, true
		}
	}
	return library.FileEntry{}, false
}

// DefaultStrategies returns the standard thumbnail chain: priority names,
// then the poster substring, then an exact base-name match.
func DefaultStrategies(cfg Config) []ThumbnailStrategy {
	return []ThumbnailStrategy{
		PriorityName(cfg.PriorityNames),
		PosterSubstring(cfg.PosterSubstring),
		ExactName(),
	}
}
