// Package library holds the video library data model and its persisted index.
package library

import (
	"path"
	"strings"
	"time"
)

// FileEntry is one source file from a folder grant.
// It is immutable once classified.
type FileEntry struct {
	Name         string // base name including extension
	RelativePath string // slash-separated, relative to the granted root
	Extension    string // lower-case, without the leading dot
	Size         int64
	Kind         string // MIME type for images, extension otherwise
	Handle       Handle
}

// NewFileEntry builds a FileEntry from a root-relative path.
// Kind is left empty; the classifier assigns it.
func NewFileEntry(relativePath string, size int64, h Handle) FileEntry {
	relativePath = strings.TrimPrefix(relativePath, "/")
	name := path.Base(relativePath)
	return FileEntry{
		Name:         name,
		RelativePath: relativePath,
		Extension:    strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")),
		Size:         size,
		Handle:       h,
	}
}

// Metadata is the descriptive data attached to a MediaAsset.
type Metadata struct {
	Title string `json:"title"`
	Plot  string `json:"plot"`
	Tags  TagSet `json:"tags"`
}

// DefaultMetadata returns the metadata used when no sidecar is found:
// the file name without extension as title, empty plot and tags.
func DefaultMetadata(fileName string) Metadata {
	return Metadata{
		Title: strings.TrimSuffix(fileName, path.Ext(fileName)),
	}
}

// SubtitleTrack is an external subtitle attached to a video.
type SubtitleTrack struct {
	Label        string `json:"label"`
	Language     string `json:"language"`
	RelativePath string `json:"relativePath,omitempty"`
	Handle       Handle `json:"-"`
}

// MediaAsset is a video library entry.
type MediaAsset struct {
	ID           string          `json:"id"`
	CollectionID string          `json:"collectionId"`
	FileName     string          `json:"fileName"`
	RelativePath string          `json:"relativePath"`
	Handle       Handle          `json:"-"`
	ThumbnailURL string          `json:"thumbnailUrl,omitempty"`
	Metadata     Metadata        `json:"metadata"`
	Size         int64           `json:"size"`
	Subtitles    []SubtitleTrack `json:"subtitles"`
}

// Playable reports whether the asset currently has a live file handle.
func (a *MediaAsset) Playable() bool {
	return a.Handle.Live()
}

// Collection groups assets from one import.
// Its lifecycle is owned by the caller; ThumbnailURL is derived.
type Collection struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DeriveCollectionThumbnail returns the thumbnail of the first asset that has one.
func DeriveCollectionThumbnail(assets []MediaAsset) string {
	for i := range assets {
		if assets[i].ThumbnailURL != "" {
			return assets[i].ThumbnailURL
		}
	}
	return ""
}
