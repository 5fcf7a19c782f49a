// Package classify buckets a flat file batch into videos, per-directory
// sidecar groups and metadata sidecars.
package classify

import (
	"mime"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/vmunix/reelshelf/internal/library"
)

// Class is the bucket a file falls into.
type Class int

const (
	Other Class = iota
	Video
	Image
	Subtitle
	MetadataSidecar
)

func (c Class) String() string {
	switch c {
	case Video:
		return "video"
	case Image:
		return "image"
	case Subtitle:
		return "subtitle"
	case MetadataSidecar:
		return "metadata"
	default:
		return "other"
	}
}

// Config lists recognized extensions per class. Entries are matched
// case-insensitively and may carry a leading dot.
type Config struct {
	VideoExtensions    []string
	ImageExtensions    []string
	SubtitleExtensions []string
	MetadataExtensions []string
}

// Classifier assigns files to classes by extension only.
type Classifier struct {
	classes map[string]Class
}

// New builds a Classifier. When an extension is listed for several classes
// the first of video, image, subtitle, metadata wins.
func New(cfg Config) *Classifier {
	c := &Classifier{classes: make(map[string]Class)}
	c.register(Video, cfg.VideoExtensions)
	c.register(Image, cfg.ImageExtensions)
	c.register(Subtitle, cfg.SubtitleExtensions)
	c.register(MetadataSidecar, cfg.MetadataExtensions)
	return c
}

func (c *Classifier) register(class Class, exts []string) {
	for _, ext := range exts {
		ext = normalizeExt(ext)
		if ext == "" {
			continue
		}
		if _, taken := c.classes[ext]; !taken {
			c.classes[ext] = class
		}
	}
}

// ClassOf returns the class for a file entry.
func (c *Classifier) ClassOf(e library.FileEntry) Class {
	return c.classes[normalizeExt(e.Extension)]
}

// Batch is the classification of one ingestion batch.
type Batch struct {
	Videos   []library.FileEntry
	Groups   DirectoryGroup
	Metadata map[string][]library.FileEntry // keyed by directory
	Dropped  []library.FileEntry
}

// MetadataIn returns the metadata sidecars found directly inside dir.
func (b *Batch) MetadataIn(dir string) []library.FileEntry {
	return b.Metadata[dir]
}

// Classify partitions entries. Input order is preserved within every output.
// Unrecognized entries are dropped without error.
func (c *Classifier) Classify(entries []library.FileEntry) Batch {
	b := Batch{
		Groups:   DirectoryGroup{groups: make(map[string]*Group)},
		Metadata: make(map[string][]library.FileEntry),
	}

	for _, e := range entries {
		e.Kind = kindOf(c.ClassOf(e), e.Extension)
		dir := DirOf(e.RelativePath)

		switch c.ClassOf(e) {
		case Video:
			b.Videos = append(b.Videos, e)
		case Image:
			g := b.Groups.group(dir)
			g.Images = append(g.Images, e)
		case Subtitle:
			g := b.Groups.group(dir)
			g.Subtitles = append(g.Subtitles, e)
		case MetadataSidecar:
			b.Metadata[dir] = append(b.Metadata[dir], e)
		default:
			b.Dropped = append(b.Dropped, e)
		}
	}
	return b
}

// kindOf returns the MIME type for images and the extension otherwise.
func kindOf(class Class, ext string) string {
	ext = normalizeExt(ext)
	if class != Image {
		return ext
	}
	if t := mime.TypeByExtension("." + ext); t != "" {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return "image/" + ext
}

// Group holds the sidecar candidates found directly inside one directory.
type Group struct {
	Images    []library.FileEntry
	Subtitles []library.FileEntry
}

// DirectoryGroup maps a directory to its sidecar candidates.
// It is built once per batch and never mutated afterwards.
type DirectoryGroup struct {
	groups map[string]*Group
}

func (d *DirectoryGroup) group(dir string) *Group {
	g, ok := d.groups[dir]
	if !ok {
		g = &Group{}
		d.groups[dir] = g
	}
	return g
}

// Lookup returns the group for dir. The returned slices must not be modified.
func (d DirectoryGroup) Lookup(dir string) (Group, bool) {
	g, ok := d.groups[dir]
	if !ok {
		return Group{}, false
	}
	return *g, true
}

// Dirs returns the directories that have at least one candidate, sorted.
func (d DirectoryGroup) Dirs() []string {
	dirs := make([]string, 0, len(d.groups))
	for dir := range d.groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// DirOf returns the directory part of a relative path; "" for the root.
func DirOf(relativePath string) string {
	dir := path.Dir(strings.TrimPrefix(relativePath, "/"))
	if dir == "." {
		return ""
	}
	return dir
}

// StrippedName is the lower-cased base name with its extension removed.
func StrippedName(name string) string {
	name = path.Base(name)
	name = strings.TrimSuffix(name, path.Ext(name))
	return strings.ToLower(norm.NFC.String(name))
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
