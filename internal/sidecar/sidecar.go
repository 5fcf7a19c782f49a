// Package sidecar associates a video with the images, subtitles and
// metadata files found next to it.
package sidecar

import (
	"log/slog"
	"path"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/vmunix/reelshelf/internal/classify"
	"github.com/vmunix/reelshelf/internal/library"
	"github.com/vmunix/reelshelf/internal/nfo"
)

// Config holds the resolver's tunables.
type Config struct {
	PriorityNames   []string
	PosterSubstring string
	DefaultLanguage string
}

// MetadataParser reads a metadata sidecar.
type MetadataParser interface {
	Parse(entry library.FileEntry) (nfo.Document, error)
}

// NFOParser parses .nfo sidecars through the entry's handle.
type NFOParser struct{}

func (NFOParser) Parse(entry library.FileEntry) (nfo.Document, error) {
	return nfo.ParseHandle(entry.Handle)
}

// Resolution is everything found for one video.
type Resolution struct {
	Thumbnail      *library.FileEntry // nil when no image matched
	Subtitles      []library.SubtitleTrack
	Metadata       library.Metadata
	MetadataSource *library.FileEntry // nil when no sidecar was found
	MetadataErr    error              // set when the sidecar could not be parsed
}

// Resolver runs sidecar matching for videos of a classified batch.
// It only reads the batch and is safe for concurrent use.
type Resolver struct {
	thumbnails      []ThumbnailStrategy
	defaultLanguage string
	parser          MetadataParser
	log             *slog.Logger
}

// New creates a Resolver with the default thumbnail strategies.
// A nil parser reads .nfo sidecars.
func New(cfg Config, parser MetadataParser, log *slog.Logger) *Resolver {
	return NewWithStrategies(cfg, DefaultStrategies(cfg), parser, log)
}

// NewWithStrategies creates a Resolver with an explicit thumbnail chain.
func NewWithStrategies(cfg Config, strategies []ThumbnailStrategy, parser MetadataParser, log *slog.Logger) *Resolver {
	if parser == nil {
		parser = NFOParser{}
	}
	if log == nil {
		log = slog.Default()
	}
	lang := strings.ToLower(cfg.DefaultLanguage)
	if lang == "" {
		lang = "en"
	}
	return &Resolver{
		thumbnails:      strategies,
		defaultLanguage: lang,
		parser:          parser,
		log:             log,
	}
}

// Resolve finds the thumbnail, subtitles and metadata for video.
// Candidates come only from the video's own directory.
func (r *Resolver) Resolve(video library.FileEntry, batch *classify.Batch) Resolution {
	dir := classify.DirOf(video.RelativePath)
	baseName := classify.StrippedName(video.Name)
	group, _ := batch.Groups.Lookup(dir)

	res := Resolution{Subtitles: []library.SubtitleTrack{}}

	if img, ok := r.Thumbnail(baseName, group.Images); ok {
		res.Thumbnail = &img
	}

	for _, sub := range group.Subtitles {
		if strings.HasPrefix(classify.StrippedName(sub.Name), baseName) {
			res.Subtitles = append(res.Subtitles, r.track(sub))
		}
	}

	res.Metadata = library.DefaultMetadata(video.Name)
	if src, ok := findMetadata(dir, baseName, batch.MetadataIn(dir)); ok {
		res.MetadataSource = &src
		doc, err := r.parser.Parse(src)
		if err != nil {
			r.log.Debug("metadata sidecar unreadable, using defaults", "path", src.RelativePath, "error", err)
			res.MetadataErr = err
		} else {
			res.Metadata = doc.Apply(res.Metadata)
		}
	}

	return res
}

// Thumbnail runs the strategy chain and returns the first match.
func (r *Resolver) Thumbnail(baseName string, images []library.FileEntry) (library.FileEntry, bool) {
	for _, strategy := range r.thumbnails {
		if img, ok := strategy(baseName, images); ok {
			return img, true
		}
	}
	return library.FileEntry{}, false
}

func (r *Resolver) track(sub library.FileEntry) library.SubtitleTrack {
	lang, inferred := InferLanguage(sub.Name, r.defaultLanguage)
	label := sub.Name
	if inferred {
		label = Label(lang, sub.Name)
	}
	return library.SubtitleTrack{
		Label:        label,
		Language:     lang,
		RelativePath: sub.RelativePath,
		Handle:       sub.Handle,
	}
}

// InferLanguage reads a two-letter language code from the second-to-last
// dot segment of a file name ("movie.fr.srt"). It returns fallback and
// false when the name has fewer than three segments or that segment is
// not exactly two characters.
func InferLanguage(fileName, fallback string) (string, bool) {
	parts := strings.Split(strings.ToLower(fileName), ".")
	if len(parts) >= 3 {
		if code := parts[len(parts)-2]; len(code) == 2 {
			return code, true
		}
	}
	return fallback, false
}

var namer = display.English.Languages()

// Label returns the English name of a language code, or fallback when the
// code is not a known language.
func Label(code, fallback string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return fallback
	}
	if name := namer.Name(tag); name != "" {
		return name
	}
	return fallback
}

// findMetadata returns the first sidecar whose path starts with dir/baseName,
// compared case-insensitively.
func findMetadata(dir, baseName string, candidates []library.FileEntry) (library.FileEntry, bool) {
	prefix := strings.ToLower(path.Join(dir, baseName))
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c.RelativePath), prefix) {
			return c, true
		}
	}
	return library.FileEntry{}, false
}
