package main

import (
	"context"
	"path/filepath"

	"github.com/vmunix/reelshelf/internal/classify"
	"github.com/vmunix/reelshelf/internal/config"
	"github.com/vmunix/reelshelf/internal/events"
	"github.com/vmunix/reelshelf/internal/grant"
	"github.com/vmunix/reelshelf/internal/ingest"
	"github.com/vmunix/reelshelf/internal/library"
	"github.com/vmunix/reelshelf/internal/relink"
	"github.com/vmunix/reelshelf/internal/sidecar"
	"github.com/vmunix/reelshelf/internal/thumbnail"
)

// ingester builds the pipeline from config. A dry run renders generated
// thumbnails as data URLs so nothing is written to the output directory.
func (s *session) ingester(dryRun bool) *ingest.Ingester {
	c := s.cfg
	classifier := classify.New(classify.Config{
		VideoExtensions:    c.Classify.VideoExtensions,
		ImageExtensions:    c.Classify.ImageExtensions,
		SubtitleExtensions: c.Classify.SubtitleExtensions,
		MetadataExtensions: c.Classify.MetadataExtensions,
	})
	resolver := sidecar.New(sidecar.Config{
		PriorityNames:   c.Sidecar.PriorityNames,
		PosterSubstring: c.Sidecar.PosterSubstring,
		DefaultLanguage: c.Sidecar.DefaultLanguage,
	}, sidecar.NFOParser{}, s.log)

	var thumbs ingest.Thumbnailer
	if c.Thumbnails.Enabled {
		decoder := thumbnail.NewFFmpeg(c.Thumbnails.FFmpegPath, c.Thumbnails.FFprobePath)
		thumbs = thumbnail.New(decoder, nil, thumbnailConfig(c, dryRun), s.log)
	}

	return ingest.New(classifier, resolver, thumbs, s.pub, ingest.Options{Workers: c.Ingest.Workers}, s.log)
}

func thumbnailConfig(c *config.Config, dryRun bool) thumbnail.Config {
	tc := thumbnail.Config{
		Timeout:   c.Thumbnails.Timeout,
		SeekMin:   c.Thumbnails.SeekMin,
		SeekMax:   c.Thumbnails.SeekMax,
		Quality:   c.Thumbnails.Quality,
		OutputDir: c.Thumbnails.OutputDir,
	}
	if dryRun {
		tc.OutputDir = ""
	}
	return tc
}

func (s *session) matcher(subtitles bool) *relink.Matcher {
	c := s.cfg.Relink
	return relink.New(relink.Options{
		Workers:     c.Workers,
		Subtitles:   subtitles || c.Subtitles,
		Suggestions: c.Suggestions,
		Threshold:   c.SuggestionThreshold,
	}, s.log)
}

func (s *session) loadIndex() (*library.Index, error) {
	return library.Load(s.cfg.Index.Path)
}

func (s *session) saveIndex(idx *library.Index) error {
	return library.Save(s.cfg.Index.Path, idx)
}

// relinkIndex walks dir and rebinds handles on idx in place.
func (s *session) relinkIndex(ctx context.Context, idx *library.Index, dir string, subtitles bool) (*relink.Result, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := grant.Walk(ctx, abs, s.log)
	if err != nil {
		return nil, err
	}
	res, err := s.matcher(subtitles).Relink(ctx, idx.Videos, entries)
	if err != nil {
		return nil, err
	}
	idx.Videos = res.Assets

	s.publish(ctx, events.NewRelinkCompleted(res.Exact, res.Fallback, res.Unresolved))
	return res, nil
}
