// Package relink restores live handles on a loaded index from a fresh
// folder grant, matching by relative path.
package relink

import (
	"context"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/reelshelf/internal/library"
)

// Options tune a relink pass.
type Options struct {
	Workers     int     // parallel matchers; defaults to 4
	Subtitles   bool    // also rebind subtitle tracks with a stored path
	Suggestions int     // closest paths listed per unresolved asset; 0 disables
	Threshold   float64 // minimum Jaro-Winkler similarity for a suggestion
}

// Result of a relink pass. Assets has the same order as the input.
type Result struct {
	Assets      []library.MediaAsset
	Matches     []Match
	Exact       int
	Fallback    int
	Unresolved  int
	Candidates  int                 // distinct paths in the grant
	Subtitles   int                 // subtitle tracks rebound
	Suggestions map[string][]string // asset id -> candidate relative paths
}

// UnresolvedAssets returns the assets that could not be bound.
func (r *Result) UnresolvedAssets() []library.MediaAsset {
	var out []library.MediaAsset
	for i, m := range r.Matches {
		if m == Unresolved {
			out = append(out, r.Assets[i])
		}
	}
	return out
}

// Matcher rebinds handles. It never touches metadata, tags or the set of
// subtitle tracks.
type Matcher struct {
	opts Options
	log  *slog.Logger
}

// New creates a Matcher.
func New(opts Options, log *slog.Logger) *Matcher {
	if opts.Workers < 1 {
		opts.Workers = 4
	}
	if log == nil {
		log = slog.Default()
	}
	return &Matcher{opts: opts, log: log}
}

type outcome struct {
	asset       library.MediaAsset
	match       Match
	subtitles   int
	suggestions []string
}

// Relink binds each asset against entries. The input slice is not modified.
// Only context cancellation produces an error.
func (m *Matcher) Relink(ctx context.Context, assets []library.MediaAsset, entries []library.FileEntry) (*Result, error) {
	lookup := NewLookup(entries)

	outcomes := make([]outcome, len(assets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Workers)
	for i := range assets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = m.relinkOne(assets[i], lookup)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Assets:      make([]library.MediaAsset, len(assets)),
		Matches:     make([]Match, len(assets)),
		Suggestions: make(map[string][]string),
		Candidates:  lookup.Len(),
	}
	for i, o := range outcomes {
		res.Assets[i] = o.asset
		res.Matches[i] = o.match
		res.Subtitles += o.subtitles
		switch o.match {
		case Exact:
			res.Exact++
		case Fallback:
			res.Fallback++
		default:
			res.Unresolved++
			if len(o.suggestions) > 0 {
				res.Suggestions[o.asset.ID] = o.suggestions
			}
		}
	}

	m.log.Info("relink complete",
		"assets", len(assets),
		"candidates", res.Candidates,
		"exact", res.Exact,
		"fallback", res.Fallback,
		"unresolved", res.Unresolved)
	return res, nil
}

func (m *Matcher) relinkOne(a library.MediaAsset, lookup *Lookup) outcome {
	o := outcome{asset: a}

	h, key, match := lookup.Find(a.RelativePath)
	o.match = match
	switch match {
	case Exact:
		o.asset.Handle = h
	case Fallback:
		o.asset.Handle = h
		m.log.Debug("relinked by file name", "stored", a.RelativePath, "found", key)
	default:
		m.log.Debug("no match for asset", "id", a.ID, "path", a.RelativePath)
		o.suggestions = m.suggest(a.RelativePath, lookup)
	}

	if m.opts.Subtitles && len(a.Subtitles) > 0 {
		tracks := make([]library.SubtitleTrack, len(a.Subtitles))
		copy(tracks, a.Subtitles)
		for i := range tracks {
			if tracks[i].RelativePath == "" {
				continue
			}
			if h, _, match := lookup.Find(tracks[i].RelativePath); match != Unresolved {
				tracks[i].Handle = h
				o.subtitles++
			}
		}
		o.asset.Subtitles = tracks
	}
	return o
}

type candidate struct {
	path  string
	score float64
}

// suggest lists the paths whose file names are most similar to the stored one.
func (m *Matcher) suggest(stored string, lookup *Lookup) []string {
	if m.opts.Suggestions <= 0 {
		return nil
	}
	want := strings.ToLower(path.Base(stored))

	var cands []candidate
	for _, key := range lookup.keys {
		score := float64(edlib.JaroWinklerSimilarity(want, strings.ToLower(path.Base(key))))
		if score >= m.opts.Threshold {
			cands = append(cands, candidate{path: key, score: score})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	if len(cands) > m.opts.Suggestions {
		cands = cands[:m.opts.Suggestions]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.path
	}
	return out
}
