// Package thumbnail captures a still frame from a video when no sidecar
// image is available.
package thumbnail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/reelshelf/internal/library"
)

// Rand is the randomness source for the seek position.
type Rand interface {
	Float64() float64
}

// lockedRand serializes access to a source that is not safe for concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	src Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

// Config controls frame selection and output.
type Config struct {
	Timeout   time.Duration // per video; zero means no limit
	SeekMin   float64       // fraction of duration
	SeekMax   float64
	Quality   int    // JPEG quality 1-100
	OutputDir string // empty returns data URLs instead of files
}

// Generator produces thumbnails through a Decoder.
type Generator struct {
	decoder Decoder
	rand    Rand
	cfg     Config
	log     *slog.Logger
}

// New creates a Generator. A nil rnd uses a time-seeded source.
func New(decoder Decoder, rnd Rand, cfg Config, log *slog.Logger) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.SeekMin == 0 && cfg.SeekMax == 0 {
		cfg.SeekMin, cfg.SeekMax = 0.1, 0.9
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = jpeg.DefaultQuality
	}
	return &Generator{
		decoder: decoder,
		rand:    &lockedRand{src: rnd},
		cfg:     cfg,
		log:     log,
	}
}

// Generate captures a frame from entry and returns a reference to the
// encoded image: an absolute file path, or a data URL when no output
// directory is configured. Every failure wraps ErrUnavailable.
func (g *Generator) Generate(ctx context.Context, entry library.FileEntry) (string, error) {
	path, ok := entry.Handle.Path()
	if !ok {
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, entry.RelativePath, library.ErrHandleMissing)
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	duration, err := g.decoder.Duration(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: duration: %w", ErrUnavailable, err)
	}
	if duration <= 0 {
		return "", fmt.Errorf("%w: unknown duration", ErrUnavailable)
	}

	at := g.SeekPosition(duration)
	frame, err := g.decoder.Frame(ctx, path, at)
	if err != nil {
		return "", fmt.Errorf("%w: frame at %s: %w", ErrUnavailable, at, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: g.cfg.Quality}); err != nil {
		return "", fmt.Errorf("%w: encode: %w", ErrUnavailable, err)
	}

	ref, err := g.store(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	g.log.Debug("thumbnail generated", "path", entry.RelativePath, "at", at)
	return ref, nil
}

// SeekPosition draws a timestamp uniformly from [SeekMin, SeekMax] of
// duration, rounded to the millisecond.
func (g *Generator) SeekPosition(duration time.Duration) time.Duration {
	frac := g.cfg.SeekMin + g.rand.Float64()*(g.cfg.SeekMax-g.cfg.SeekMin)
	return time.Duration(frac * float64(duration)).Round(time.Millisecond)
}

func (g *Generator) store(data []byte) (string, error) {
	if g.cfg.OutputDir == "" {
		return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
	}

	dir, err := filepath.Abs(g.cfg.OutputDir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	target := filepath.Join(dir, uuid.NewString()+".jpg")
	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	return target, nil
}
