// Package ingest turns a granted file batch into finished library entries.
package ingest

//go:generate mockgen -destination=mocks/thumbnailer.go -package=mocks . Thumbnailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/reelshelf/internal/classify"
	"github.com/vmunix/reelshelf/internal/events"
	"github.com/vmunix/reelshelf/internal/library"
	"github.com/vmunix/reelshelf/internal/sidecar"
)

// Thumbnail sources reported per video.
const (
	ThumbnailSidecar   = "sidecar"
	ThumbnailGenerated = "generated"
	ThumbnailNone      = "none"
)

// DefaultCollectionName is used when a request carries no name.
const DefaultCollectionName = "Untitled"

// Thumbnailer produces a thumbnail reference for a video without a sidecar image.
type Thumbnailer interface {
	Generate(ctx context.Context, entry library.FileEntry) (string, error)
}

// Options tune an ingestion run.
type Options struct {
	Workers int              // parallel per-video pipelines; defaults to 4
	NewID   func() string    // id generator; defaults to random UUIDs
	Now     func() time.Time // clock for collection timestamps
}

// Request is one import batch.
type Request struct {
	Entries        []library.FileEntry
	CollectionName string
}

// VideoResult is the outcome for one video. Warnings list degraded steps;
// the asset is always usable.
type VideoResult struct {
	Asset           library.MediaAsset `json:"asset"`
	ThumbnailSource string             `json:"thumbnail_source"`
	Warnings        []string           `json:"warnings,omitempty"`
}

// Result of an ingestion run. Assets and Videos follow the batch's video order.
type Result struct {
	Collection library.Collection   `json:"collection"`
	Assets     []library.MediaAsset `json:"-"` // same assets as Videos, ready for Index.Append
	Videos     []VideoResult        `json:"videos"`
	Dropped    int                  `json:"dropped"`
}

// Ingester sequences classification, sidecar resolution and thumbnail
// generation over a batch.
type Ingester struct {
	classifier  *classify.Classifier
	resolver    *sidecar.Resolver
	thumbnailer Thumbnailer
	bus         events.Publisher
	opts        Options
	log         *slog.Logger
}

// New creates an Ingester. thumbnailer and bus may be nil.
func New(classifier *classify.Classifier, resolver *sidecar.Resolver, thumbnailer Thumbnailer, bus events.Publisher, opts Options, log *slog.Logger) *Ingester {
	if opts.Workers < 1 {
		opts.Workers = 4
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Ingester{
		classifier:  classifier,
		resolver:    resolver,
		thumbnailer: thumbnailer,
		bus:         bus,
		opts:        opts,
		log:         log,
	}
}

// Ingest processes one batch into a new collection. Per-video problems
// become warnings; only context cancellation returns an error.
func (i *Ingester) Ingest(ctx context.Context, req Request) (*Result, error) {
	batch := i.classifier.Classify(req.Entries)

	name := req.CollectionName
	if name == "" {
		name = DefaultCollectionName
	}
	collection := library.Collection{
		ID:        i.opts.NewID(),
		Name:      name,
		CreatedAt: i.opts.Now().UTC(),
	}

	i.log.Info("ingesting batch",
		"collection", collection.Name,
		"files", len(req.Entries),
		"videos", len(batch.Videos),
		"dropped", len(batch.Dropped))

	videos := make([]VideoResult, len(batch.Videos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.opts.Workers)
	for n := range batch.Videos {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			videos[n] = i.ingestVideo(gctx, batch.Videos[n], &batch, collection.ID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ingest %s: %w", name, err)
	}

	res := &Result{
		Collection: collection,
		Assets:     make([]library.MediaAsset, len(videos)),
		Videos:     videos,
		Dropped:    len(batch.Dropped),
	}
	warned := 0
	for n, v := range videos {
		res.Assets[n] = v.Asset
		if len(v.Warnings) > 0 {
			warned++
		}
	}
	res.Collection.ThumbnailURL = library.DeriveCollectionThumbnail(res.Assets)

	evt := events.NewBatchIngested(collection.ID)
	evt.Name = collection.Name
	evt.Videos = len(res.Assets)
	evt.Dropped = res.Dropped
	evt.Warned = warned
	i.publish(ctx, evt)

	i.log.Info("batch ingested", "collection", collection.ID, "videos", len(res.Assets), "warned", warned)
	return res, nil
}

func (i *Ingester) ingestVideo(ctx context.Context, video library.FileEntry, batch *classify.Batch, collectionID string) VideoResult {
	resolution := i.resolver.Resolve(video, batch)

	res := VideoResult{
		Asset: library.MediaAsset{
			ID:           i.opts.NewID(),
			CollectionID: collectionID,
			FileName:     video.Name,
			RelativePath: video.RelativePath,
			Handle:       video.Handle,
			Metadata:     resolution.Metadata,
			Size:         video.Size,
			Subtitles:    resolution.Subtitles,
		},
		ThumbnailSource: ThumbnailNone,
	}

	if resolution.MetadataErr != nil {
		i.log.Warn("metadata sidecar ignored", "video", video.RelativePath,
			"sidecar", resolution.MetadataSource.RelativePath, "error", resolution.MetadataErr)
		res.Warnings = append(res.Warnings, fmt.Sprintf("metadata sidecar %s: %v", resolution.MetadataSource.RelativePath, resolution.MetadataErr))
	}

	switch {
	case resolution.Thumbnail != nil:
		res.Asset.ThumbnailURL = imageReference(*resolution.Thumbnail)
		res.ThumbnailSource = ThumbnailSidecar
	case i.thumbnailer != nil:
		ref, err := i.thumbnailer.Generate(ctx, video)
		if err != nil {
			i.log.Debug("no thumbnail", "video", video.RelativePath, "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("thumbnail: %v", err))
			break
		}
		res.Asset.ThumbnailURL = ref
		res.ThumbnailSource = ThumbnailGenerated
	default:
		i.log.Debug("no thumbnail", "video", video.RelativePath)
	}

	evt := events.NewVideoIngested(res.Asset.ID)
	evt.CollectionID = collectionID
	evt.RelativePath = video.RelativePath
	evt.ThumbnailSource = res.ThumbnailSource
	evt.Subtitles = len(res.Asset.Subtitles)
	evt.Warnings = res.Warnings
	i.publish(ctx, evt)

	return res
}

// imageReference is the absolute path of a sidecar image when the grant
// exposes one, otherwise its root-relative path.
func imageReference(img library.FileEntry) string {
	if p, ok := img.Handle.Path(); ok {
		return p
	}
	return img.RelativePath
}

func (i *Ingester) publish(ctx context.Context, e events.Event) {
	if i.bus == nil {
		return
	}
	if err := i.bus.Publish(ctx, e); err != nil {
		i.log.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}
