// internal/events/library.go
package events

import "context"

// Event types
const (
	EventVideoIngested   = "video.ingested"
	EventBatchIngested   = "batch.ingested"
	EventRelinkCompleted = "relink.completed"
)

// Entity types
const (
	EntityVideo      = "video"
	EntityCollection = "collection"
)

// VideoIngested is emitted once per finished library entry.
type VideoIngested struct {
	BaseEvent
	CollectionID    string   `json:"collection_id"`
	RelativePath    string   `json:"relative_path"`
	ThumbnailSource string   `json:"thumbnail_source"` // "sidecar", "generated" or "none"
	Subtitles       int      `json:"subtitles"`
	Warnings        []string `json:"warnings,omitempty"`
}

// NewVideoIngested builds a VideoIngested event for a video id.
func NewVideoIngested(videoID string) *VideoIngested {
	return &VideoIngested{BaseEvent: NewBaseEvent(EventVideoIngested, EntityVideo, videoID)}
}

// BatchIngested is emitted when a whole import batch has been processed.
type BatchIngested struct {
	BaseEvent
	Name    string `json:"name"`
	Videos  int    `json:"videos"`
	Dropped int    `json:"dropped"`
	Warned  int    `json:"warned"` // videos with at least one warning
}

// NewBatchIngested builds a BatchIngested event for a collection id.
func NewBatchIngested(collectionID string) *BatchIngested {
	return &BatchIngested{BaseEvent: NewBaseEvent(EventBatchIngested, EntityCollection, collectionID)}
}

// RelinkCompleted is emitted after a relink pass over the index.
type RelinkCompleted struct {
	BaseEvent
	Exact      int `json:"exact"`
	Fallback   int `json:"fallback"`
	Unresolved int `json:"unresolved"`
}

// NewRelinkCompleted builds a RelinkCompleted event. It carries no entity id.
func NewRelinkCompleted(exact, fallback, unresolved int) *RelinkCompleted {
	return &RelinkCompleted{
		BaseEvent:  NewBaseEvent(EventRelinkCompleted, EntityVideo, ""),
		Exact:      exact,
		Fallback:   fallback,
		Unresolved: unresolved,
	}
}

// Publisher is what producers need from a bus.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
