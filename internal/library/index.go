package library

// IndexVersion is the current persisted index document version.
const IndexVersion = 1

// Index is the flat, exportable library snapshot.
// It holds no live handles once loaded from disk.
type Index struct {
	Version     int          `json:"version"`
	Collections []Collection `json:"collections"`
	Videos      []MediaAsset `json:"videos"`
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		Version:     IndexVersion,
		Collections: []Collection{},
		Videos:      []MediaAsset{},
	}
}

// Append adds a collection and its assets.
func (x *Index) Append(c Collection, assets []MediaAsset) {
	x.Collections = append(x.Collections, c)
	x.Videos = append(x.Videos, assets...)
}

// Collection returns the collection with the given id.
func (x *Index) Collection(id string) (*Collection, error) {
	for i := range x.Collections {
		if x.Collections[i].ID == id {
			return &x.Collections[i], nil
		}
	}
	return nil, ErrNotFound
}

// CollectionVideos returns the assets belonging to a collection, in index order.
func (x *Index) CollectionVideos(collectionID string) []MediaAsset {
	var out []MediaAsset
	for _, v := range x.Videos {
		if v.CollectionID == collectionID {
			out = append(out, v)
		}
	}
	return out
}

// RemoveCollection deletes a collection together with its assets.
// Returns ErrNotFound if the collection does not exist.
func (x *Index) RemoveCollection(id string) error {
	found := false
	collections := x.Collections[:0]
	for _, c := range x.Collections {
		if c.ID == id {
			found = true
			continue
		}
		collections = append(collections, c)
	}
	if !found {
		return ErrNotFound
	}
	x.Collections = collections

	videos := x.Videos[:0]
	for _, v := range x.Videos {
		if v.CollectionID != id {
			videos = append(videos, v)
		}
	}
	x.Videos = videos
	return nil
}

// Unplayable returns the assets that have no live handle.
func (x *Index) Unplayable() []MediaAsset {
	var out []MediaAsset
	for _, v := range x.Videos {
		if !v.Playable() {
			out = append(out, v)
		}
	}
	return out
}

// detach clears every session-scoped handle.
func (x *Index) detach() {
	for i := range x.Videos {
		x.Videos[i].Handle = Handle{}
		for j := range x.Videos[i].Subtitles {
			x.Videos[i].Subtitles[j].Handle = Handle{}
		}
	}
}

func (x *Index) normalize() {
	if x.Version == 0 {
		x.Version = IndexVersion
	}
	if x.Collections == nil {
		x.Collections = []Collection{}
	}
	if x.Videos == nil {
		x.Videos = []MediaAsset{}
	}
	for i := range x.Videos {
		if x.Videos[i].Subtitles == nil {
			x.Videos[i].Subtitles = []SubtitleTrack{}
		}
	}
}
