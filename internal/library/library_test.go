package library

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileEntry(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantExt string
		wantNm  string
	}{
		{"nested", "Movies/Alien/Alien.MKV", "mkv", "Alien.MKV"},
		{"root level", "clip.mp4", "mp4", "clip.mp4"},
		{"leading slash", "/A/b.srt", "srt", "b.srt"},
		{"multi dot", "A/movie.en.forced.srt", "srt", "movie.en.forced.srt"},
		{"no extension", "A/README", "", "README"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewFileEntry(tt.path, 10, Handle{})
			assert.Equal(t, tt.wantExt, e.Extension)
			assert.Equal(t, tt.wantNm, e.Name)
			assert.False(t, e.Handle.Live())
		})
	}
}

func TestDefaultMetadata(t *testing.T) {
	m := DefaultMetadata("The.Movie.2024.mkv")
	assert.Equal(t, "The.Movie.2024", m.Title)
	assert.Empty(t, m.Plot)
	assert.Zero(t, m.Tags.Len())
}

func TestTagSet(t *testing.T) {
	s := NewTagSet("Drama", "drama", "Drama", "  ", " Sci-Fi ")

	assert.Equal(t, []string{"Drama", "drama", "Sci-Fi"}, s.Values(), "case-sensitive, trimmed, deduplicated")
	assert.True(t, s.Has("Sci-Fi"))
	assert.False(t, s.Add("drama"))
	assert.True(t, s.Add("Noir"))
	assert.Equal(t, 4, s.Len())
}

func TestTagSet_EqualIgnoresOrder(t *testing.T) {
	a := NewTagSet("a", "b", "c")
	b := NewTagSet("c", "a", "b")
	c := NewTagSet("a", "b")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, TagSet{}.Equal(NewTagSet()))
}

func TestTagSet_JSON(t *testing.T) {
	data, err := json.Marshal(NewTagSet("x", "y"))
	require.NoError(t, err)
	assert.JSONEq(t, `["x","y"]`, string(data))

	empty, err := json.Marshal(TagSet{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))

	var s TagSet
	require.NoError(t, json.Unmarshal([]byte(`["b","a","b"]`), &s))
	assert.Equal(t, []string{"b", "a"}, s.Values())
}

func TestHandle(t *testing.T) {
	var absent Handle
	assert.False(t, absent.Live())
	_, err := absent.Open()
	assert.True(t, errors.Is(err, ErrHandleMissing))
	_, ok := absent.Path()
	assert.False(t, ok)

	p := filepath.Join(t.TempDir(), "movie.mp4")
	require.NoError(t, os.WriteFile(p, []byte("data"), 0644))

	h := NewHandle(p)
	assert.True(t, h.Live())
	got, err := h.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}

func TestDeriveCollectionThumbnail(t *testing.T) {
	assets := []MediaAsset{
		{ID: "1"},
		{ID: "2", ThumbnailURL: "/thumbs/2.jpg"},
		{ID: "3", ThumbnailURL: "/thumbs/3.jpg"},
	}
	assert.Equal(t, "/thumbs/2.jpg", DeriveCollectionThumbnail(assets))
	assert.Empty(t, DeriveCollectionThumbnail(assets[:1]))
}

func TestIndex_RemoveCollection(t *testing.T) {
	idx := NewIndex()
	idx.Append(Collection{ID: "c1", Name: "One"}, []MediaAsset{{ID: "v1", CollectionID: "c1"}})
	idx.Append(Collection{ID: "c2", Name: "Two"}, []MediaAsset{{ID: "v2", CollectionID: "c2"}, {ID: "v3", CollectionID: "c2"}})

	require.NoError(t, idx.RemoveCollection("c2"))
	assert.Len(t, idx.Collections, 1)
	assert.Len(t, idx.Videos, 1)
	assert.Equal(t, "v1", idx.Videos[0].ID)

	err := idx.RemoveCollection("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestIndex_CollectionLookups(t *testing.T) {
	idx := NewIndex()
	idx.Append(Collection{ID: "c1"}, []MediaAsset{
		{ID: "v1", CollectionID: "c1", Handle: NewHandle("/x")},
		{ID: "v2", CollectionID: "c1"},
	})

	c, err := idx.Collection("c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)

	_, err = idx.Collection("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, idx.CollectionVideos("c1"), 2)

	unplayable := idx.Unplayable()
	require.Len(t, unplayable, 1)
	assert.Equal(t, "v2", unplayable[0].ID)
}
