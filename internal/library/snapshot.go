package library

import (
	"fmt"
	"strconv"
	"time"
)

func replaceSnapshot(q querier, idx *Index) error {
	for _, table := range []string{"subtitle_tracks", "video_tags", "videos", "collections", "snapshot_meta"} {
		if _, err := q.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, mapSQLiteError(err))
		}
	}

	if _, err := q.Exec(`INSERT INTO snapshot_meta (key, value) VALUES ('version', ?)`,
		strconv.Itoa(idx.Version)); err != nil {
		return fmt.Errorf("insert version: %w", mapSQLiteError(err))
	}

	for pos, c := range idx.Collections {
		_, err := q.Exec(`
			INSERT INTO collections (id, position, name, thumbnail_url, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			c.ID, pos, c.Name, c.ThumbnailURL, c.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert collection %s: %w", c.ID, mapSQLiteError(err))
		}
	}

	for pos, v := range idx.Videos {
		_, err := q.Exec(`
			INSERT INTO videos (id, position, collection_id, file_name, relative_path, thumbnail_url, title, plot, size_bytes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ID, pos, v.CollectionID, v.FileName, v.RelativePath, v.ThumbnailURL,
			v.Metadata.Title, v.Metadata.Plot, v.Size,
		)
		if err != nil {
			return fmt.Errorf("insert video %s: %w", v.ID, mapSQLiteError(err))
		}
		for tpos, tag := range v.Metadata.Tags.Values() {
			if _, err := q.Exec(`INSERT INTO video_tags (video_id, position, tag) VALUES (?, ?, ?)`,
				v.ID, tpos, tag); err != nil {
				return fmt.Errorf("insert tag for %s: %w", v.ID, mapSQLiteError(err))
			}
		}
		for spos, s := range v.Subtitles {
			_, err := q.Exec(`
				INSERT INTO subtitle_tracks (video_id, position, label, language, relative_path)
				VALUES (?, ?, ?, ?, ?)`,
				v.ID, spos, s.Label, s.Language, s.RelativePath,
			)
			if err != nil {
				return fmt.Errorf("insert subtitle for %s: %w", v.ID, mapSQLiteError(err))
			}
		}
	}
	return nil
}

// Replace overwrites the stored snapshot with idx.
func (s *Store) Replace(idx *Index) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := tx.Replace(idx); err != nil {
		return err
	}
	return tx.Commit()
}

// Replace overwrites the stored snapshot within a transaction.
func (t *Tx) Replace(idx *Index) error { return replaceSnapshot(t.tx, idx) }

func readSnapshot(q querier) (*Index, error) {
	idx := NewIndex()

	var version string
	err := q.QueryRow(`SELECT value FROM snapshot_meta WHERE key = 'version'`).Scan(&version)
	switch mapSQLiteError(err) {
	case nil:
		if n, convErr := strconv.Atoi(version); convErr == nil {
			idx.Version = n
		}
	case ErrNotFound:
		// empty snapshot
	default:
		return nil, fmt.Errorf("read version: %w", err)
	}

	if err := readCollections(q, idx); err != nil {
		return nil, err
	}
	byID, err := readVideos(q, idx)
	if err != nil {
		return nil, err
	}
	if err := readTags(q, idx, byID); err != nil {
		return nil, err
	}
	if err := readSubtitles(q, idx, byID); err != nil {
		return nil, err
	}
	return idx, nil
}

// Each reader closes its rows before returning so a single-connection
// pool never has two cursors open.

func readCollections(q querier, idx *Index) error {
	rows, err := q.Query(`SELECT id, name, thumbnail_url, created_at FROM collections ORDER BY position`)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c Collection
		var created string
		if err := rows.Scan(&c.ID, &c.Name, &c.ThumbnailURL, &created); err != nil {
			return fmt.Errorf("scan collection: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			c.CreatedAt = t
		}
		idx.Collections = append(idx.Collections, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate collections: %w", err)
	}
	return nil
}

func readVideos(q querier, idx *Index) (map[string]int, error) {
	rows, err := q.Query(`
		SELECT id, collection_id, file_name, relative_path, thumbnail_url, title, plot, size_bytes
		FROM videos ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[string]int)
	for rows.Next() {
		var v MediaAsset
		if err := rows.Scan(&v.ID, &v.CollectionID, &v.FileName, &v.RelativePath,
			&v.ThumbnailURL, &v.Metadata.Title, &v.Metadata.Plot, &v.Size); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		v.Subtitles = []SubtitleTrack{}
		byID[v.ID] = len(idx.Videos)
		idx.Videos = append(idx.Videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return byID, nil
}

func readTags(q querier, idx *Index, byID map[string]int) error {
	rows, err := q.Query(`SELECT video_id, tag FROM video_tags ORDER BY video_id, position`)
	if err != nil {
		return fmt.Errorf("list tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if i, ok := byID[id]; ok {
			idx.Videos[i].Metadata.Tags.Add(tag)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate tags: %w", err)
	}
	return nil
}

func readSubtitles(q querier, idx *Index, byID map[string]int) error {
	rows, err := q.Query(`
		SELECT video_id, label, language, relative_path
		FROM subtitle_tracks ORDER BY video_id, position`)
	if err != nil {
		return fmt.Errorf("list subtitles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id string
		var s SubtitleTrack
		if err := rows.Scan(&id, &s.Label, &s.Language, &s.RelativePath); err != nil {
			return fmt.Errorf("scan subtitle: %w", err)
		}
		if i, ok := byID[id]; ok {
			idx.Videos[i].Subtitles = append(idx.Videos[i].Subtitles, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate subtitles: %w", err)
	}
	return nil
}

// Snapshot reads the stored index. Handles are always absent.
func (s *Store) Snapshot() (*Index, error) { return readSnapshot(s.db) }

// Snapshot reads the stored index within a transaction.
func (t *Tx) Snapshot() (*Index, error) { return readSnapshot(t.tx) }
