package library

import (
	"context"
	"fmt"

	"github.com/vmunix/reelcat/internal/catalog"
)

const trackColumns = "id, episode_id, kind, language, codec, is_default, is_forced, is_external, path"

func scanTrack(row rowScanner) (*catalog.Track, error) {
	var t catalog.Track
	err := row.Scan(&t.ID, &t.EpisodeID, &t.Kind, &t.Language, &t.Codec,
		&t.IsDefault, &t.IsForced, &t.IsExternal, &t.Path)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func addTrack(ctx context.Context, q querier, t *catalog.Track) error {
	result, err := q.ExecContext(ctx, `
		INSERT INTO tracks (episode_id, kind, language, codec, is_default, is_forced, is_external, path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.EpisodeID, t.Kind, t.Language, t.Codec, t.IsDefault, t.IsForced, t.IsExternal, t.Path,
	)
	if err != nil {
		return fmt.Errorf("insert track %s: %w", t.Path, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	t.ID = id
	return nil
}

// CreateTrack inserts a track and returns it with its ID set.
// Returns ErrDuplicate for an external track whose file is already linked.
func (s *Store) CreateTrack(ctx context.Context, t *catalog.Track) (*catalog.Track, error) {
	if err := addTrack(ctx, s.db, t); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTrackIfAbsent inserts a track unless it is external and its file is
// already linked, in which case the existing track is returned with
// created=false. Embedded tracks are always inserted.
func (s *Store) CreateTrackIfAbsent(ctx context.Context, t *catalog.Track) (*catalog.Track, bool, error) {
	if !t.IsExternal {
		if err := addTrack(ctx, s.db, t); err != nil {
			return nil, false, err
		}
		return t, true, nil
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tracks (episode_id, kind, language, codec, is_default, is_forced, is_external, path)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT (path) WHERE is_external = 1 DO NOTHING`,
		t.EpisodeID, t.Kind, t.Language, t.Codec, t.IsDefault, t.IsForced, t.Path,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert track %s: %w", t.Path, mapSQLiteError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		existing, err := s.getExternalTrack(ctx, t.Path)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("get last insert id: %w", err)
	}
	t.ID = id
	return t, true, nil
}

func (s *Store) getExternalTrack(ctx context.Context, path string) (*catalog.Track, error) {
	t, err := scanTrack(s.db.QueryRowContext(ctx, `
		SELECT `+trackColumns+` FROM tracks WHERE path = ? AND is_external = 1`, path))
	if err != nil {
		return nil, fmt.Errorf("get track %s: %w", path, mapSQLiteError(err))
	}
	return t, nil
}

// ListTracks returns the tracks of an episode in insertion order.
func (s *Store) ListTracks(ctx context.Context, episodeID int64) ([]*catalog.Track, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+trackColumns+` FROM tracks WHERE episode_id = ? ORDER BY id`, episodeID)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tracks []*catalog.Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}
