package library

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/vmunix/reelcat/internal/catalog"
)

const episodeColumns = "id, show_id, season_number, episode_number, absolute_number, path, title, overview"

func scanEpisode(row rowScanner) (*catalog.Episode, error) {
	var e catalog.Episode
	err := row.Scan(&e.ID, &e.ShowID, &e.SeasonNumber, &e.EpisodeNumber, &e.AbsoluteNumber,
		&e.Path, &e.Title, &e.Overview)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func addEpisode(ctx context.Context, q querier, e *catalog.Episode) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("insert episode %s: %w: %w", e.Path, ErrConstraint, err)
	}
	result, err := q.ExecContext(ctx, `
		INSERT INTO episodes (show_id, season_number, episode_number, absolute_number, path, title, overview)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ShowID, e.SeasonNumber, e.EpisodeNumber, e.AbsoluteNumber, e.Path, e.Title, e.Overview,
	)
	if err != nil {
		return fmt.Errorf("insert episode %s: %w", e.Path, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// CreateEpisode inserts an episode and returns it with its ID set.
// Returns ErrDuplicate if the path is already registered and ErrConstraint
// for a partial season/episode pair or an unknown show.
func (s *Store) CreateEpisode(ctx context.Context, e *catalog.Episode) (*catalog.Episode, error) {
	if err := addEpisode(ctx, s.db, e); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateEpisode inserts an episode within a transaction.
func (t *Tx) CreateEpisode(ctx context.Context, e *catalog.Episode) (*catalog.Episode, error) {
	if err := addEpisode(ctx, t.tx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// IsPathRegistered reports whether an episode exists for path.
func (s *Store) IsPathRegistered(ctx context.Context, path string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM episodes WHERE path = ?)", path).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check path %s: %w", path, mapSQLiteError(err))
	}
	return exists, nil
}

// GetEpisodeByPath retrieves the episode registered for path.
// Returns ErrNotFound if there is none.
func (s *Store) GetEpisodeByPath(ctx context.Context, path string) (*catalog.Episode, error) {
	e, err := scanEpisode(s.db.QueryRowContext(ctx, "SELECT "+episodeColumns+" FROM episodes WHERE path = ?", path))
	if err != nil {
		return nil, fmt.Errorf("get episode %s: %w", path, mapSQLiteError(err))
	}
	return e, nil
}

// EpisodeByBase returns the episode whose path without its extension is
// base, the key sidecar files are matched on. Returns nil when no such
// episode is registered.
func (s *Store) EpisodeByBase(ctx context.Context, base string) (*catalog.Episode, error) {
	// Every path starting with base+"." sorts between these bounds.
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+episodeColumns+" FROM episodes WHERE path >= ? AND path < ? ORDER BY path",
		base+".", base+"/")
	if err != nil {
		return nil, fmt.Errorf("find episode %s: %w", base, mapSQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		if strings.TrimSuffix(e.Path, path.Ext(e.Path)) == base {
			return e, nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return nil, nil
}

// ListEpisodes returns the episodes of a show in airing order, movies and
// absolute-only episodes last.
func (s *Store) ListEpisodes(ctx context.Context, showID int64) ([]*catalog.Episode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+episodeColumns+` FROM episodes WHERE show_id = ?
		ORDER BY season_number IS NULL, season_number, episode_number, absolute_number, path`, showID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var episodes []*catalog.Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return episodes, nil
}

// DeleteEpisodeByPath removes the episode registered for path with its
// tracks. This operation is idempotent.
func (s *Store) DeleteEpisodeByPath(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM episodes WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete episode %s: %w", path, mapSQLiteError(err))
	}
	return nil
}
