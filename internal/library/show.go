package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vmunix/reelcat/internal/catalog"
)

const showColumns = `s.id, s.slug, s.title, s.path, s.overview, s.status, s.start_year, s.end_year,
	s.is_movie, s.aliases, s.genres, s.external_ids, c.slug, c.name`

const showFrom = `FROM shows s LEFT JOIN collections c ON c.id = s.collection_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShow(row rowScanner) (*catalog.Show, error) {
	var (
		show                           catalog.Show
		aliases, genres, ids           string
		collectionSlug, collectionName sql.NullString
	)
	err := row.Scan(&show.ID, &show.Slug, &show.Title, &show.Path, &show.Overview, &show.Status,
		&show.StartYear, &show.EndYear, &show.IsMovie, &aliases, &genres, &ids,
		&collectionSlug, &collectionName)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(aliases, &show.Aliases); err != nil {
		return nil, err
	}
	if err := decodeJSON(genres, &show.Genres); err != nil {
		return nil, err
	}
	if err := decodeJSON(ids, &show.ExternalIDs); err != nil {
		return nil, err
	}
	if collectionSlug.Valid {
		show.Collection = &catalog.Collection{Slug: collectionSlug.String, Name: collectionName.String}
	}
	return &show, nil
}

func upsertCollection(ctx context.Context, q querier, c *catalog.Collection) (*int64, error) {
	if c == nil || c.Slug == "" {
		return nil, nil
	}
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO collections (slug, name) VALUES (?, ?)
		ON CONFLICT(slug) DO UPDATE SET name = CASE WHEN excluded.name <> '' THEN excluded.name ELSE collections.name END
		RETURNING id`,
		c.Slug, c.Name,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("upsert collection %s: %w", c.Slug, mapSQLiteError(err))
	}
	return &id, nil
}

func addShow(ctx context.Context, q querier, show *catalog.Show) error {
	collectionID, err := upsertCollection(ctx, q, show.Collection)
	if err != nil {
		return err
	}
	aliases, err := encodeJSON(show.Aliases, "[]")
	if err != nil {
		return err
	}
	genres, err := encodeJSON(show.Genres, "[]")
	if err != nil {
		return err
	}
	ids, err := encodeJSON(show.ExternalIDs, "{}")
	if err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO shows (slug, title, path, overview, status, start_year, end_year, is_movie,
			collection_id, aliases, genres, external_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		show.Slug, show.Title, show.Path, show.Overview, show.Status, show.StartYear, show.EndYear,
		show.IsMovie, collectionID, aliases, genres, ids,
	)
	if err != nil {
		return fmt.Errorf("insert show %s: %w", show.Path, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	show.ID = id
	return nil
}

// AddShow inserts a show. Sets ID on the struct.
// Returns ErrDuplicate if a show already exists at its path.
func (s *Store) AddShow(ctx context.Context, show *catalog.Show) error {
	return s.inTx(ctx, func(tx *Tx) error { return addShow(ctx, tx.tx, show) })
}

// AddShow inserts a show within a transaction.
func (t *Tx) AddShow(ctx context.Context, show *catalog.Show) error {
	return addShow(ctx, t.tx, show)
}

func getShow(ctx context.Context, q querier, id int64) (*catalog.Show, error) {
	show, err := scanShow(q.QueryRowContext(ctx, "SELECT "+showColumns+" "+showFrom+" WHERE s.id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get show %d: %w", id, mapSQLiteError(err))
	}
	return show, nil
}

// GetShow retrieves a show by ID.
// Returns ErrNotFound if the show does not exist.
func (s *Store) GetShow(ctx context.Context, id int64) (*catalog.Show, error) {
	return getShow(ctx, s.db, id)
}

func getShowByPath(ctx context.Context, q querier, path string) (*catalog.Show, error) {
	show, err := scanShow(q.QueryRowContext(ctx, "SELECT "+showColumns+" "+showFrom+" WHERE s.path = ?", path))
	if err != nil {
		return nil, fmt.Errorf("get show %s: %w", path, mapSQLiteError(err))
	}
	return show, nil
}

// GetShowByPath retrieves the show stored at a library path.
// Returns ErrNotFound if there is none.
func (s *Store) GetShowByPath(ctx context.Context, path string) (*catalog.Show, error) {
	return getShowByPath(ctx, s.db, path)
}

// ListShows returns every show ordered by slug.
func (s *Store) ListShows(ctx context.Context) ([]*catalog.Show, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+showColumns+" "+showFrom+" ORDER BY s.slug, s.id")
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var shows []*catalog.Show
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		shows = append(shows, show)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shows: %w", err)
	}
	return shows, nil
}

// CreateShowIfAbsent returns the show stored at path, or builds and inserts
// it. build runs only when the show does not exist yet; its error is
// returned unchanged and nothing is written. created reports whether this
// call inserted the show.
func (s *Store) CreateShowIfAbsent(ctx context.Context, path string, build func(context.Context) (*catalog.Show, error)) (*catalog.Show, bool, error) {
	unlock := s.locks.lock("show|" + path)
	defer unlock()

	existing, err := getShowByPath(ctx, s.db, path)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	show, err := build(ctx)
	if err != nil {
		return nil, false, err
	}
	show.Path = path

	err = s.inTx(ctx, func(tx *Tx) error { return addShow(ctx, tx.tx, show) })
	if errors.Is(err, ErrDuplicate) {
		// Inserted by another process sharing the database.
		existing, getErr := getShowByPath(ctx, s.db, path)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return show, true, nil
}

// DeleteShow removes a show with its seasons, episodes and tracks.
// This operation is idempotent.
func (s *Store) DeleteShow(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM shows WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete show %d: %w", id, mapSQLiteError(err))
	}
	return nil
}
