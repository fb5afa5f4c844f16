package library

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/vmunix/reelcat/internal/catalog"
)

const seasonColumns = "id, show_id, season_number, title, overview, external_ids"

func scanSeason(row rowScanner) (*catalog.Season, error) {
	var season catalog.Season
	var ids string
	if err := row.Scan(&season.ID, &season.ShowID, &season.SeasonNumber, &season.Title, &season.Overview, &ids); err != nil {
		return nil, err
	}
	if err := decodeJSON(ids, &season.ExternalIDs); err != nil {
		return nil, err
	}
	return &season, nil
}

func addSeason(ctx context.Context, q querier, season *catalog.Season) error {
	ids, err := encodeJSON(season.ExternalIDs, "{}")
	if err != nil {
		return err
	}
	result, err := q.ExecContext(ctx, `
		INSERT INTO seasons (show_id, season_number, title, overview, external_ids)
		VALUES (?, ?, ?, ?, ?)`,
		season.ShowID, season.SeasonNumber, season.Title, season.Overview, ids,
	)
	if err != nil {
		return fmt.Errorf("insert season %d of show %d: %w", season.SeasonNumber, season.ShowID, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	season.ID = id
	return nil
}

// AddSeason inserts a season within a transaction.
func (t *Tx) AddSeason(ctx context.Context, season *catalog.Season) error {
	return addSeason(ctx, t.tx, season)
}

func getSeason(ctx context.Context, q querier, showID int64, number int) (*catalog.Season, error) {
	season, err := scanSeason(q.QueryRowContext(ctx,
		"SELECT "+seasonColumns+" FROM seasons WHERE show_id = ? AND season_number = ?", showID, number))
	if err != nil {
		return nil, fmt.Errorf("get season %d of show %d: %w", number, showID, mapSQLiteError(err))
	}
	return season, nil
}

// GetSeason retrieves a season of a show.
// Returns ErrNotFound if the season does not exist.
func (s *Store) GetSeason(ctx context.Context, showID int64, number int) (*catalog.Season, error) {
	return getSeason(ctx, s.db, showID, number)
}

// ListSeasons returns the seasons of a show ordered by number.
func (s *Store) ListSeasons(ctx context.Context, showID int64) ([]*catalog.Season, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+seasonColumns+" FROM seasons WHERE show_id = ? ORDER BY season_number", showID)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var seasons []*catalog.Season
	for rows.Next() {
		season, err := scanSeason(rows)
		if err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		seasons = append(seasons, season)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seasons: %w", err)
	}
	return seasons, nil
}

// CreateSeasonIfAbsent returns season number of show, or builds and inserts
// it. The identity of the built season is forced to (show, number).
func (s *Store) CreateSeasonIfAbsent(ctx context.Context, show *catalog.Show, number int, build func(context.Context) (*catalog.Season, error)) (*catalog.Season, bool, error) {
	unlock := s.locks.lock("season|" + strconv.FormatInt(show.ID, 10) + "|" + strconv.Itoa(number))
	defer unlock()

	existing, err := getSeason(ctx, s.db, show.ID, number)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	season, err := build(ctx)
	if err != nil {
		return nil, false, err
	}
	season.ShowID = show.ID
	season.SeasonNumber = number

	err = s.inTx(ctx, func(tx *Tx) error { return addSeason(ctx, tx.tx, season) })
	if errors.Is(err, ErrDuplicate) {
		existing, getErr := getSeason(ctx, s.db, show.ID, number)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return season, true, nil
}
