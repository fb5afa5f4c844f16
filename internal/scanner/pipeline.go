package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vmunix/reelcat/internal/catalog"
	"github.com/vmunix/reelcat/internal/identify"
	"github.com/vmunix/reelcat/internal/merge"
	"github.com/vmunix/reelcat/internal/provider"
)

// ProcessFile registers a single file. Videos go through identification,
// show and season resolution (enriched through the providers on creation),
// episode creation and track linking. Sidecar subtitles are linked to the
// episode of their video when it is registered. Other files, and files
// already registered, are skipped without error.
func (s *Scanner) ProcessFile(ctx context.Context, path string) error {
	_, err := s.process(ctx, path)
	return err
}

// process reports whether path was registered.
func (s *Scanner) process(ctx context.Context, path string) (bool, error) {
	if ignored(filepath.Base(path)) {
		return false, nil
	}
	switch {
	case s.videos.has(path):
		return s.processVideo(ctx, path)
	case s.subtitles.has(path):
		return s.processSubtitle(ctx, path)
	default:
		return false, nil
	}
}

func (s *Scanner) processVideo(ctx context.Context, path string) (bool, error) {
	log := s.log.With("path", path)

	registered, err := s.repo.IsPathRegistered(ctx, path)
	if err != nil {
		return false, s.fail(ctx, log, persistence("check path", err))
	}
	if registered {
		log.Debug("already registered")
		return false, nil
	}

	res, err := s.ident.Identify(path)
	if err != nil {
		return false, s.fail(ctx, log, err)
	}

	show, err := s.resolveShow(ctx, res, log)
	if err != nil {
		return false, s.fail(ctx, log, err)
	}
	if res.Season != nil {
		if _, err := s.resolveSeason(ctx, res, show, log); err != nil {
			return false, s.fail(ctx, log, err)
		}
	}

	ep := res.Episode
	ep.ShowID = show.ID
	if err := ctx.Err(); err != nil {
		return false, s.fail(ctx, log, err)
	}
	ep, err = s.repo.CreateEpisode(ctx, ep)
	if err != nil {
		return false, s.fail(ctx, log, persistence("create episode", err))
	}
	log.Info("episode registered", "show", show.Slug, "episode_id", ep.ID)

	if err := s.registerTracks(ctx, ep, log); err != nil {
		return true, s.fail(ctx, log, err)
	}
	return true, nil
}

// processSubtitle links a sidecar subtitle to its episode. A subtitle whose
// video is not registered yet is skipped; registering the video picks it up.
func (s *Scanner) processSubtitle(ctx context.Context, path string) (bool, error) {
	log := s.log.With("path", path)

	tr, err := s.ident.IdentifyTrack(path)
	if err != nil {
		log.Debug("subtitle not identified", "error", err)
		return false, nil
	}
	ep, err := s.repo.EpisodeByBase(ctx, tr.EpisodeBase)
	if err != nil {
		return false, s.fail(ctx, log, persistence("find episode", err))
	}
	if ep == nil {
		log.Debug("no episode for subtitle", "episode", tr.EpisodeBase)
		return false, nil
	}

	tr.Track.EpisodeID = ep.ID
	_, created, err := s.repo.CreateTrackIfAbsent(ctx, tr.Track)
	if err != nil {
		return false, s.fail(ctx, log, persistence("create track", err))
	}
	if created {
		log.Info("subtitle registered", "episode_id", ep.ID)
	}
	return created, nil
}

// fail logs err under its category and returns it.
func (s *Scanner) fail(ctx context.Context, log *slog.Logger, err error) error {
	var hookErr *merge.HookError
	switch {
	case ctx.Err() != nil:
		log.Debug("file abandoned", "error", err)
	case errors.Is(err, identify.ErrIdentificationFailed):
		log.Warn("identification failed", "error", err)
	case errors.Is(err, ErrPersistence):
		log.Error("persistence error", "error", err)
	case errors.As(err, &hookErr):
		log.Error("merge hook failure", "field", hookErr.Field, "error", err)
	default:
		log.Error("file failed", "error", err)
	}
	return err
}

// resolveShow returns the show at res.Show.Path, creating it when absent.
// Concurrent discoveries of the same show share one creation and one
// enrichment.
func (s *Scanner) resolveShow(ctx context.Context, res *identify.Result, log *slog.Logger) (*catalog.Show, error) {
	key := res.Root.Path + "|" + res.Show.Path
	v, err, _ := s.showFlight.Do(key, func() (any, error) {
		var buildErr error
		show, created, err := s.repo.CreateShowIfAbsent(ctx, res.Show.Path, func(ctx context.Context) (*catalog.Show, error) {
			show, err := enrich(ctx, s.shows, res.Root, res.Show)
			buildErr = err
			return show, err
		})
		if err != nil {
			if buildErr != nil && errors.Is(err, buildErr) {
				return nil, fmt.Errorf("enrich show %s: %w", res.Show.Slug, err)
			}
			return nil, persistence("create show", err)
		}
		if created {
			log.Info("show created", "show", show.Slug, "show_id", show.ID)
		}
		return show, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*catalog.Show), nil
}

// resolveSeason returns the season res.Season of show, creating it when
// absent.
func (s *Scanner) resolveSeason(ctx context.Context, res *identify.Result, show *catalog.Show, log *slog.Logger) (*catalog.Season, error) {
	number := res.Season.SeasonNumber
	key := strconv.FormatInt(show.ID, 10) + "|" + strconv.Itoa(number)
	v, err, _ := s.seasonFlight.Do(key, func() (any, error) {
		var buildErr error
		season, created, err := s.repo.CreateSeasonIfAbsent(ctx, show, number, func(ctx context.Context) (*catalog.Season, error) {
			anchor := res.Season
			anchor.ShowID = show.ID
			season, err := enrich(ctx, s.seasons, res.Root, anchor)
			buildErr = err
			return season, err
		})
		if err != nil {
			if buildErr != nil && errors.Is(err, buildErr) {
				return nil, fmt.Errorf("enrich season %d of %s: %w", number, show.Slug, err)
			}
			return nil, persistence("create season", err)
		}
		if created {
			log.Info("season created", "show", show.Slug, "season", number, "season_id", season.ID)
		}
		return season, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*catalog.Season), nil
}

// enrich completes anchor through the gateway, restricted to the providers
// enabled on root. It fails when ctx was cancelled meanwhile so nothing is
// persisted for an abandoned file.
func enrich[T any](ctx context.Context, gw *provider.Gateway[T], root *identify.LibraryRoot, anchor *T) (*T, error) {
	if gw != nil {
		if len(root.Providers) > 0 {
			gw = gw.Select(root.Providers)
		}
		res, err := gw.Get(ctx, anchor)
		if err != nil {
			return nil, err
		}
		anchor = res.Value
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return anchor, nil
}

// registerTracks links the sidecar subtitles of ep, or the streams the
// transcoder finds in its container when there is none.
func (s *Scanner) registerTracks(ctx context.Context, ep *catalog.Episode, log *slog.Logger) error {
	tracks := s.sidecars(ep.Path, log)
	if len(tracks) == 0 {
		if s.transcoder == nil || !s.containers.has(ep.Path) {
			return nil
		}
		extracted, err := s.transcoder.ExtractTracks(ctx, ep.Path)
		if err != nil {
			return fmt.Errorf("extract tracks: %w", err)
		}
		tracks = extracted
	}

	count := 0
	for _, t := range tracks {
		if t == nil {
			continue
		}
		t.EpisodeID = ep.ID
		if t.IsExternal {
			// The subtitle may have been linked on its own meanwhile.
			_, created, err := s.repo.CreateTrackIfAbsent(ctx, t)
			if err != nil {
				return persistence("create track", err)
			}
			if !created {
				continue
			}
		} else if _, err := s.repo.CreateTrack(ctx, t); err != nil {
			return persistence("create track", err)
		}
		count++
	}
	if count > 0 {
		log.Debug("tracks registered", "count", count)
	}
	return nil
}

// sidecars returns the subtitle tracks next to videoPath that belong to it.
func (s *Scanner) sidecars(videoPath string, log *slog.Logger) []*catalog.Track {
	dir := filepath.Dir(videoPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("list sidecars", "error", err)
		return nil
	}

	base := identify.EpisodeBase(videoPath)
	var tracks []*catalog.Track
	for _, e := range entries {
		if e.IsDir() || !s.subtitles.has(e.Name()) {
			continue
		}
		tr, err := s.ident.IdentifyTrack(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Debug("subtitle not identified", "subtitle", e.Name(), "error", err)
			continue
		}
		if tr.EpisodeBase == base {
			tracks = append(tracks, tr.Track)
		}
	}
	return tracks
}
