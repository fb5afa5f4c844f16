package library

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/reelcat/internal/catalog"
	"github.com/vmunix/reelcat/internal/scanner"
)

var _ scanner.Repository = (*Store)(nil)

func TestStore_CreateShowIfAbsent(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	show := &catalog.Show{
		Slug:        "anohana",
		Title:       "Anohana",
		Aliases:     []string{"Ano Hi Mita Hana no Namae o Bokutachi wa Mada Shiranai."},
		Genres:      []string{"drama"},
		Status:      catalog.StatusFinished,
		StartYear:   ptr(2011),
		Collection:  &catalog.Collection{Slug: "anime", Name: "Anime"},
		ExternalIDs: map[string]catalog.MetadataID{"anilist": {ProviderSlug: "anilist", DataID: "9989"}},
	}
	got, created, err := store.CreateShowIfAbsent(ctx, "/media/anime/Anohana", buildShow(show))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "/media/anime/Anohana", got.Path, "path is forced")

	again, created, err := store.CreateShowIfAbsent(ctx, "/media/anime/Anohana",
		func(context.Context) (*catalog.Show, error) {
			t.Fatal("build must not run for an existing show")
			return nil, nil
		})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, got.ID, again.ID)

	stored, err := store.GetShow(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "anohana", stored.Slug)
	assert.Equal(t, catalog.StatusFinished, stored.Status)
	assert.Equal(t, 2011, *stored.StartYear)
	assert.Nil(t, stored.EndYear)
	assert.Equal(t, show.Aliases, stored.Aliases)
	assert.Equal(t, []string{"drama"}, stored.Genres)
	assert.Equal(t, "9989", stored.ExternalIDs["anilist"].DataID)
	require.NotNil(t, stored.Collection)
	assert.Equal(t, catalog.Collection{Slug: "anime", Name: "Anime"}, *stored.Collection)
}

func TestStore_CreateShowIfAbsent_BuildError(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	buildErr := errors.New("cancelled")
	_, created, err := store.CreateShowIfAbsent(ctx, "/media/Show",
		func(context.Context) (*catalog.Show, error) { return nil, buildErr })
	assert.ErrorIs(t, err, buildErr)
	assert.False(t, created)

	_, err = store.GetShowByPath(ctx, "/media/Show")
	assert.ErrorIs(t, err, ErrNotFound, "nothing is written")
}

func TestStore_CreateShowIfAbsent_Concurrent(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	var builds atomic.Int32
	var wg sync.WaitGroup
	ids := make([]int64, 8)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			show, _, err := store.CreateShowIfAbsent(ctx, "/media/Show",
				func(context.Context) (*catalog.Show, error) {
					builds.Add(1)
					time.Sleep(5 * time.Millisecond)
					return &catalog.Show{Slug: "show", Title: "Show"}, nil
				})
			assert.NoError(t, err)
			if show != nil {
				ids[i] = show.ID
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	shows, err := store.ListShows(ctx)
	require.NoError(t, err)
	assert.Len(t, shows, 1)
}

func TestStore_CollectionsAreShared(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	a := &catalog.Show{Slug: "a", Title: "A", Collection: &catalog.Collection{Slug: "anime", Name: "Anime"}}
	b := &catalog.Show{Slug: "b", Title: "B", Collection: &catalog.Collection{Slug: "anime"}}
	_, _, err := store.CreateShowIfAbsent(ctx, "/media/anime/A", buildShow(a))
	require.NoError(t, err)
	_, _, err = store.CreateShowIfAbsent(ctx, "/media/anime/B", buildShow(b))
	require.NoError(t, err)

	shows, err := store.ListShows(ctx)
	require.NoError(t, err)
	require.Len(t, shows, 2)
	for _, s := range shows {
		require.NotNil(t, s.Collection)
		assert.Equal(t, "Anime", s.Collection.Name, "an empty name keeps the stored one")
	}
}

func TestStore_CreateSeasonIfAbsent(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	show, _, err := store.CreateShowIfAbsent(ctx, "/media/Show", buildShow(&catalog.Show{Slug: "show", Title: "Show"}))
	require.NoError(t, err)

	season, created, err := store.CreateSeasonIfAbsent(ctx, show, 2,
		func(context.Context) (*catalog.Season, error) {
			return &catalog.Season{SeasonNumber: 99, Title: "Season Two"}, nil
		})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, show.ID, season.ShowID)
	assert.Equal(t, 2, season.SeasonNumber, "identity is forced")

	again, created, err := store.CreateSeasonIfAbsent(ctx, show, 2,
		func(context.Context) (*catalog.Season, error) {
			t.Fatal("build must not run for an existing season")
			return nil, nil
		})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, season.ID, again.ID)
	assert.Equal(t, "Season Two", again.Title)

	seasons, err := store.ListSeasons(ctx, show.ID)
	require.NoError(t, err)
	assert.Len(t, seasons, 1)
}

func TestStore_Episodes(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	show, _, err := store.CreateShowIfAbsent(ctx, "/media/Show", buildShow(&catalog.Show{Slug: "show", Title: "Show"}))
	require.NoError(t, err)

	registered, err := store.IsPathRegistered(ctx, "/media/Show/Show S01E02.mkv")
	require.NoError(t, err)
	assert.False(t, registered)

	for _, e := range []*catalog.Episode{
		{ShowID: show.ID, Path: "/media/Show/Show 100.mkv", AbsoluteNumber: ptr(100)},
		{ShowID: show.ID, Path: "/media/Show/Show S01E02.mkv", SeasonNumber: ptr(1), EpisodeNumber: ptr(2)},
		{ShowID: show.ID, Path: "/media/Show/Show S01E01.mkv", SeasonNumber: ptr(1), EpisodeNumber: ptr(1), Title: "Pilot"},
	} {
		created, err := store.CreateEpisode(ctx, e)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
	}

	registered, err = store.IsPathRegistered(ctx, "/media/Show/Show S01E02.mkv")
	require.NoError(t, err)
	assert.True(t, registered)

	episodes, err := store.ListEpisodes(ctx, show.ID)
	require.NoError(t, err)
	require.Len(t, episodes, 3)
	assert.Equal(t, "Pilot", episodes[0].Title)
	assert.Equal(t, 2, *episodes[1].EpisodeNumber)
	assert.Nil(t, episodes[2].SeasonNumber)
	assert.Equal(t, 100, *episodes[2].AbsoluteNumber)

	got, err := store.GetEpisodeByPath(ctx, "/media/Show/Show S01E01.mkv")
	require.NoError(t, err)
	assert.Equal(t, 1, *got.SeasonNumber)
}

func TestStore_CreateEpisode_Errors(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	show, _, err := store.CreateShowIfAbsent(ctx, "/media/Show", buildShow(&catalog.Show{Slug: "show", Title: "Show"}))
	require.NoError(t, err)

	_, err = store.CreateEpisode(ctx, &catalog.Episode{ShowID: show.ID, Path: "/media/Show/x.mkv"})
	require.NoError(t, err)

	_, err = store.CreateEpisode(ctx, &catalog.Episode{ShowID: show.ID, Path: "/media/Show/x.mkv"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = store.CreateEpisode(ctx, &catalog.Episode{ShowID: show.ID, Path: "/media/Show/y.mkv", SeasonNumber: ptr(1)})
	assert.ErrorIs(t, err, ErrConstraint)
	assert.ErrorIs(t, err, catalog.ErrInvalidNumbering)

	_, err = store.CreateEpisode(ctx, &catalog.Episode{ShowID: 404, Path: "/media/Other/z.mkv"})
	assert.ErrorIs(t, err, ErrConstraint, "unknown show")
}

func TestStore_Tracks(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	show, _, err := store.CreateShowIfAbsent(ctx, "/media/Show", buildShow(&catalog.Show{Slug: "show", Title: "Show"}))
	require.NoError(t, err)
	ep, err := store.CreateEpisode(ctx, &catalog.Episode{ShowID: show.ID, Path: "/media/Show/Show S01E01.mkv", SeasonNumber: ptr(1), EpisodeNumber: ptr(1)})
	require.NoError(t, err)

	// Embedded tracks share the video path.
	for _, tr := range []*catalog.Track{
		{EpisodeID: ep.ID, Kind: catalog.TrackVideo, Codec: ptr("hevc"), IsDefault: true, Path: ep.Path},
		{EpisodeID: ep.ID, Kind: catalog.TrackAudio, Language: ptr("jpn"), Codec: ptr("flac"), Path: ep.Path},
		{EpisodeID: ep.ID, Kind: catalog.TrackSubtitle, Language: ptr("eng"), Codec: ptr("subrip"), IsExternal: true, IsForced: true, Path: "/media/Show/Show S01E01.eng.forced.srt"},
	} {
		_, err := store.CreateTrack(ctx, tr)
		require.NoError(t, err)
	}

	_, err = store.CreateTrack(ctx, &catalog.Track{EpisodeID: ep.ID, Kind: catalog.TrackSubtitle, IsExternal: true, Path: "/media/Show/Show S01E01.eng.forced.srt"})
	assert.ErrorIs(t, err, ErrDuplicate, "a sidecar is linked once")

	_, err = store.CreateTrack(ctx, &catalog.Track{EpisodeID: ep.ID, Kind: "chapters", Path: ep.Path})
	assert.ErrorIs(t, err, ErrConstraint)

	tracks, err := store.ListTracks(ctx, ep.ID)
	require.NoError(t, err)
	require.Len(t, tracks, 3)
	assert.Equal(t, catalog.TrackVideo, tracks[0].Kind)
	assert.True(t, tracks[0].IsDefault)
	assert.Nil(t, tracks[0].Language)
	assert.Equal(t, "jpn", *tracks[1].Language)
	assert.True(t, tracks[2].IsExternal)
	assert.True(t, tracks[2].IsForced)
}

func TestStore_EpisodeByBase(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	show, _, err := store.CreateShowIfAbsent(ctx, "/media/Show", buildShow(&catalog.Show{Slug: "show", Title: "Show"}))
	require.NoError(t, err)
	for _, p := range []string{
		"/media/Show/Show S01E01.mkv",
		"/media/Show/Show S01E01.extended.mkv",
		"/media/Show/Show S01E010.mkv",
	} {
		_, err := store.CreateEpisode(ctx, &catalog.Episode{ShowID: show.ID, Path: p})
		require.NoError(t, err)
	}

	got, err := store.EpisodeByBase(ctx, "/media/Show/Show S01E01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/media/Show/Show S01E01.mkv", got.Path)

	got, err = store.EpisodeByBase(ctx, "/media/Show/Show S01E01.extended")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/media/Show/Show S01E01.extended.mkv", got.Path)

	got, err = store.EpisodeByBase(ctx, "/media/Show/Show S01E02")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_CreateTrackIfAbsent(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	show, _, err := store.CreateShowIfAbsent(ctx, "/media/Show", buildShow(&catalog.Show{Slug: "show", Title: "Show"}))
	require.NoError(t, err)
	ep, err := store.CreateEpisode(ctx, &catalog.Episode{ShowID: show.ID, Path: "/media/Show/Show S01E01.mkv"})
	require.NoError(t, err)

	sidecar := "/media/Show/Show S01E01.eng.srt"
	first, created, err := store.CreateTrackIfAbsent(ctx, &catalog.Track{EpisodeID: ep.ID, Kind: catalog.TrackSubtitle, Language: ptr("eng"), IsExternal: true, Path: sidecar})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	again, created, err := store.CreateTrackIfAbsent(ctx, &catalog.Track{EpisodeID: ep.ID, Kind: catalog.TrackSubtitle, IsExternal: true, Path: sidecar})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "eng", *again.Language)

	for range 2 {
		_, created, err := store.CreateTrackIfAbsent(ctx, &catalog.Track{EpisodeID: ep.ID, Kind: catalog.TrackAudio, Path: ep.Path})
		require.NoError(t, err)
		assert.True(t, created, "embedded tracks share the video path")
	}

	tracks, err := store.ListTracks(ctx, ep.ID)
	require.NoError(t, err)
	assert.Len(t, tracks, 3)
}

func TestStore_DeleteCascades(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	show, _, err := store.CreateShowIfAbsent(ctx, "/media/Show", buildShow(&catalog.Show{Slug: "show", Title: "Show"}))
	require.NoError(t, err)
	ep, err := store.CreateEpisode(ctx, &catalog.Episode{ShowID: show.ID, Path: "/media/Show/a.mkv"})
	require.NoError(t, err)
	_, err = store.CreateTrack(ctx, &catalog.Track{EpisodeID: ep.ID, Kind: catalog.TrackVideo, Path: ep.Path})
	require.NoError(t, err)

	require.NoError(t, store.DeleteEpisodeByPath(ctx, ep.Path))
	tracks, err := store.ListTracks(ctx, ep.ID)
	require.NoError(t, err)
	assert.Empty(t, tracks)

	require.NoError(t, store.DeleteShow(ctx, show.ID))
	require.NoError(t, store.DeleteShow(ctx, show.ID), "idempotent")
	_, err = store.GetShow(ctx, show.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTx_CommitAndRollback(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	committed := &catalog.Show{Slug: "kept", Title: "Kept", Path: "/media/Kept"}
	require.NoError(t, tx.AddShow(ctx, committed))
	require.NoError(t, tx.AddSeason(ctx, &catalog.Season{ShowID: committed.ID, SeasonNumber: 1}))
	_, err = tx.CreateEpisode(ctx, &catalog.Episode{ShowID: committed.ID, Path: "/media/Kept/k.mkv"})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	_, err = store.GetSeason(ctx, committed.ID, 1)
	require.NoError(t, err)
	registered, err := store.IsPathRegistered(ctx, "/media/Kept/k.mkv")
	require.NoError(t, err)
	assert.True(t, registered)

	tx, err = store.Begin(ctx)
	require.NoError(t, err)
	dropped := &catalog.Show{Slug: "dropped", Title: "Dropped", Path: "/media/Dropped"}
	require.NoError(t, tx.AddShow(ctx, dropped))
	require.NoError(t, tx.Rollback())

	_, err = store.GetShowByPath(ctx, "/media/Dropped")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_AddShow_Duplicate(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.AddShow(ctx, &catalog.Show{Slug: "a", Title: "A", Path: "/media/A"}))
	err := store.AddShow(ctx, &catalog.Show{Slug: "a", Title: "A", Path: "/media/A"})
	assert.ErrorIs(t, err, ErrDuplicate)
}
