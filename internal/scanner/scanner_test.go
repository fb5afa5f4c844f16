package scanner_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/reelcat/internal/catalog"
	"github.com/vmunix/reelcat/internal/identify"
	"github.com/vmunix/reelcat/internal/provider"
	providermocks "github.com/vmunix/reelcat/internal/provider/mocks"
	"github.com/vmunix/reelcat/internal/scanner"
	"go.uber.org/mock/gomock"
)

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := scanner.New(scanner.Config{}, scanner.Deps{Repository: newMemRepo()})
	assert.Error(t, err)

	_, err = scanner.New(scanner.Config{}, scanner.Deps{Identifier: identify.New(nil)})
	assert.Error(t, err)
}

func TestScan_RegistersTree(t *testing.T) {
	repo := newMemRepo()
	s, root := newTestScanner(t, repo, scanner.Deps{})
	writeTree(t, root,
		"Anohana (2011)/Anohana S01E01.mkv",
		"Anohana (2011)/Anohana S01E02.mkv",
		"Anohana (2011)/Anohana S01E01.eng.srt",
		"Anohana (2011)/notes.txt",
		".trash/Old S01E01.mkv",
		"Inception/Inception.mkv",
	)

	stats, err := s.Scan(context.Background(), "tv")
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.Discovered, "hidden directories are not walked")
	assert.Equal(t, int64(3), stats.Registered)
	assert.Equal(t, int64(2), stats.Skipped)
	assert.Equal(t, int64(0), stats.Failed)

	assert.Equal(t, []string{
		root + "/Anohana (2011)/Anohana S01E01.mkv",
		root + "/Anohana (2011)/Anohana S01E02.mkv",
		root + "/Inception/Inception.mkv",
	}, repo.episodePaths())

	anohana := repo.show(root + "/Anohana (2011)")
	require.NotNil(t, anohana)
	assert.Equal(t, "anohana", anohana.Slug)
	assert.Equal(t, 2011, *anohana.StartYear)
	assert.Len(t, repo.seasons, 1)

	movie := repo.show(root + "/Inception")
	require.NotNil(t, movie)
	assert.True(t, movie.IsMovie)

	first := repo.episode(root + "/Anohana (2011)/Anohana S01E01.mkv")
	require.NotNil(t, first)
	assert.Equal(t, anohana.ID, first.ShowID)
	require.Len(t, repo.tracks, 1, "sidecar belongs to the first episode only")
	assert.Equal(t, first.ID, repo.tracks[0].EpisodeID)
	assert.Equal(t, "eng", *repo.tracks[0].Language)
	assert.True(t, repo.tracks[0].IsExternal)

	assert.Equal(t, scanner.Idle, s.State("tv"))
}

func TestScan_RescanSkipsRegistered(t *testing.T) {
	repo := newMemRepo()
	s, root := newTestScanner(t, repo, scanner.Deps{})
	writeTree(t, root, "Show/Show S01E01.mkv", "Show/Show S01E02.mkv")

	_, err := s.Scan(context.Background(), root)
	require.NoError(t, err)

	stats, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Registered)
	assert.Equal(t, int64(2), stats.Skipped)
	assert.Equal(t, 1, repo.showBuilds)
}

func TestScan_LinksSubtitleAddedLater(t *testing.T) {
	repo := newMemRepo()
	s, root := newTestScanner(t, repo, scanner.Deps{})
	writeTree(t, root, "Show/Show S01E01.mkv")

	_, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, 0, repo.trackCount())

	writeTree(t, root, "Show/Show S01E01.eng.default.srt")

	stats, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Discovered)
	assert.Equal(t, int64(1), stats.Registered)
	assert.Equal(t, int64(1), stats.Skipped)

	ep := repo.episode(root + "/Show/Show S01E01.mkv")
	require.NotNil(t, ep)
	require.Equal(t, 1, repo.trackCount())
	tr := repo.tracks[0]
	assert.Equal(t, ep.ID, tr.EpisodeID)
	assert.Equal(t, root+"/Show/Show S01E01.eng.default.srt", tr.Path)
	assert.True(t, tr.IsExternal)
	assert.True(t, tr.IsDefault)

	stats, err = s.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Registered)
	assert.Equal(t, 1, repo.trackCount(), "linked once")
}

func TestScan_SameShowEnrichedOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := providermocks.NewMockSource[catalog.Show](ctrl)
	src.EXPECT().Provider().Return(catalog.Provider{Slug: "anilist", Priority: 1}).AnyTimes()
	src.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, anchor *catalog.Show) (*catalog.Show, error) {
			time.Sleep(20 * time.Millisecond)
			return &catalog.Show{Title: anchor.Title, Overview: "Six childhood friends drift apart."}, nil
		}).Times(1)

	repo := newMemRepo()
	s, root := newTestScanner(t, repo, scanner.Deps{
		Shows: provider.NewGateway(provider.ShowKind, []provider.Source[catalog.Show]{src},
			provider.WithLogger(testLogger())),
	})
	var files []string
	for i := 1; i <= 8; i++ {
		files = append(files, "Anohana/Anohana S01E0"+string(rune('0'+i))+".mkv")
	}
	writeTree(t, root, files...)

	stats, err := s.Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, int64(8), stats.Registered)
	assert.Equal(t, 1, repo.showBuilds, "one creation")
	assert.Equal(t, 1, repo.seasonBuilds)
	show := repo.show(root + "/Anohana")
	require.NotNil(t, show)
	assert.Equal(t, "Six childhood friends drift apart.", show.Overview)
	assert.Equal(t, "anohana", show.Slug)
}

func TestScan_FailuresAreIsolated(t *testing.T) {
	repo := newMemRepo()
	s, root := newTestScanner(t, repo, scanner.Deps{})
	writeTree(t, root,
		"loose.mkv",
		"Show/Show S01E01.mkv",
		"Show/Show S01E02.mkv",
		"Show/Show S01E03.mkv",
	)
	repo.failEpisodes[root+"/Show/Show S01E02.mkv"] = true

	stats, err := s.Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Failed, "identification and persistence failures")
	assert.Equal(t, int64(2), stats.Registered)
	assert.Equal(t, []string{
		root + "/Show/Show S01E01.mkv",
		root + "/Show/Show S01E03.mkv",
	}, repo.episodePaths())
}

func TestScan_RootErrors(t *testing.T) {
	repo := newMemRepo()
	s, _ := newTestScanner(t, repo, scanner.Deps{})

	_, err := s.Scan(context.Background(), "movies")
	assert.ErrorIs(t, err, scanner.ErrUnknownRoot)

	missing := t.TempDir() + "/gone"
	s2, err := scanner.New(scanner.Config{}, scanner.Deps{
		Identifier: newIdentifier(t, identify.RootConfig{Name: "gone", Path: missing}),
		Repository: repo,
		Logger:     testLogger(),
	})
	require.NoError(t, err)

	_, err = s2.Scan(context.Background(), "gone")
	assert.ErrorIs(t, err, scanner.ErrRootUnreadable)
	err = s2.Watch(context.Background(), "gone")
	assert.ErrorIs(t, err, scanner.ErrRootUnreadable)
}

func TestScan_Cancelled(t *testing.T) {
	repo := newMemRepo()
	s, root := newTestScanner(t, repo, scanner.Deps{})
	writeTree(t, root, "Show/Show S01E01.mkv")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Scan(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, repo.episodePaths())
	assert.Equal(t, scanner.Idle, s.State(root))
}

func TestScan_RootBusy(t *testing.T) {
	repo := newMemRepo()
	repo.gate = make(chan struct{})
	s, root := newTestScanner(t, repo, scanner.Deps{})
	writeTree(t, root, "Show/Show S01E01.mkv")

	var wg sync.WaitGroup
	wg.Add(1)
	var scanErr error
	go func() {
		defer wg.Done()
		_, scanErr = s.Scan(context.Background(), root)
	}()

	require.Eventually(t, func() bool {
		return s.State("tv") == scanner.Scanning
	}, time.Second, 5*time.Millisecond)

	_, err := s.Scan(context.Background(), "tv")
	assert.ErrorIs(t, err, scanner.ErrRootBusy)
	err = s.Watch(context.Background(), root)
	assert.ErrorIs(t, err, scanner.ErrRootBusy)

	close(repo.gate)
	wg.Wait()
	require.NoError(t, scanErr)
	assert.Equal(t, scanner.Idle, s.State("tv"))
	assert.Len(t, repo.episodePaths(), 1)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", scanner.Idle.String())
	assert.Equal(t, "scanning", scanner.Scanning.String())
	assert.Equal(t, "watching", scanner.Watching.String())
}
