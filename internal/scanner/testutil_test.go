package scanner_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmunix/reelcat/internal/catalog"
	"github.com/vmunix/reelcat/internal/identify"
	"github.com/vmunix/reelcat/internal/scanner"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errDuplicate = errors.New("duplicate")

// memRepo is an in-memory Repository with atomic create-if-absent.
type memRepo struct {
	mu       sync.Mutex
	nextID   int64
	shows    map[string]*catalog.Show
	seasons  map[string]*catalog.Season
	episodes map[string]*catalog.Episode
	tracks   []*catalog.Track

	showBuilds   int
	seasonBuilds int

	// failEpisodes makes CreateEpisode fail for these paths.
	failEpisodes map[string]bool
	// gate, when set, blocks IsPathRegistered until closed.
	gate chan struct{}
}

func newMemRepo() *memRepo {
	return &memRepo{
		shows:        make(map[string]*catalog.Show),
		seasons:      make(map[string]*catalog.Season),
		episodes:     make(map[string]*catalog.Episode),
		failEpisodes: make(map[string]bool),
	}
}

func (r *memRepo) IsPathRegistered(ctx context.Context, path string) (bool, error) {
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.episodes[path]
	return ok, nil
}

func (r *memRepo) CreateShowIfAbsent(ctx context.Context, path string, build func(context.Context) (*catalog.Show, error)) (*catalog.Show, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.shows[path]; ok {
		return s, false, nil
	}
	r.showBuilds++
	s, err := build(ctx)
	if err != nil {
		return nil, false, err
	}
	r.nextID++
	s.ID = r.nextID
	r.shows[path] = s
	return s, true, nil
}

func (r *memRepo) CreateSeasonIfAbsent(ctx context.Context, show *catalog.Show, number int, build func(context.Context) (*catalog.Season, error)) (*catalog.Season, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strconv.FormatInt(show.ID, 10) + "|" + strconv.Itoa(number)
	if s, ok := r.seasons[key]; ok {
		return s, false, nil
	}
	r.seasonBuilds++
	s, err := build(ctx)
	if err != nil {
		return nil, false, err
	}
	r.nextID++
	s.ID = r.nextID
	r.seasons[key] = s
	return s, true, nil
}

func (r *memRepo) CreateEpisode(_ context.Context, e *catalog.Episode) (*catalog.Episode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failEpisodes[e.Path] {
		return nil, errors.New("disk full")
	}
	if _, ok := r.episodes[e.Path]; ok {
		return nil, errDuplicate
	}
	r.nextID++
	e.ID = r.nextID
	r.episodes[e.Path] = e
	return e, nil
}

func (r *memRepo) CreateTrack(_ context.Context, t *catalog.Track) (*catalog.Track, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	r.tracks = append(r.tracks, t)
	return t, nil
}

func (r *memRepo) EpisodeByBase(_ context.Context, base string) (*catalog.Episode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for p, e := range r.episodes {
		if identify.EpisodeBase(p) == base {
			return e, nil
		}
	}
	return nil, nil
}

func (r *memRepo) CreateTrackIfAbsent(_ context.Context, t *catalog.Track) (*catalog.Track, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.IsExternal {
		for _, existing := range r.tracks {
			if existing.IsExternal && existing.Path == t.Path {
				return existing, false, nil
			}
		}
	}
	r.nextID++
	t.ID = r.nextID
	r.tracks = append(r.tracks, t)
	return t, true, nil
}

func (r *memRepo) trackCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tracks)
}

func (r *memRepo) episode(path string) *catalog.Episode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.episodes[path]
}

func (r *memRepo) episodePaths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var paths []string
	for p := range r.episodes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (r *memRepo) show(path string) *catalog.Show {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shows[path]
}

// writeTree creates files (relative, slash separated) under root.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func newIdentifier(t *testing.T, cfgs ...identify.RootConfig) *identify.Identifier {
	t.Helper()
	var roots []*identify.LibraryRoot
	for _, cfg := range cfgs {
		r, err := identify.NewLibraryRoot(cfg)
		require.NoError(t, err)
		roots = append(roots, r)
	}
	return identify.New(roots)
}

// newTestScanner returns a scanner over a fresh temporary root named "tv".
func newTestScanner(t *testing.T, repo scanner.Repository, deps scanner.Deps) (*scanner.Scanner, string) {
	t.Helper()
	root := t.TempDir()
	if deps.Identifier == nil {
		deps.Identifier = newIdentifier(t, identify.RootConfig{Name: "tv", Path: root})
	}
	deps.Repository = repo
	deps.Logger = testLogger()
	s, err := scanner.New(scanner.Config{Workers: 4}, deps)
	require.NoError(t, err)
	return s, filepath.ToSlash(root)
}

func ptr[T any](v T) *T { return &v }
