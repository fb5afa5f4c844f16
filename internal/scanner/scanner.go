// Package scanner drives the identification pipeline over library roots:
// a one-shot recursive scan and a long-running filesystem watch, both
// feeding a bounded worker pool.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/vmunix/reelcat/internal/catalog"
	"github.com/vmunix/reelcat/internal/identify"
	"github.com/vmunix/reelcat/internal/provider"
)

// DefaultWorkers is the worker pool size when none is configured.
const DefaultWorkers = 4

// State is the activity of a library root.
type State int

const (
	Idle State = iota
	Scanning
	Watching
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case Watching:
		return "watching"
	default:
		return "idle"
	}
}

// Config holds scanner settings.
type Config struct {
	// Workers bounds the number of files processed concurrently.
	Workers int
	// VideoExtensions are the files the pipeline accepts.
	VideoExtensions []string
	// SubtitleExtensions are the sidecar files considered for a video.
	SubtitleExtensions []string
	// EmbeddingContainers are the video extensions handed to the
	// transcoder when no sidecar subtitle exists.
	EmbeddingContainers []string
	// SettleDelay is how long the watcher waits after the last event on a
	// file before processing it. Zero processes files immediately.
	SettleDelay time.Duration
}

// Deps are the collaborators of a Scanner. Shows, Seasons and Transcoder
// are optional.
type Deps struct {
	Identifier *identify.Identifier
	Repository Repository
	Shows      *provider.Gateway[catalog.Show]
	Seasons    *provider.Gateway[catalog.Season]
	Transcoder Transcoder
	Logger     *slog.Logger
}

// Stats summarizes a scan.
type Stats struct {
	Discovered int64
	Skipped    int64
	Registered int64
	Failed     int64
	Duration   time.Duration
}

type counters struct {
	discovered atomic.Int64
	skipped    atomic.Int64
	registered atomic.Int64
	failed     atomic.Int64
}

func (c *counters) snapshot(d time.Duration) Stats {
	return Stats{
		Discovered: c.discovered.Load(),
		Skipped:    c.skipped.Load(),
		Registered: c.registered.Load(),
		Failed:     c.failed.Load(),
		Duration:   d,
	}
}

// Scanner registers the media files of library roots.
type Scanner struct {
	ident      *identify.Identifier
	repo       Repository
	shows      *provider.Gateway[catalog.Show]
	seasons    *provider.Gateway[catalog.Season]
	transcoder Transcoder
	log        *slog.Logger

	workers     int
	videos      extensionSet
	subtitles   extensionSet
	containers  extensionSet
	settleDelay time.Duration

	showFlight   singleflight.Group
	seasonFlight singleflight.Group

	mu     sync.Mutex
	states map[string]State
}

// New creates a scanner.
func New(cfg Config, deps Deps) (*Scanner, error) {
	if deps.Identifier == nil {
		return nil, errors.New("scanner: identifier is required")
	}
	if deps.Repository == nil {
		return nil, errors.New("scanner: repository is required")
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	videoExts := cfg.VideoExtensions
	if len(videoExts) == 0 {
		videoExts = DefaultVideoExtensions
	}
	subExts := cfg.SubtitleExtensions
	if len(subExts) == 0 {
		for ext := range identify.DefaultSubtitleCodecs {
			subExts = append(subExts, ext)
		}
	}
	containers := cfg.EmbeddingContainers
	if len(containers) == 0 {
		containers = DefaultEmbeddingContainers
	}

	return &Scanner{
		ident:       deps.Identifier,
		repo:        deps.Repository,
		shows:       deps.Shows,
		seasons:     deps.Seasons,
		transcoder:  deps.Transcoder,
		log:         log.With("component", "scanner"),
		workers:     workers,
		videos:      newExtensionSet(videoExts),
		subtitles:   newExtensionSet(subExts),
		containers:  newExtensionSet(containers),
		settleDelay: cfg.SettleDelay,
		states:      make(map[string]State),
	}, nil
}

// State returns the activity of a root, by name or path.
func (s *Scanner) State(root string) State {
	r, err := s.root(root)
	if err != nil {
		return Idle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[r.Path]
}

// Scan walks root and processes every file it contains. Videos are processed
// first, then the sidecar subtitles, so a subtitle added next to an already
// registered video is linked. It returns once every discovered file has been
// processed. Failures of single files are
// logged and counted, never returned; the error is set when the root is
// unusable or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, root string) (Stats, error) {
	r, err := s.openRoot(root)
	if err != nil {
		return Stats{}, err
	}
	if err := s.acquire(r.Path, Scanning); err != nil {
		return Stats{}, err
	}
	defer s.release(r.Path)

	log := s.log.With("root", r.Name)
	log.Info("scan started", "path", r.Path)
	start := time.Now()

	var c counters
	var g errgroup.Group
	g.SetLimit(s.workers)
	var subtitles []string

	walkErr := filepath.WalkDir(r.Path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == r.Path {
				return fmt.Errorf("%w: %w", ErrRootUnreadable, err)
			}
			log.Warn("walk error", "path", p, "error", err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != r.Path && isHidden(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		c.discovered.Add(1)
		if s.subtitles.has(p) && !s.videos.has(p) {
			subtitles = append(subtitles, p)
			return nil
		}
		g.Go(func() error {
			s.work(ctx, p, &c)
			return nil
		})
		return nil
	})
	_ = g.Wait()

	if walkErr == nil && ctx.Err() == nil {
		var sg errgroup.Group
		sg.SetLimit(s.workers)
		for _, p := range subtitles {
			sg.Go(func() error {
				s.work(ctx, p, &c)
				return nil
			})
		}
		_ = sg.Wait()
	}

	stats := c.snapshot(time.Since(start))
	if walkErr != nil {
		log.Warn("scan stopped", "error", walkErr,
			"registered", stats.Registered, "failed", stats.Failed)
		return stats, walkErr
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	log.Info("scan complete",
		"discovered", stats.Discovered,
		"skipped", stats.Skipped,
		"registered", stats.Registered,
		"failed", stats.Failed,
		"duration_ms", stats.Duration.Milliseconds())
	return stats, nil
}

// work runs the pipeline for one file inside the pool and swallows its
// error.
func (s *Scanner) work(ctx context.Context, path string, c *counters) {
	registered, err := s.process(ctx, path)
	switch {
	case err != nil:
		if ctx.Err() == nil {
			c.failed.Add(1)
		}
	case registered:
		c.registered.Add(1)
	default:
		c.skipped.Add(1)
	}
}

// root finds a configured root by name or path.
func (s *Scanner) root(root string) (*identify.LibraryRoot, error) {
	clean := filepath.ToSlash(filepath.Clean(root))
	for _, r := range s.ident.Roots() {
		if r.Name == root || r.Path == clean {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRoot, root)
}

// openRoot resolves root and checks it is a readable directory.
func (s *Scanner) openRoot(root string) (*identify.LibraryRoot, error) {
	r, err := s.root(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(r.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRootUnreadable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootUnreadable, r.Path)
	}
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRootUnreadable, err)
	}
	defer f.Close()
	if _, err := f.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrRootUnreadable, err)
	}
	return r, nil
}

func (s *Scanner) acquire(root string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current := s.states[root]; current != Idle {
		return fmt.Errorf("%w: %s is %s", ErrRootBusy, root, current)
	}
	s.states[root] = state
	return nil
}

func (s *Scanner) release(root string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, root)
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}
