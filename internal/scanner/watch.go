package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// Watch registers files as they appear under root until ctx is cancelled.
// Directories are watched recursively, including ones created later. Videos
// and sidecar subtitles moved or copied into the tree go through the same
// pipeline as a scan, in whatever order they settle.
// Deletions are only logged.
//
// Watch blocks on filesystem events and returns ctx.Err() once cancelled,
// after in-flight files are done.
func (s *Scanner) Watch(ctx context.Context, root string) error {
	r, err := s.openRoot(root)
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	log := s.log.With("root", r.Name)
	w := &watcher{
		s:       s,
		fw:      fw,
		log:     log,
		pending: make(map[string]*time.Timer),
		ready:   make(chan string),
	}
	if err := w.addRecursive(r.Path); err != nil {
		return fmt.Errorf("%w: %w", ErrRootUnreadable, err)
	}

	// Claimed once every directory is watched, so Watching means no event
	// can be missed.
	if err := s.acquire(r.Path, Watching); err != nil {
		return err
	}
	defer s.release(r.Path)

	log.Info("watch started", "path", r.Path, "directories", len(fw.WatchList()))
	err = w.loop(ctx)
	log.Info("watch stopped", "error", err)
	return err
}

type watcher struct {
	s   *Scanner
	fw  *fsnotify.Watcher
	log *slog.Logger

	pending map[string]*time.Timer
	ready   chan string
}

func (w *watcher) loop(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(w.s.workers)
	defer func() {
		for _, t := range w.pending {
			t.Stop()
		}
		_ = g.Wait()
	}()

	enqueue := func(path string) {
		g.Go(func() error {
			_ = w.s.ProcessFile(ctx, path)
			return nil
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fw.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			w.handle(ctx, event, enqueue)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			w.log.Warn("watch error", "error", err)
		case path := <-w.ready:
			if _, ok := w.pending[path]; !ok {
				continue
			}
			delete(w.pending, path)
			enqueue(path)
		}
	}
}

func (w *watcher) handle(ctx context.Context, event fsnotify.Event, enqueue func(string)) {
	if isHidden(filepath.Base(event.Name)) {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
		info, err := os.Stat(event.Name)
		if err != nil {
			// Renames report the old name, which is gone.
			w.log.Debug("path moved away", "path", event.Name)
			return
		}
		if info.IsDir() {
			w.addDirectory(ctx, event.Name, enqueue)
			return
		}
		w.schedule(ctx, event.Name, enqueue)
	case event.Has(fsnotify.Write):
		// A file still being written postpones its processing.
		if _, ok := w.pending[event.Name]; ok {
			w.schedule(ctx, event.Name, enqueue)
		}
	case event.Has(fsnotify.Remove):
		w.log.Info("file removed", "path", event.Name)
	}
}

// addDirectory watches a directory that appeared in the tree and processes
// the files it already holds, as a move brings them in without events.
func (w *watcher) addDirectory(ctx context.Context, dir string, enqueue func(string)) {
	if err := w.addRecursive(dir); err != nil {
		w.log.Warn("watch directory", "path", dir, "error", err)
	}
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != dir && isHidden(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			w.schedule(ctx, p, enqueue)
		}
		return nil
	})
}

// schedule processes path once no event touched it for the settle delay.
func (w *watcher) schedule(ctx context.Context, path string, enqueue func(string)) {
	if !w.s.videos.has(path) && !w.s.subtitles.has(path) {
		return
	}
	if w.s.settleDelay <= 0 {
		enqueue(path)
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.s.settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(w.s.settleDelay, func() {
		select {
		case w.ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && isHidden(d.Name()) {
			return fs.SkipDir
		}
		if err := w.fw.Add(p); err != nil {
			w.log.Warn("watch directory", "path", p, "error", err)
		}
		return nil
	})
}
