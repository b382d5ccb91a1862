package fs

import (
	"context"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/metavault/pkg/core"
)

const debounceDelay = 50 * time.Millisecond

// Watch implements core.Watchable. It reports changes to documents matching
// pattern (all documents when empty) until ctx is done, then closes the
// channel. While git holds its index lock, changes are held back and
// delivered once the lock is released.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := s.recursiveAdd(watcher, s.Path); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	_ = watcher.Add(filepath.Join(s.Path, ".git"))

	out := make(chan core.Event, 64)
	w := &watchLoop{
		store:     s,
		pattern:   pattern,
		watcher:   watcher,
		out:       out,
		debouncer: newDebouncer(debounceDelay),
		held:      make(map[string]core.Event),
	}

	s.setWatching(1)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		s.reportError(fmt.Errorf("watcher stopped: %w", err))
	}))
	return out, nil
}

type watchLoop struct {
	store     *Store
	pattern   string
	watcher   *fsnotify.Watcher
	out       chan core.Event
	debouncer *debouncer
	gitLocked bool
	held      map[string]core.Event
}

func (w *watchLoop) run(ctx context.Context) (err error) {
	logger := w.store.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", err)
			}
		}
		w.debouncer.stopAndWait(5 * time.Second)
		w.store.setWatching(-1)
		close(w.out)
	}()
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handle(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("fsnotify error", "error", wErr)
			w.store.reportError(wErr)
		}
	}
}

func (w *watchLoop) handle(ctx context.Context, event fsnotify.Event) {
	logger := w.store.config.Logger
	logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if filepath.Base(event.Name) == "index.lock" && filepath.Base(filepath.Dir(event.Name)) == ".git" {
		switch {
		case event.Has(fsnotify.Create):
			w.gitLocked = true
			logger.Debug("git operations detected, pausing watcher")
		case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
			w.gitLocked = false
			logger.Debug("git operations finished, releasing held events", "count", len(w.held))
			for p, e := range w.held {
				w.send(ctx, e)
				delete(w.held, p)
			}
		}
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.store.recursiveAdd(w.watcher, event.Name); err != nil {
				logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			w.catchUp(ctx, event.Name)
			return
		}
	}

	w.emit(ctx, event.Name, mapEventType(event))
}

// catchUp reports files that appeared in a new directory before it was watched.
func (w *watchLoop) catchUp(ctx context.Context, dir string) {
	_ = filepath.WalkDir(dir, func(path string, d iofs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			w.emit(ctx, path, core.EventCreate)
		}
		return nil
	})
}

func (w *watchLoop) emit(ctx context.Context, name string, eType core.EventType) {
	if eType == "" {
		return
	}
	rel, err := filepath.Rel(w.store.Path, name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if w.store.ignored(rel) {
		return
	}
	if w.pattern != "" {
		if ok, _ := doublestar.Match(w.pattern, rel); !ok {
			return
		}
	}

	e := core.Event{Type: eType, Path: rel, Timestamp: time.Now().Unix()}
	if w.gitLocked {
		w.held[rel] = e
		return
	}
	w.send(ctx, e)
}

// send enqueues an event via the debouncer.
func (w *watchLoop) send(ctx context.Context, e core.Event) {
	w.debouncer.add(e, func(e core.Event) {
		w.store.recordEvent()
		select {
		case w.out <- e:
		case <-ctx.Done():
		}
	})
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		return core.EventDelete
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	default:
		return ""
	}
}

// recursiveAdd watches root and every directory below it, except .git.
func (s *Store) recursiveAdd(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (s *Store) reportError(err error) {
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
		return
	}
	s.config.Logger.Error("fs store error", "error", err)
}

func (s *Store) setWatching(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers += delta
}

func (s *Store) recordEvent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastEvent = &now
}
