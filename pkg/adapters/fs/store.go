// Package fs provides a document store backed by a directory, optionally
// versioned with git.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/metavault/pkg/core"
	"github.com/aretw0/metavault/pkg/git"
)

// Config holds the configuration for the filesystem store.
type Config struct {
	Path       string
	MustExist  bool // fail instead of creating Path
	ReadOnly   bool
	Versioning bool // record writes as git commits
	AutoInit   bool // git init when Path is not a repository yet
	LockName   string
	Logger     *slog.Logger
	// ErrorHandler receives watcher failures that cannot be returned to a caller.
	ErrorHandler func(error)
}

// Store implements core.WritableStore on top of a directory.
type Store struct {
	Path   string
	git    *git.Client
	config Config

	mu        sync.RWMutex
	pending   map[string]struct{}
	watchers  int
	lastEvent *time.Time
}

// NewStore creates a filesystem store. Call Initialize before use.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Store{
		Path:    config.Path,
		git:     git.NewClient(config.Path, config.LockName, config.Logger),
		config:  config,
		pending: make(map[string]struct{}),
	}
}

// Initialize performs the necessary setup for the store (mkdir, git init).
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", s.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", s.Path)
		}
	} else if err := os.MkdirAll(s.Path, dirPerm); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	if !s.config.Versioning || s.config.ReadOnly {
		return nil
	}

	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}
	if !s.git.IsRepo(ctx) {
		if !s.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", s.Path)
		}
		if err := s.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
	}

	if _, err := s.ensureIgnore(); err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}
	return nil
}

// ensureIgnore keeps the lock file and atomic write leftovers out of commits.
func (s *Store) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(s.Path, ".gitignore")
	entries := []string{s.git.LockPath(), TempFilePrefix + "*"}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	var b strings.Builder
	b.Write(content)
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		b.WriteString("\n")
	}
	for _, e := range missing {
		b.WriteString(e + "\n")
	}
	return true, writeFileAtomic(ignorePath, []byte(b.String()), filePerm)
}

// resolve maps a slash-separated store path to a file below Path.
func (s *Store) resolve(p string) (string, error) {
	rel := filepath.FromSlash(strings.TrimPrefix(p, "/"))
	if rel == "" || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: path %q escapes the vault", core.ErrInvalidName, p)
	}
	return filepath.Join(s.Path, rel), nil
}

// Read implements core.DocumentStore.
func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Write implements core.WritableStore. With versioning enabled the path is
// staged for the next Commit.
func (s *Store) Write(ctx context.Context, path string, data []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(full, data, filePerm); err != nil {
		return err
	}

	s.mu.Lock()
	s.pending[filepath.ToSlash(filepath.Clean(filepath.FromSlash(strings.TrimPrefix(path, "/"))))] = struct{}{}
	s.mu.Unlock()

	s.config.Logger.Debug("document written", "path", path, "bytes", len(data))
	return nil
}

// List implements core.Lister.
func (s *Store) List(ctx context.Context, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := doublestar.Glob(os.DirFS(s.Path), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", pattern, err)
	}

	out := matches[:0]
	for _, m := range matches {
		if s.ignored(m) {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// Commit implements core.Committer. It stages every path written since the
// last commit and records them under message. Without versioning, or with
// nothing to record, it is a no-op.
func (s *Store) Commit(ctx context.Context, message string) error {
	if !s.config.Versioning || s.config.ReadOnly {
		return nil
	}

	s.mu.Lock()
	paths := make([]string, 0, len(s.pending))
	for p := range s.pending {
		paths = append(paths, p)
	}
	s.mu.Unlock()
	if len(paths) == 0 {
		return nil
	}
	sort.Strings(paths)

	unlock, err := s.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := s.git.Add(ctx, paths...); err != nil {
		return fmt.Errorf("failed to stage documents: %w", err)
	}
	changed, err := s.git.HasChanges(ctx)
	if err != nil {
		return err
	}
	if changed {
		if err := s.git.Commit(ctx, message); err != nil {
			return fmt.Errorf("failed to commit: %w", err)
		}
		s.config.Logger.Info("documents committed", "count", len(paths), "message", message)
	}

	s.mu.Lock()
	for _, p := range paths {
		delete(s.pending, p)
	}
	s.mu.Unlock()
	return nil
}

// ignored reports whether a slash path relative to Path is store bookkeeping.
func (s *Store) ignored(rel string) bool {
	if rel == ".git" || strings.HasPrefix(rel, ".git/") {
		return true
	}
	base := filepath.Base(rel)
	return isTempFile(base) || base == s.git.LockPath()
}

var (
	_ core.WritableStore = (*Store)(nil)
	_ core.Lister        = (*Store)(nil)
	_ core.Committer     = (*Store)(nil)
	_ core.Watchable     = (*Store)(nil)
)
