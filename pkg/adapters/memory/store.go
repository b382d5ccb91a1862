// Package memory provides a map-backed document store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/metavault/pkg/core"
)

// Store keeps documents in memory, keyed by slash-separated path.
type Store struct {
	mu    sync.RWMutex
	files map[string][]byte
	reads int
}

// NewStore creates a store seeded with the given files.
func NewStore(files map[string][]byte) *Store {
	s := &Store{files: make(map[string][]byte, len(files))}
	for p, data := range files {
		s.files[clean(p)] = append([]byte(nil), data...)
	}
	return s
}

// Read implements core.DocumentStore.
func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++

	data, ok := s.files[clean(path)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, core.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Write implements core.WritableStore.
func (s *Store) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[clean(path)] = append([]byte(nil), data...)
	return nil
}

// Delete removes a document. Missing documents are ignored.
func (s *Store) Delete(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, clean(path))
}

// List implements core.Lister.
func (s *Store) List(ctx context.Context, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for p := range s.files {
		if ok, _ := doublestar.Match(pattern, p); ok {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Files returns a copy of every stored document.
func (s *Store) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(s.files))
	for p, data := range s.files {
		out[p] = append([]byte(nil), data...)
	}
	return out
}

// Reads returns how many Read calls the store has served.
func (s *Store) Reads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reads
}

func clean(p string) string {
	return strings.TrimPrefix(p, "/")
}

var (
	_ core.WritableStore = (*Store)(nil)
	_ core.Lister        = (*Store)(nil)
)
