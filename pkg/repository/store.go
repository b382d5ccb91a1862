// Package repository implements the schema repository store: the in-memory
// graph of registry, manifests and schema documents, the operations that
// mutate it and the export/import entry points.
//
// Every mutation follows copy-on-write: the affected container is cloned, the
// clone is mutated and the reference is swapped under the write lock. Values
// handed out by getters are copies, so a caller never observes a later change.
package repository

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/metavault/pkg/archive"
	"github.com/aretw0/metavault/pkg/core"
	"github.com/aretw0/metavault/pkg/typed"
)

// dateLayout is the format of release and changelog dates.
const dateLayout = "2006-01-02"

// errNoChange aborts a mutation without swapping anything.
var errNoChange = errors.New("no change")

// Store owns the repository state loaded from a document store.
type Store struct {
	docs      core.DocumentStore
	registry  *typed.Repository[core.ContextRegistry]
	manifests *typed.Repository[core.ContextManifest]
	schemas   *typed.Repository[core.SchemaDocument]

	logger *slog.Logger
	clock  func() time.Time

	mu    sync.RWMutex
	state state

	cursor  Cursor
	loading int
	err     error
	dirty   bool
}

// state is the copy-on-write part of the store. The maps and the values they
// point to are never mutated after being published.
type state struct {
	registry  *core.ContextRegistry
	manifests map[string]*core.ContextManifest
	schemas   map[string]*core.SchemaDocument
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for release and changelog dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.clock = now
		}
	}
}

// New creates an empty store reading from docs. Nothing is loaded until
// LoadRegistry is called.
func New(docs core.DocumentStore, opts ...Option) *Store {
	s := &Store{
		docs:      docs,
		registry:  typed.NewRepository[core.ContextRegistry](docs),
		manifests: typed.NewRepository[core.ContextManifest](docs),
		schemas:   typed.NewRepository[core.SchemaDocument](docs),
		logger:    slog.Default(),
		clock:     time.Now,
		state: state{
			manifests: make(map[string]*core.ContextManifest),
			schemas:   make(map[string]*core.SchemaDocument),
		},
		cursor: Cursor{Context: core.DefaultContextName},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Documents returns the underlying document store.
func (s *Store) Documents() core.DocumentStore {
	return s.docs
}

// Err returns the last recorded failure, or nil.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// ClearError empties the error slot.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}

// Dirty reports whether the state changed since it was loaded or imported.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Loading reports whether a load is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

// Registry returns a copy of the context registry, or nil before loading.
func (s *Store) Registry() *core.ContextRegistry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.registry.Clone()
}

// Manifest returns a copy of a context manifest.
func (s *Store) Manifest(name string) (*core.ContextManifest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.state.manifests[name]
	return m.Clone(), ok
}

// Schema returns a copy of a cached schema document.
func (s *Store) Schema(contextName, version, file string) (*core.SchemaDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.state.schemas[core.SchemaKey(contextName, version, file)]
	return d.Clone(), ok
}

// ActiveSchema returns a copy of the schema under the cursor.
func (s *Store) ActiveSchema() (*core.SchemaDocument, bool) {
	c := s.Cursor()
	if c.Schema == "" {
		return nil, false
	}
	return s.Schema(c.Context, c.Version, c.Schema)
}

// SchemaKeys returns the composite keys of every cached document, sorted.
func (s *Store) SchemaKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.state.schemas)
}

// Snapshot returns a deep copy of the whole state in the shape the archive
// codec works with.
func (s *Store) Snapshot() archive.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() archive.Snapshot {
	snap := archive.Snapshot{
		Registry:  s.state.registry.Clone(),
		Manifests: make(map[string]*core.ContextManifest, len(s.state.manifests)),
		Schemas:   make(map[string]*core.SchemaDocument, len(s.state.schemas)),
	}
	for k, m := range s.state.manifests {
		snap.Manifests[k] = m.Clone()
	}
	for k, d := range s.state.schemas {
		snap.Schemas[k] = d.Clone()
	}
	return snap
}

// failLocked records err in the error slot and returns it.
// Callers must hold the write lock.
func (s *Store) failLocked(err error) error {
	s.err = err
	s.logger.Warn("repository operation rejected", "error", err)
	return err
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failLocked(err)
}

func (s *Store) today() string {
	return s.clock().Format(dateLayout)
}

func (s *Store) beginLoad() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
}

func (s *Store) endLoad() {
	s.mu.Lock()
	s.loading--
	s.mu.Unlock()
}

// copySchemas returns a shallow copy of the schema map. The documents are
// shared; they are replaced, never mutated.
func copySchemas(m map[string]*core.SchemaDocument) map[string]*core.SchemaDocument {
	out := make(map[string]*core.SchemaDocument, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// withSchema returns a copy of the schema map with key replaced by doc.
func withSchema(m map[string]*core.SchemaDocument, key string, doc *core.SchemaDocument) map[string]*core.SchemaDocument {
	out := copySchemas(m)
	out[key] = doc
	return out
}

// withManifest returns a copy of the manifest map with name replaced by m.
// A nil m removes the entry.
func withManifest(ms map[string]*core.ContextManifest, name string, m *core.ContextManifest) map[string]*core.ContextManifest {
	out := make(map[string]*core.ContextManifest, len(ms)+1)
	for k, v := range ms {
		out[k] = v
	}
	if m == nil {
		delete(out, name)
	} else {
		out[name] = m
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
