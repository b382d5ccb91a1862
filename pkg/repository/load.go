package repository

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/metavault/pkg/core"
)

// loadConcurrency bounds the parallel fetches of LoadAllSchemas.
const loadConcurrency = 8

// LoadRegistry reads the context registry and then fans out to every context
// manifest. A manifest that fails to load is logged and skipped; the other
// contexts stay available. A registry failure is recorded in the error slot.
func (s *Store) LoadRegistry(ctx context.Context) error {
	s.beginLoad()
	defer s.endLoad()

	doc, err := s.registry.Get(ctx, core.RegistryFile)
	if err != nil {
		return s.fail(fmt.Errorf("failed to load registry: %w", err))
	}
	reg := doc.Data
	if reg.Contexts == nil {
		reg.Contexts = make(map[string]core.ContextEntry)
	}

	s.mu.Lock()
	s.state.registry = &reg
	if _, ok := reg.Contexts[s.cursor.Context]; !ok {
		s.resetCursorLocked(reg.DefaultContext)
	} else if s.cursor.Version == "" {
		s.resetCursorLocked(s.cursor.Context)
	}
	s.mu.Unlock()
	s.logger.Debug("registry loaded", "contexts", len(reg.Contexts))

	var g errgroup.Group
	for _, name := range reg.Names() {
		g.Go(func() error {
			if err := s.LoadManifest(ctx, name); err != nil {
				s.logger.Warn("skipping context", "context", name, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// LoadManifest reads the manifest of one context into the cache.
// It does not touch the error slot.
func (s *Store) LoadManifest(ctx context.Context, name string) error {
	s.beginLoad()
	defer s.endLoad()

	s.mu.RLock()
	dir := s.state.registry.Dir(name)
	s.mu.RUnlock()

	doc, err := s.manifests.Get(ctx, core.ManifestPath(dir))
	if err != nil {
		return fmt.Errorf("failed to load manifest of %s: %w", name, err)
	}
	m := doc.Data
	if m.Versions == nil {
		m.Versions = make(map[string]core.VersionEntry)
	}

	s.mu.Lock()
	s.state.manifests = withManifest(s.state.manifests, name, &m)
	s.mu.Unlock()
	return nil
}

// LoadSchema fetches one schema document into the cache. It always reads from
// the document store, even when the key is already cached, so explicit reloads
// pick up external edits. A failure is recorded in the error slot.
func (s *Store) LoadSchema(ctx context.Context, contextName, version, file string) error {
	s.beginLoad()
	defer s.endLoad()

	if err := s.fetchSchema(ctx, contextName, version, file); err != nil {
		return s.fail(err)
	}
	return nil
}

// LoadAllSchemas fetches every schema named in any manifest that is not cached
// yet. Individual failures are logged and skipped.
func (s *Store) LoadAllSchemas(ctx context.Context) error {
	s.beginLoad()
	defer s.endLoad()

	type triple struct{ context, version, file string }
	var missing []triple

	s.mu.RLock()
	for _, name := range sortedKeys(s.state.manifests) {
		m := s.state.manifests[name]
		for _, version := range m.SortedVersions() {
			for _, file := range m.Versions[version].Schemas {
				if _, ok := s.state.schemas[core.SchemaKey(name, version, file)]; !ok {
					missing = append(missing, triple{name, version, file})
				}
			}
		}
	}
	s.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for _, t := range missing {
		g.Go(func() error {
			if err := s.fetchSchema(gctx, t.context, t.version, t.file); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.Warn("skipping schema", "key", core.SchemaKey(t.context, t.version, t.file), "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Reload drops every cached document and loads the registry again. The active
// schema, if any, is fetched again afterwards.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.state = state{
		manifests: make(map[string]*core.ContextManifest),
		schemas:   make(map[string]*core.SchemaDocument),
	}
	s.err = nil
	s.dirty = false
	s.mu.Unlock()

	if err := s.LoadRegistry(ctx); err != nil {
		return err
	}
	c := s.Cursor()
	if c.Schema != "" {
		return s.LoadSchema(ctx, c.Context, c.Version, c.Schema)
	}
	return nil
}

func (s *Store) fetchSchema(ctx context.Context, contextName, version, file string) error {
	s.mu.RLock()
	dir := s.state.registry.Dir(contextName)
	s.mu.RUnlock()

	key := core.SchemaKey(contextName, version, file)
	doc, err := s.schemas.Get(ctx, core.SchemaPath(dir, version, file))
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", key, err)
	}
	d := doc.Data

	s.mu.Lock()
	s.state.schemas = withSchema(s.state.schemas, key, &d)
	s.mu.Unlock()
	s.logger.Debug("schema loaded", "key", key)
	return nil
}

// Follow applies change events from a watched document store until ctx is
// done or events is closed. Registry and manifest changes trigger a reload of
// that document; a changed schema is refreshed only if it is cached, and a
// deleted one is evicted.
func (s *Store) Follow(ctx context.Context, events <-chan core.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			s.apply(ctx, evt)
		}
	}
}

func (s *Store) apply(ctx context.Context, evt core.Event) {
	t, ok := s.locate(evt.Path)
	if !ok {
		s.logger.Debug("ignoring change", "event", evt.String())
		return
	}
	s.logger.Info("applying external change", "event", evt.String())

	var err error
	switch {
	case t.registry:
		if evt.Type != core.EventDelete {
			err = s.LoadRegistry(ctx)
		}
	case t.file == "":
		if evt.Type != core.EventDelete {
			err = s.LoadManifest(ctx, t.context)
		}
	case evt.Type == core.EventDelete:
		s.evict(core.SchemaKey(t.context, t.version, t.file))
	default:
		key := core.SchemaKey(t.context, t.version, t.file)
		s.mu.RLock()
		_, cached := s.state.schemas[key]
		s.mu.RUnlock()
		if cached {
			err = s.fetchSchema(ctx, t.context, t.version, t.file)
		}
	}
	if err != nil {
		s.logger.Warn("failed to apply change", "event", evt.String(), "error", err)
	}
}

func (s *Store) evict(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.schemas[key]; !ok {
		return
	}
	out := make(map[string]*core.SchemaDocument, len(s.state.schemas))
	for k, v := range s.state.schemas {
		if k != key {
			out[k] = v
		}
	}
	s.state.schemas = out
}

// target is a document path resolved against the registry.
type target struct {
	registry bool
	context  string
	version  string
	file     string // empty for a manifest
}

func (s *Store) locate(p string) (target, bool) {
	p = strings.TrimPrefix(p, "/")
	if p == core.RegistryFile {
		return target{registry: true}, true
	}

	parts := strings.Split(p, "/")
	var dir string
	var t target
	switch {
	case len(parts) >= 2 && parts[len(parts)-1] == core.ManifestFile:
		dir = strings.Join(parts[:len(parts)-1], "/")
	case len(parts) >= 3 && strings.HasPrefix(parts[len(parts)-2], "v"):
		dir = strings.Join(parts[:len(parts)-2], "/")
		t.version = strings.TrimPrefix(parts[len(parts)-2], "v")
		t.file = parts[len(parts)-1]
	default:
		return target{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, name := range s.state.registry.Names() {
		if s.state.registry.Dir(name) == dir {
			t.context = name
			return t, true
		}
	}
	return target{}, false
}
