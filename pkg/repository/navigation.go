package repository

import (
	"context"

	"github.com/aretw0/metavault/pkg/core"
)

// Cursor is the navigation position in the repository. An empty member
// means nothing is selected at that level. A cursor never names a field
// without a schema, or a schema without a version.
type Cursor struct {
	Context string `json:"context"`
	Version string `json:"version,omitempty"`
	Schema  string `json:"schema,omitempty"`
	Field   string `json:"field,omitempty"`
}

// Cursor returns the current navigation position.
func (s *Store) Cursor() Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// SetActiveContext selects a context. The version moves to the context's
// declared default; schema and field are cleared.
func (s *Store) SetActiveContext(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCursorLocked(name)
}

// SetActiveVersion selects a version of the active context and clears the
// schema and field.
func (s *Store) SetActiveVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.Version = version
	s.cursor.Schema = ""
	s.cursor.Field = ""
}

// SetActiveSchema selects a schema file of the active version and clears the
// field. The document is fetched if it is not cached yet.
func (s *Store) SetActiveSchema(ctx context.Context, file string) error {
	s.mu.Lock()
	s.cursor.Schema = file
	s.cursor.Field = ""
	c := s.cursor
	_, cached := s.state.schemas[core.SchemaKey(c.Context, c.Version, file)]
	s.mu.Unlock()

	if file == "" || cached || c.Version == "" {
		return nil
	}
	return s.LoadSchema(ctx, c.Context, c.Version, file)
}

// SetActiveField selects a field of the active schema.
func (s *Store) SetActiveField(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor.Schema == "" {
		return
	}
	s.cursor.Field = id
}

// resetCursorLocked points the cursor at a context and its default version.
func (s *Store) resetCursorLocked(name string) {
	if name == "" {
		name = core.DefaultContextName
	}
	var version string
	if reg := s.state.registry; reg != nil {
		version = reg.Contexts[name].DefaultVersion
	}
	if version == "" {
		if m := s.state.manifests[name]; m != nil {
			version = m.DefaultVersion()
		}
	}
	s.cursor = Cursor{Context: name, Version: version}
}

// activeLocked returns the active context and version, or ErrNoActiveVersion.
func (s *Store) activeLocked() (string, string, error) {
	c := s.cursor
	if c.Context == "" || c.Version == "" {
		return "", "", core.ErrNoActiveVersion
	}
	return c.Context, c.Version, nil
}
