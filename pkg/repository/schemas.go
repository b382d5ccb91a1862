package repository

import (
	"errors"
	"fmt"

	"github.com/aretw0/metavault/pkg/core"
)

// Schemas returns the schema files listed for a context version.
func (s *Store) Schemas(contextName, version string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.state.manifests[contextName]
	if !ok {
		return nil
	}
	return append([]string(nil), m.Versions[version].Schemas...)
}

// CreateSchema adds an empty schema document to the active version, lists it
// in the version entry and makes it the active schema. A non-empty
// displayName is recorded in the version changelog.
func (s *Store) CreateSchema(file, profileID, displayName string) error {
	if err := core.ValidateSchemaFile(file); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contextName, version, err := s.activeLocked()
	if err != nil {
		return s.failLocked(err)
	}
	m, ok := s.state.manifests[contextName]
	if !ok {
		return s.failLocked(fmt.Errorf("context %q: %w", contextName, core.ErrNotFound))
	}
	ve, ok := m.Versions[version]
	if !ok {
		return s.failLocked(fmt.Errorf("version %s@%s: %w", contextName, version, core.ErrNotFound))
	}
	key := core.SchemaKey(contextName, version, file)
	if _, exists := s.state.schemas[key]; exists {
		return s.failLocked(fmt.Errorf("%w: %s", core.ErrSchemaExists, key))
	}

	ve = ve.Clone()
	if !ve.HasSchema(file) {
		ve.Schemas = append(ve.Schemas, file)
	}
	if displayName != "" {
		ve.Changelog = append([]core.ChangelogEntry{{
			Date:        s.today(),
			Type:        core.ChangeAdded,
			Description: fmt.Sprintf("Schema %s (%s) created", displayName, file),
		}}, ve.Changelog...)
	}
	next := m.Clone()
	next.Versions[version] = ve

	s.state.manifests = withManifest(s.state.manifests, contextName, next)
	s.state.schemas = withSchema(s.state.schemas, key, core.NewSchemaDocument(profileID, version))
	s.cursor.Schema = file
	s.cursor.Field = ""
	s.dirty = true
	s.logger.Info("schema created", "key", key, "profile", profileID)
	return nil
}

// DeleteSchema removes a schema document of the active version from the
// cache and from the version entry, and clears the schema and field cursors.
func (s *Store) DeleteSchema(file string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contextName, version, err := s.activeLocked()
	if err != nil {
		return nil
	}
	key := core.SchemaKey(contextName, version, file)
	removed := false

	if _, ok := s.state.schemas[key]; ok {
		schemas := copySchemas(s.state.schemas)
		delete(schemas, key)
		s.state.schemas = schemas
		removed = true
	}
	if m, ok := s.state.manifests[contextName]; ok {
		if ve, ok := m.Versions[version]; ok && ve.HasSchema(file) {
			removed = true
			ve = ve.Clone()
			kept := ve.Schemas[:0]
			for _, f := range ve.Schemas {
				if f != file {
					kept = append(kept, f)
				}
			}
			ve.Schemas = kept
			next := m.Clone()
			next.Versions[version] = ve
			s.state.manifests = withManifest(s.state.manifests, contextName, next)
		}
	}
	if !removed {
		return nil
	}

	s.cursor.Schema = ""
	s.cursor.Field = ""
	s.dirty = true
	s.logger.Info("schema deleted", "key", key)
	return nil
}

// UpdateSchemaMeta changes the profile id and the JSON-LD context of a schema
// of the active version. An empty profileID and a nil ldContext keep the
// current values.
func (s *Store) UpdateSchemaMeta(file, profileID string, ldContext any) error {
	return s.mutateSchema(file, func(doc *core.SchemaDocument) error {
		if profileID == "" && ldContext == nil {
			return errNoChange
		}
		if profileID != "" {
			doc.ProfileID = profileID
		}
		if ldContext != nil {
			doc.Context = ldContext
		}
		return nil
	})
}

// mutateSchema applies fn to a copy of a schema of the active version and
// swaps the copy in. A schema that is not cached is a silent no-op. fn may
// return errNoChange to leave the state as it was.
func (s *Store) mutateSchema(file string, fn func(doc *core.SchemaDocument) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contextName, version, err := s.activeLocked()
	if err != nil {
		return nil
	}
	key := core.SchemaKey(contextName, version, file)
	doc, ok := s.state.schemas[key]
	if !ok {
		s.logger.Debug("schema not cached, skipping mutation", "key", key)
		return nil
	}

	next := doc.Clone()
	if err := fn(next); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		return s.failLocked(err)
	}
	s.state.schemas = withSchema(s.state.schemas, key, next)
	s.dirty = true
	return nil
}
