package repository

import (
	"fmt"
	"strings"

	"github.com/aretw0/metavault/pkg/core"
)

// Versions returns the versions of a context in ascending order.
func (s *Store) Versions(contextName string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.manifests[contextName].SortedVersions()
}

// CreateVersion adds newVersion to a context, copying the schema documents of
// a base version.
//
// The base is basedOn when given, else the version flagged as default, else
// the highest version. Every cached document of the base is deep-cloned under
// the new version with its version field stamped; documents listed in the base
// but not cached are skipped.
func (s *Store) CreateVersion(contextName, newVersion, basedOn string) error {
	if err := core.ValidateVersionName(newVersion); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.state.manifests[contextName]
	if !ok {
		return s.failLocked(fmt.Errorf("context %q: %w", contextName, core.ErrNotFound))
	}
	if _, exists := m.Versions[newVersion]; exists {
		return s.failLocked(fmt.Errorf("%w: %s@%s", core.ErrVersionExists, contextName, newVersion))
	}

	base := basedOn
	if base == "" {
		base = m.DefaultVersion()
	}

	today := s.today()
	entry := core.VersionEntry{
		ReleaseDate: today,
		Schemas:     []string{},
	}
	description := fmt.Sprintf("Version %s created", newVersion)
	schemas := s.state.schemas

	if base != "" {
		baseEntry, ok := m.Versions[base]
		if !ok {
			return s.failLocked(fmt.Errorf("base version %s@%s: %w", contextName, base, core.ErrNotFound))
		}
		entry.Schemas = append(entry.Schemas, baseEntry.Schemas...)
		description = fmt.Sprintf("Version %s created based on %s", newVersion, base)

		copied := 0
		schemas = copySchemas(schemas)
		for _, file := range baseEntry.Schemas {
			doc, ok := s.state.schemas[core.SchemaKey(contextName, base, file)]
			if !ok {
				continue
			}
			clone := doc.Clone()
			clone.Version = newVersion
			schemas[core.SchemaKey(contextName, newVersion, file)] = clone
			copied++
		}
		s.logger.Debug("version documents copied", "context", contextName, "base", base, "copied", copied, "listed", len(baseEntry.Schemas))
	}
	entry.Changelog = []core.ChangelogEntry{{
		Date:        today,
		Type:        core.ChangeAdded,
		Description: description,
	}}

	next := m.Clone()
	if next.Versions == nil {
		next.Versions = make(map[string]core.VersionEntry)
	}
	next.Versions[newVersion] = entry

	s.state.manifests = withManifest(s.state.manifests, contextName, next)
	s.state.schemas = schemas
	s.dirty = true
	s.logger.Info("version created", "context", contextName, "version", newVersion, "base", base)
	return nil
}

// DeleteVersion removes a version and its cached documents. The last version
// of a context is protected. The default flag is not moved to another version.
func (s *Store) DeleteVersion(contextName, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.state.manifests[contextName]
	if !ok {
		return nil
	}
	if _, ok := m.Versions[version]; !ok {
		return nil
	}
	if len(m.Versions) <= 1 {
		return s.failLocked(fmt.Errorf("%w: %s@%s", core.ErrLastVersionProtected, contextName, version))
	}

	next := m.Clone()
	delete(next.Versions, version)

	prefix := core.SchemaKey(contextName, version, "")
	schemas := make(map[string]*core.SchemaDocument, len(s.state.schemas))
	for k, v := range s.state.schemas {
		if !strings.HasPrefix(k, prefix) {
			schemas[k] = v
		}
	}

	s.state.manifests = withManifest(s.state.manifests, contextName, next)
	s.state.schemas = schemas
	s.dirty = true
	if s.cursor.Context == contextName && s.cursor.Version == version {
		s.cursor = Cursor{Context: contextName, Version: next.DefaultVersion()}
	}
	s.logger.Info("version deleted", "context", contextName, "version", version)
	return nil
}

// SetDefaultVersion flags version as the default of its context, clearing the
// flag elsewhere, and updates the registry entry to match.
func (s *Store) SetDefaultVersion(contextName, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.state.manifests[contextName]
	if !ok {
		return s.failLocked(fmt.Errorf("context %q: %w", contextName, core.ErrNotFound))
	}
	if _, ok := m.Versions[version]; !ok {
		return s.failLocked(fmt.Errorf("version %s@%s: %w", contextName, version, core.ErrNotFound))
	}

	next := m.Clone()
	for v, entry := range next.Versions {
		entry.IsDefault = v == version
		next.Versions[v] = entry
	}
	s.state.manifests = withManifest(s.state.manifests, contextName, next)

	if s.state.registry != nil {
		if entry, ok := s.state.registry.Contexts[contextName]; ok {
			reg := s.state.registry.Clone()
			entry.DefaultVersion = version
			reg.Contexts[contextName] = entry
			s.state.registry = reg
		}
	}
	s.dirty = true
	return nil
}

// AddChangelogEntry prepends an entry to a version's changelog. The date
// defaults to today.
func (s *Store) AddChangelogEntry(contextName, version string, entry core.ChangelogEntry) error {
	if !entry.Type.Valid() {
		return s.fail(fmt.Errorf("%w: unknown type %q", core.ErrInvalidChangelog, entry.Type))
	}
	if strings.TrimSpace(entry.Description) == "" {
		return s.fail(fmt.Errorf("%w: description is empty", core.ErrInvalidChangelog))
	}
	if entry.Date == "" {
		entry.Date = s.today()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.state.manifests[contextName]
	if !ok {
		return s.failLocked(fmt.Errorf("context %q: %w", contextName, core.ErrNotFound))
	}
	ve, ok := m.Versions[version]
	if !ok {
		return s.failLocked(fmt.Errorf("version %s@%s: %w", contextName, version, core.ErrNotFound))
	}

	next := m.Clone()
	ve = ve.Clone()
	ve.Changelog = append([]core.ChangelogEntry{entry}, ve.Changelog...)
	next.Versions[version] = ve

	s.state.manifests = withManifest(s.state.manifests, contextName, next)
	s.dirty = true
	return nil
}
