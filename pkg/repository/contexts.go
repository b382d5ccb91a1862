package repository

import (
	"fmt"

	"github.com/aretw0/metavault/pkg/core"
)

// CoreSchemaFile is the schema every context starts with.
const CoreSchemaFile = "core.json"

// ContextPatch carries the registry attributes UpdateContext may change.
// Nil members are left untouched.
type ContextPatch struct {
	Name        *string
	Description *string
}

// ContextNames returns the registered context names in order.
func (s *Store) ContextNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.registry.Names()
}

// CreateContext registers a new context with a single default version 1.0.0
// listing selectedSchemas (core.json when empty).
//
// Schema documents are not copied from basedOn: the caller is expected to
// provide them, for example by publishing the base context's documents under
// the new folder.
func (s *Store) CreateContext(name, displayName, basedOn string, selectedSchemas []string) error {
	if err := core.ValidateContextName(name); err != nil {
		return s.fail(err)
	}
	if len(selectedSchemas) == 0 {
		selectedSchemas = []string{CoreSchemaFile}
	}
	for _, file := range selectedSchemas {
		if err := core.ValidateSchemaFile(file); err != nil {
			return s.fail(err)
		}
	}
	if displayName == "" {
		displayName = name
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reg := s.state.registry.Clone()
	if reg == nil {
		reg = core.NewContextRegistry()
	}
	if _, ok := reg.Contexts[name]; ok {
		return s.failLocked(fmt.Errorf("%w: %s", core.ErrContextExists, name))
	}

	reg.Contexts[name] = core.ContextEntry{
		Name:           displayName,
		DefaultVersion: core.InitialVersion,
		Path:           name,
		BasedOn:        basedOn,
	}
	manifest := &core.ContextManifest{
		ContextName: name,
		Name:        displayName,
		BasedOn:     basedOn,
		Versions: map[string]core.VersionEntry{
			core.InitialVersion: {
				ReleaseDate: s.today(),
				IsDefault:   true,
				Schemas:     append([]string{}, selectedSchemas...),
			},
		},
	}

	s.state.registry = reg
	s.state.manifests = withManifest(s.state.manifests, name, manifest)
	s.dirty = true
	s.logger.Info("context created", "context", name, "based_on", basedOn, "schemas", len(selectedSchemas))
	return nil
}

// UpdateContext changes the display name or description of a context.
func (s *Store) UpdateContext(name string, patch ContextPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.registry == nil {
		return s.failLocked(fmt.Errorf("context %q: %w", name, core.ErrNotFound))
	}
	entry, ok := s.state.registry.Contexts[name]
	if !ok {
		return s.failLocked(fmt.Errorf("context %q: %w", name, core.ErrNotFound))
	}

	reg := s.state.registry.Clone()
	if patch.Name != nil {
		entry.Name = *patch.Name
	}
	if patch.Description != nil {
		entry.Description = *patch.Description
	}
	reg.Contexts[name] = entry
	s.state.registry = reg

	if m, ok := s.state.manifests[name]; ok && patch.Name != nil {
		next := m.Clone()
		next.Name = *patch.Name
		s.state.manifests = withManifest(s.state.manifests, name, next)
	}
	s.dirty = true
	return nil
}

// DeleteContext removes a context from the registry together with its
// manifest. Cached schema documents of the context are left in place; they
// are orphaned and no longer exported.
//
// The default context is protected. After a deletion the cursor moves to the
// default context, whether or not the deleted context was active.
func (s *Store) DeleteContext(name string) error {
	if name == core.DefaultContextName {
		return s.fail(core.ErrDefaultContextProtected)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.registry == nil {
		return nil
	}
	if _, ok := s.state.registry.Contexts[name]; !ok {
		return nil
	}

	reg := s.state.registry.Clone()
	delete(reg.Contexts, name)
	s.state.registry = reg
	s.state.manifests = withManifest(s.state.manifests, name, nil)
	s.dirty = true
	s.resetCursorLocked(core.DefaultContextName)
	s.logger.Info("context deleted", "context", name)
	return nil
}
