package repository

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Contexts      int    `json:"contexts"`
	Manifests     int    `json:"manifests"`
	Schemas       int    `json:"schemas"`
	Cursor        Cursor `json:"cursor"`
	Dirty         bool   `json:"dirty"`
	Loading       bool   `json:"loading"`
	Error         string `json:"error,omitempty"`
	DocumentStore string `json:"document_store"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storeType := "unknown"
	if comp, ok := s.docs.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}

	st := StoreState{
		Manifests:     len(s.state.manifests),
		Schemas:       len(s.state.schemas),
		Cursor:        s.cursor,
		Dirty:         s.dirty,
		Loading:       s.loading > 0,
		DocumentStore: storeType,
	}
	if s.state.registry != nil {
		st.Contexts = len(s.state.registry.Contexts)
	}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "schema-repository"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
