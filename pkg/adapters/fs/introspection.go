package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path       string     `json:"path"`
	ReadOnly   bool       `json:"read_only"`
	Versioning bool       `json:"versioning"`
	Pending    int        `json:"pending_writes"`
	Watchers   int        `json:"active_watchers"`
	LastEvent  *time.Time `json:"last_event,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Path:       s.Path,
		ReadOnly:   s.config.ReadOnly,
		Versioning: s.config.Versioning,
		Pending:    len(s.pending),
		Watchers:   s.watchers,
		LastEvent:  s.lastEvent,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
