// Package lifecycle exposes document store change events as a lifecycle.Source
// so that a schema repository can be driven by a supervisor's event loop.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/metavault/pkg/core"
)

type documentSource struct {
	events  <-chan core.Event
	out     chan lifecycle.Event
	pattern string
}

// SourceOption configures a document source.
type SourceOption func(*documentSource)

// WithPattern forwards only events whose path matches the doublestar pattern.
func WithPattern(pattern string) SourceOption {
	return func(s *documentSource) {
		s.pattern = pattern
	}
}

// NewSource creates a lifecycle.Source that emits document change events.
// core.Event satisfies lifecycle.Event through its String method.
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &documentSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *documentSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *documentSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if !s.matches(e) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

func (s *documentSource) matches(e core.Event) bool {
	if s.pattern == "" {
		return true
	}
	ok, _ := doublestar.Match(s.pattern, e.Path)
	return ok
}
