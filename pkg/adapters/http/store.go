// Package http provides a read-only document store that fetches documents
// from a static web server, the way a hosted metadata repository is served.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/aretw0/introspection"

	"github.com/aretw0/metavault/pkg/core"
)

// DefaultMaxDocumentSize bounds a single fetched document.
const DefaultMaxDocumentSize = 32 << 20

// ErrTooLarge is returned for documents above the configured size limit.
var ErrTooLarge = errors.New("document too large")

// Config holds the configuration for the http store.
type Config struct {
	BaseURL         string
	Client          *http.Client
	Logger          *slog.Logger
	MaxDocumentSize int64 // 0 means DefaultMaxDocumentSize
}

// Store implements core.DocumentStore over GET {BaseURL}/{path}.
type Store struct {
	base    *url.URL
	client  *http.Client
	logger  *slog.Logger
	maxSize int64

	fetches  atomic.Int64
	failures atomic.Int64
}

// NewStore validates the base URL and creates the store.
func NewStore(config Config) (*Store, error) {
	base, err := url.Parse(strings.TrimSuffix(config.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", config.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", config.BaseURL)
	}
	if config.Client == nil {
		config.Client = http.DefaultClient
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MaxDocumentSize <= 0 {
		config.MaxDocumentSize = DefaultMaxDocumentSize
	}
	return &Store{base: base, client: config.Client, logger: config.Logger, maxSize: config.MaxDocumentSize}, nil
}

// Read implements core.DocumentStore. A 404 maps to core.ErrNotFound.
func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil || ref.IsAbs() || escapes(path) || escapes(ref.Path) {
		return nil, fmt.Errorf("%w: path %q", core.ErrInvalidName, path)
	}
	target := s.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	s.fetches.Add(1)
	s.logger.Debug("fetching document", "url", target.String())

	resp, err := s.client.Do(req)
	if err != nil {
		s.failures.Add(1)
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		s.failures.Add(1)
		return nil, fmt.Errorf("%s: %w", path, core.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		s.failures.Add(1)
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", path, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSize+1))
	if err != nil {
		s.failures.Add(1)
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if int64(len(data)) > s.maxSize {
		s.failures.Add(1)
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", path, ErrTooLarge, s.maxSize)
	}
	return data, nil
}

// escapes reports whether a slash-separated path has a ".." segment.
func escapes(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// StoreState exposes internal state for observability.
type StoreState struct {
	BaseURL  string `json:"base_url"`
	Fetches  int64  `json:"fetches"`
	Failures int64  `json:"failures"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{
		BaseURL:  s.base.String(),
		Fetches:  s.fetches.Load(),
		Failures: s.failures.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "http-store"
}

var (
	_ core.DocumentStore           = (*Store)(nil)
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
)
