package metavault

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/metavault/internal/platform"
	"github.com/aretw0/metavault/pkg/core"
	"github.com/aretw0/metavault/pkg/repository"
)

// --- Types ---

// Store is the schema repository store.
type Store = repository.Store

// Cursor is the active context, version, schema and field selection.
type Cursor = repository.Cursor

// --- Configuration ---

// Option defines a functional option for opening a repository.
type Option = platform.Option

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = platform.AdapterFS
	AdapterHTTP   = platform.AdapterHTTP
	AdapterMemory = platform.AdapterMemory
)

// WithAutoInit creates the vault directory (and git repository, when versioning) if missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables committing published documents to git.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithDocumentStore injects a custom document store.
func WithDocumentStore(docs core.DocumentStore) Option {
	return platform.WithDocumentStore(docs)
}

// WithAdapter selects the document store by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithHTTPClient sets the client used by the http adapter.
func WithHTTPClient(c *http.Client) Option {
	return platform.WithHTTPClient(c)
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithClock overrides the clock used for release and changelog dates.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// --- Construction ---

// New creates a store over the selected document store without loading anything.
func New(uri string, opts ...Option) (*Store, error) {
	return platform.New(uri, opts...)
}

// Open creates a store and loads its registry and manifests.
func Open(ctx context.Context, uri string, opts ...Option) (*Store, error) {
	return platform.Open(ctx, uri, opts...)
}

// Init writes a one-context skeleton repository into the directory at path,
// creating it if needed, and returns how many documents were written.
func Init(ctx context.Context, path string, opts ...Option) (int, error) {
	opts = append([]Option{platform.WithAutoInit(true)}, opts...)
	docs, err := platform.OpenDocuments(ctx, path, opts...)
	if err != nil {
		return 0, err
	}
	w, ok := docs.(core.WritableStore)
	if !ok {
		return 0, core.ErrReadOnly
	}
	return platform.Bootstrap(ctx, w, time.Now())
}

// --- Utils ---

// FindRoot looks upwards from startDir for a repository root.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// FormatChangeReason builds a Conventional Commit message.
func FormatChangeReason(ctype, scope, subject, body string) string {
	return platform.FormatChangeReason(ctype, scope, subject, body)
}
