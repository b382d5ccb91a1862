package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/metavault/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterHTTP   = "http"
	AdapterMemory = "memory"
)

// options holds the internal configuration for opening a repository.
type options struct {
	documents    core.DocumentStore
	logger       *slog.Logger
	adapter      string
	autoInit     bool
	versioning   *bool
	mustExist    bool
	readOnly     bool
	lockName     string
	httpClient   *http.Client
	errorHandler func(error)
	clock        func() time.Time
}

// Option defines a functional option for opening a repository.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithAutoInit creates the vault directory (and git repository, when
// versioning) if missing.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.autoInit = auto
	}
}

// WithVersioning enables or disables recording published documents as git
// commits. When not set, versioning follows the presence of a .git directory.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.versioning = &enabled
	}
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly enables read-only mode.
// Writes return core.ErrReadOnly and initialization (mkdir, git init) is skipped.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithLogger sets the logger for the store and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDocumentStore injects a custom document store (e.g. mock, archive).
// If provided, the adapter selection is skipped.
func WithDocumentStore(docs core.DocumentStore) Option {
	return func(o *options) {
		o.documents = docs
	}
}

// WithAdapter selects the document store by name: "fs" (default), "http"
// or "memory".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithLockName overrides the git lock file name of the fs adapter.
func WithLockName(name string) Option {
	return func(o *options) {
		o.lockName = name
	}
}

// WithHTTPClient sets the client used by the http adapter.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures
// (e.g. permission denied) which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithClock overrides the clock used for release and changelog dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}
