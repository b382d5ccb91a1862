package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/metavault/pkg/adapters/fs"
	httpstore "github.com/aretw0/metavault/pkg/adapters/http"
	"github.com/aretw0/metavault/pkg/adapters/memory"
	"github.com/aretw0/metavault/pkg/core"
	"github.com/aretw0/metavault/pkg/repository"
)

// New creates a repository store over the document store selected by opts.
// The URI argument is adapter-specific: a directory for "fs", a base URL for
// "http", ignored for "memory". Nothing is loaded yet.
func New(uri string, opts ...Option) (*repository.Store, error) {
	o := applyOptions(opts)
	docs, err := openDocuments(context.Background(), uri, o)
	if err != nil {
		return nil, err
	}
	return newStore(docs, o), nil
}

// Open creates a repository store and loads its registry and manifests.
func Open(ctx context.Context, uri string, opts ...Option) (*repository.Store, error) {
	o := applyOptions(opts)
	docs, err := openDocuments(ctx, uri, o)
	if err != nil {
		return nil, err
	}
	s := newStore(docs, o)
	if err := s.LoadRegistry(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenDocuments returns the initialized document store selected by opts.
func OpenDocuments(ctx context.Context, uri string, opts ...Option) (core.DocumentStore, error) {
	return openDocuments(ctx, uri, applyOptions(opts))
}

func newStore(docs core.DocumentStore, o *options) *repository.Store {
	ropts := []repository.Option{repository.WithLogger(o.logger)}
	if o.clock != nil {
		ropts = append(ropts, repository.WithClock(o.clock))
	}
	return repository.New(docs, ropts...)
}

func openDocuments(ctx context.Context, uri string, o *options) (core.DocumentStore, error) {
	if o.documents != nil {
		return o.documents, nil
	}

	switch o.adapter {
	case AdapterFS:
		store, err := openFS(ctx, uri, o)
		if err != nil {
			return nil, err
		}
		return store, nil
	case AdapterHTTP:
		store, err := httpstore.NewStore(httpstore.Config{
			BaseURL: uri,
			Client:  o.httpClient,
			Logger:  o.logger,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case AdapterMemory:
		return memory.NewStore(nil), nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// openFS handles the initialization logic for the filesystem adapter.
func openFS(ctx context.Context, path string, o *options) (*fs.Store, error) {
	if path == "" {
		path = "."
	}

	// Versioning follows the directory unless configured: an existing .git
	// means published trees are committed.
	versioning := false
	if o.versioning != nil {
		versioning = *o.versioning
	} else if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
		versioning = true
		o.logger.Debug("auto-detected versioning", "reason", ".git present")
	}

	store := fs.NewStore(fs.Config{
		Path:         path,
		MustExist:    o.mustExist || !o.autoInit,
		ReadOnly:     o.readOnly,
		Versioning:   versioning,
		AutoInit:     o.autoInit,
		LockName:     o.lockName,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
	})
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
