// Package typed provides type-safe access to JSON documents held by a core.DocumentStore.
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/metavault/pkg/core"
)

// DocumentModel is a typed view of one document.
type DocumentModel[T any] struct {
	Path  string
	Data  T
	Saver Saver[T] // Active Record reference
}

// Saver interface avoids tight coupling between models and repositories.
type Saver[T any] interface {
	Save(ctx context.Context, doc *DocumentModel[T]) error
}

// Save persists the document using the attached saver.
func (d *DocumentModel[T]) Save(ctx context.Context) error {
	if d.Saver == nil {
		return fmt.Errorf("document is detached (missing Saver)")
	}
	return d.Saver.Save(ctx, d)
}

// Repository wraps a core.DocumentStore to read and write typed documents.
type Repository[T any] struct {
	store core.DocumentStore
}

// NewRepository creates a new type-safe wrapper around a document store.
func NewRepository[T any](store core.DocumentStore) *Repository[T] {
	return &Repository[T]{store: store}
}

// Get reads the document at path and decodes it into T.
func (r *Repository[T]) Get(ctx context.Context, path string) (*DocumentModel[T], error) {
	data, err := r.store.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	v, err := Decode[T](data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &DocumentModel[T]{Path: path, Data: v, Saver: r}, nil
}

// Save encodes the document as pretty-printed JSON and writes it back.
// Stores that are not writable yield core.ErrReadOnly.
func (r *Repository[T]) Save(ctx context.Context, doc *DocumentModel[T]) error {
	w, ok := r.store.(core.WritableStore)
	if !ok {
		return fmt.Errorf("cannot save %s: %w", doc.Path, core.ErrReadOnly)
	}

	data, err := core.MarshalDocument(doc.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal typed data: %w", err)
	}

	if doc.Saver == nil {
		doc.Saver = r
	}
	return w.Write(ctx, doc.Path, data)
}

// Decode unmarshals raw JSON into T.
func Decode[T any](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}
	return v, nil
}
