package metavault

import (
	"github.com/aretw0/metavault/pkg/core"
	"github.com/aretw0/metavault/pkg/typed"
)

// DocumentModel is a typed view of one document.
type DocumentModel[T any] = typed.DocumentModel[T]

// TypedRepository reads and writes documents of type T.
type TypedRepository[T any] = typed.Repository[T]

// NewTyped creates a type-safe wrapper around a document store, for
// documents the schema repository does not model itself.
func NewTyped[T any](docs core.DocumentStore) *TypedRepository[T] {
	return typed.NewRepository[T](docs)
}
