package core

import "context"

// DocumentStore is the read side of wherever the repository documents live
// (a directory, a web server, an archive mounted in memory).
// Paths are slash-separated and relative to the store root.
type DocumentStore interface {
	// Read returns the raw bytes of the document at path.
	// Missing documents yield an error wrapping ErrNotFound.
	Read(ctx context.Context, path string) ([]byte, error)
}

// WritableStore is a DocumentStore that also accepts writes.
type WritableStore interface {
	DocumentStore

	// Write creates or replaces the document at path.
	Write(ctx context.Context, path string, data []byte) error
}

// Lister is implemented by stores that can enumerate their documents.
type Lister interface {
	// List returns the paths matching a doublestar glob pattern, sorted.
	List(ctx context.Context, pattern string) ([]string, error)
}

// Committer is implemented by stores that record writes as a unit
// (e.g. a git commit).
type Committer interface {
	Commit(ctx context.Context, message string) error
}

// Watchable is implemented by stores that report external changes.
type Watchable interface {
	// Watch emits events for documents matching pattern until ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
