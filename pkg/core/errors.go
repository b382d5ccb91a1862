package core

import "errors"

// Common errors.
var (
	ErrReadOnly                = errors.New("document store is in read-only mode")
	ErrNotFound                = errors.New("not found")
	ErrInvalidName             = errors.New("invalid name")
	ErrContextExists           = errors.New("context already exists")
	ErrVersionExists           = errors.New("version already exists")
	ErrSchemaExists            = errors.New("schema already exists in version")
	ErrDefaultContextProtected = errors.New("the default context cannot be deleted")
	ErrLastVersionProtected    = errors.New("the last version of a context cannot be deleted")
	ErrDuplicateFieldID        = errors.New("field id already exists in schema")
	ErrDuplicateGroupID        = errors.New("group id already exists in schema")
	ErrNoActiveVersion         = errors.New("no active context version")
	ErrInvalidChangelog        = errors.New("invalid changelog entry")
)
