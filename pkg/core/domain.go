// Package core holds the schema repository data model, the composite key and
// path conventions, and the ports implemented by document store adapters.
package core

import "fmt"

// EventType represents the type of change in a document store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change of one document in a store.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Path)
}
