package repository_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/metavault/pkg/adapters/memory"
	"github.com/aretw0/metavault/pkg/core"
	"github.com/aretw0/metavault/pkg/repository"
)

var fixedNow = time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFixture returns a loaded store over a repository with two contexts:
//
//	default  1.0.0, 1.8.0 (default)   folder "default"
//	event    1.0.0 (default)          folder "events"
func newFixture(t *testing.T) (*memory.Store, *repository.Store) {
	t.Helper()
	docs := memory.NewStore(encodeAll(t, fixtureDocuments()))
	s := newStore(docs)
	require.NoError(t, s.LoadRegistry(context.Background()))
	return docs, s
}

func newStore(docs core.DocumentStore) *repository.Store {
	return repository.New(docs,
		repository.WithLogger(quietLogger()),
		repository.WithClock(func() time.Time { return fixedNow }),
	)
}

func fixtureDocuments() map[string]any {
	reg := core.NewContextRegistry()
	reg.Contexts["default"] = core.ContextEntry{Name: "Default", DefaultVersion: "1.8.0", Path: "default"}
	reg.Contexts["event"] = core.ContextEntry{Name: "Events", DefaultVersion: "1.0.0", Path: "events", BasedOn: "default"}

	return map[string]any{
		core.RegistryFile: reg,
		"default/manifest.json": &core.ContextManifest{
			ContextName: "default",
			Name:        "Default",
			Versions: map[string]core.VersionEntry{
				"1.0.0": {ReleaseDate: "2023-01-01", Schemas: []string{"core.json"}},
				"1.8.0": {ReleaseDate: "2024-05-01", IsDefault: true, Schemas: []string{"core.json", "event.json"}},
			},
		},
		"default/v1.0.0/core.json":  core.NewSchemaDocument("core", "1.0.0"),
		"default/v1.8.0/core.json":  coreSchema("1.8.0"),
		"default/v1.8.0/event.json": core.NewSchemaDocument("event", "1.8.0"),
		"events/manifest.json": &core.ContextManifest{
			ContextName: "event",
			Name:        "Events",
			BasedOn:     "default",
			Versions: map[string]core.VersionEntry{
				"1.0.0": {ReleaseDate: "2024-06-01", IsDefault: true, Schemas: []string{"core.json"}},
			},
		},
		"events/v1.0.0/core.json": coreSchema("1.0.0"),
	}
}

func coreSchema(version string) *core.SchemaDocument {
	doc := core.NewSchemaDocument("core", version)
	doc.Groups = append(doc.Groups, core.Group{ID: "meta", Label: core.Localized("Metadaten", "Metadata")})
	doc.Fields = []core.Field{
		{
			ID:    "cclom:title",
			Group: core.DefaultGroupID,
			Label: core.Localized("Titel", "Title"),
			System: core.SystemConfig{
				Path:     "cclom:title",
				Datatype: core.DatatypeString,
				Required: true,
			},
		},
		{
			ID:    "cclom:keyword",
			Group: "meta",
			Label: core.Localized("Schlagworte", "Keywords"),
			System: core.SystemConfig{
				Path:     "cclom:general_keyword",
				Datatype: core.DatatypeArray,
				Multiple: true,
			},
		},
		{
			ID:    repository.ContentTypeFieldID,
			Group: "meta",
			Label: core.Localized("Inhaltstyp", "Content type"),
			System: core.SystemConfig{
				Path:     repository.ContentTypeFieldID,
				Datatype: core.DatatypeURI,
				Vocabulary: &core.Vocabulary{
					Type: core.VocabularySKOS,
					Concepts: []core.Concept{
						{Label: core.Localized("Ereignis", "Event"), SchemaFile: "event.json", Icon: "event"},
						{Label: core.Localized("x", "x")},
					},
				},
			},
		},
	}
	return doc
}

func encodeAll(t *testing.T, docs map[string]any) map[string][]byte {
	t.Helper()
	out := make(map[string][]byte, len(docs))
	for p, v := range docs {
		data, err := core.MarshalDocument(v)
		require.NoError(t, err)
		out[p] = data
	}
	return out
}

// openCore loads and selects core.json of the active version.
func openCore(t *testing.T, s *repository.Store) {
	t.Helper()
	require.NoError(t, s.SetActiveSchema(context.Background(), repository.CoreSchemaFile))
}

func fieldIDs(doc *core.SchemaDocument) []string {
	ids := make([]string, len(doc.Fields))
	for i, f := range doc.Fields {
		ids[i] = f.ID
	}
	return ids
}
