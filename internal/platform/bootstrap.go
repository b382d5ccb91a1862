package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/metavault/pkg/archive"
	"github.com/aretw0/metavault/pkg/core"
	"github.com/aretw0/metavault/pkg/repository"
)

// Skeleton returns a one-context repository: the default context at 1.0.0
// with a core.json carrying a title field and the content type field.
func Skeleton(now time.Time) archive.Snapshot {
	reg := core.NewContextRegistry()
	reg.Contexts[core.DefaultContextName] = core.ContextEntry{
		Name:           "Default",
		DefaultVersion: core.InitialVersion,
		Path:           core.DefaultContextName,
	}

	manifest := &core.ContextManifest{
		ContextName: core.DefaultContextName,
		Name:        "Default",
		Versions: map[string]core.VersionEntry{
			core.InitialVersion: {
				ReleaseDate: now.Format(time.DateOnly),
				IsDefault:   true,
				Schemas:     []string{repository.CoreSchemaFile},
				Changelog: []core.ChangelogEntry{{
					Date:        now.Format(time.DateOnly),
					Type:        core.ChangeAdded,
					Description: "Repository created",
				}},
			},
		},
	}

	doc := core.NewSchemaDocument("core", core.InitialVersion)
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
			ID:    repository.ContentTypeFieldID,
			Group: core.DefaultGroupID,
			Label: core.Localized("Inhaltstyp", "Content type"),
			System: core.SystemConfig{
				Path:     repository.ContentTypeFieldID,
				Datatype: core.DatatypeURI,
				Vocabulary: &core.Vocabulary{
					Type:     core.VocabularyClosed,
					Concepts: []core.Concept{},
				},
			},
		},
	}

	return archive.Snapshot{
		Registry:  reg,
		Manifests: map[string]*core.ContextManifest{core.DefaultContextName: manifest},
		Schemas: map[string]*core.SchemaDocument{
			core.SchemaKey(core.DefaultContextName, core.InitialVersion, repository.CoreSchemaFile): doc,
		},
	}
}

// Bootstrap writes the skeleton repository into dst and, when dst records
// writes as a unit, commits it. An existing registry is left untouched.
func Bootstrap(ctx context.Context, dst core.WritableStore, now time.Time) (int, error) {
	if _, err := dst.Read(ctx, core.RegistryFile); err == nil {
		return 0, fmt.Errorf("%s: %w", core.RegistryFile, core.ErrContextExists)
	}

	files, err := archive.Files(Skeleton(now))
	if err != nil {
		return 0, err
	}
	for _, p := range archive.SortedPaths(files) {
		if err := dst.Write(ctx, p, files[p]); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", p, err)
		}
	}

	if c, ok := dst.(core.Committer); ok {
		msg := FormatChangeReason(CommitTypeChore, core.DefaultContextName, "bootstrap schema repository", "")
		if err := c.Commit(ctx, msg); err != nil {
			return len(files), fmt.Errorf("failed to commit: %w", err)
		}
	}
	return len(files), nil
}
