package repository

import (
	"context"
	"fmt"

	"github.com/aretw0/metavault/pkg/archive"
	"github.com/aretw0/metavault/pkg/core"
)

// ExportAsZip materializes every schema named in a manifest and returns the
// repository as a ZIP archive. Schemas that cannot be fetched are left out.
func (s *Store) ExportAsZip(ctx context.Context) ([]byte, error) {
	if err := s.LoadAllSchemas(ctx); err != nil {
		return nil, err
	}
	data, err := archive.EncodeZip(s.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to export archive: %w", err)
	}
	s.logger.Info("repository exported", "format", "zip", "bytes", len(data))
	return data, nil
}

// ExportAll returns the cached state as a single JSON document. Unlike
// ExportAsZip it does not fetch anything.
func (s *Store) ExportAll() ([]byte, error) {
	return archive.EncodeBundle(s.Snapshot())
}

// ExportContext returns one context's manifest and cached schemas as JSON.
func (s *Store) ExportContext(name string) ([]byte, error) {
	return archive.EncodeContextBundle(s.Snapshot(), name)
}

// ImportFromZip replaces the whole state with the content of an archive.
// The archive is decoded completely before anything is swapped; on failure
// the current state is left as it was.
func (s *Store) ImportFromZip(data []byte) error {
	snap, err := archive.DecodeZip(data)
	if err != nil {
		return s.fail(fmt.Errorf("failed to import archive: %w", err))
	}
	s.replace(snap)
	s.logger.Info("repository imported", "format", "zip", "contexts", len(snap.Registry.Contexts), "schemas", len(snap.Schemas))
	return nil
}

// ImportData replaces the whole state with a document produced by ExportAll.
// A document without the registry key is rejected.
func (s *Store) ImportData(data []byte) error {
	snap, err := archive.DecodeBundle(data)
	if err != nil {
		return s.fail(fmt.Errorf("failed to import bundle: %w", err))
	}
	s.replace(snap)
	s.logger.Info("repository imported", "format", "json", "contexts", len(snap.Registry.Contexts), "schemas", len(snap.Schemas))
	return nil
}

// Publish writes the repository in the document layout into dst, after
// materializing every schema named in a manifest. When dst records writes as
// a unit and message is not empty, the writes are committed.
func (s *Store) Publish(ctx context.Context, dst core.WritableStore, message string) (int, error) {
	if err := s.LoadAllSchemas(ctx); err != nil {
		return 0, err
	}
	files, err := archive.Files(s.Snapshot())
	if err != nil {
		return 0, err
	}

	for _, p := range archive.SortedPaths(files) {
		if err := dst.Write(ctx, p, files[p]); err != nil {
			return 0, fmt.Errorf("failed to publish %s: %w", p, err)
		}
	}
	if c, ok := dst.(core.Committer); ok && message != "" {
		if err := c.Commit(ctx, message); err != nil {
			return len(files), fmt.Errorf("failed to commit: %w", err)
		}
	}

	if core.DocumentStore(dst) == s.docs {
		s.mu.Lock()
		s.dirty = false
		s.mu.Unlock()
	}
	s.logger.Info("repository published", "files", len(files))
	return len(files), nil
}

// replace swaps in a decoded snapshot and points the cursor at the default
// context of its registry.
func (s *Store) replace(snap archive.Snapshot) {
	if snap.Manifests == nil {
		snap.Manifests = make(map[string]*core.ContextManifest)
	}
	if snap.Schemas == nil {
		snap.Schemas = make(map[string]*core.SchemaDocument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state{
		registry:  snap.Registry,
		manifests: snap.Manifests,
		schemas:   snap.Schemas,
	}
	s.resetCursorLocked(snap.Registry.DefaultContext)
	s.err = nil
	s.dirty = false
}
