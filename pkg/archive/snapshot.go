// Package archive converts repository state to and from flat, path-addressed bundles.
//
// Every function here is a pure transformation of a Snapshot; none of them
// touch a live repository store.
package archive

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/metavault/pkg/core"
)

// Common errors.
var (
	ErrMissingRegistry = errors.New("archive has no " + core.RegistryFile)
	ErrCorruptArchive  = errors.New("archive is corrupt")
)

// Snapshot is the complete repository state handled by the codec.
// Schemas is keyed by core.SchemaKey.
type Snapshot struct {
	Registry  *core.ContextRegistry
	Manifests map[string]*core.ContextManifest
	Schemas   map[string]*core.SchemaDocument
}

// Files materializes the snapshot into the document layout:
//
//	context-registry.json
//	{path}/manifest.json
//	{path}/v{version}/{file}
//
// The context entry's Path names the folder. Only schema documents listed in
// their version entry and present in Schemas are written; orphans are dropped.
func Files(s Snapshot) (map[string][]byte, error) {
	if s.Registry == nil {
		return nil, ErrMissingRegistry
	}

	files := make(map[string][]byte)
	data, err := core.MarshalDocument(s.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to encode registry: %w", err)
	}
	files[core.RegistryFile] = data

	for _, name := range s.Registry.Names() {
		manifest, ok := s.Manifests[name]
		if !ok || manifest == nil {
			continue
		}
		dir := s.Registry.Dir(name)

		data, err := core.MarshalDocument(manifest)
		if err != nil {
			return nil, fmt.Errorf("failed to encode manifest of %s: %w", name, err)
		}
		files[core.ManifestPath(dir)] = data

		for version, entry := range manifest.Versions {
			for _, file := range entry.Schemas {
				doc, ok := s.Schemas[core.SchemaKey(name, version, file)]
				if !ok || doc == nil {
					continue
				}
				data, err := core.MarshalDocument(doc)
				if err != nil {
					return nil, fmt.Errorf("failed to encode %s: %w", core.SchemaKey(name, version, file), err)
				}
				files[core.SchemaPath(dir, version, file)] = data
			}
		}
	}
	return files, nil
}

// SortedPaths returns the keys of files in byte order.
func SortedPaths(files map[string][]byte) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
