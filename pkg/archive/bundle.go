package archive

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/metavault/pkg/core"
)

// Bundle is the single-document JSON form of the whole repository.
type Bundle struct {
	Registry *core.ContextRegistry    `json:"context-registry.json"`
	Contexts map[string]ContextBundle `json:"contexts,omitempty"`
}

// ContextBundle holds one context's manifest and its schema documents,
// grouped version → filename.
type ContextBundle struct {
	Manifest *core.ContextManifest                      `json:"manifest.json"`
	Versions map[string]map[string]*core.SchemaDocument `json:"versions"`
}

// NewBundle groups the snapshot's schema map by context and version.
// The grouping parses each composite key with core.ParseSchemaKey.
func NewBundle(s Snapshot) Bundle {
	b := Bundle{
		Registry: s.Registry,
		Contexts: make(map[string]ContextBundle, len(s.Manifests)),
	}
	for name, manifest := range s.Manifests {
		b.Contexts[name] = ContextBundle{
			Manifest: manifest,
			Versions: make(map[string]map[string]*core.SchemaDocument),
		}
	}
	for key, doc := range s.Schemas {
		name, version, file, ok := core.ParseSchemaKey(key)
		if !ok {
			continue
		}
		cb, ok := b.Contexts[name]
		if !ok {
			continue
		}
		if cb.Versions[version] == nil {
			cb.Versions[version] = make(map[string]*core.SchemaDocument)
		}
		cb.Versions[version][file] = doc
	}
	return b
}

// EncodeBundle renders the whole snapshot as one JSON document.
func EncodeBundle(s Snapshot) ([]byte, error) {
	if s.Registry == nil {
		return nil, ErrMissingRegistry
	}
	return core.MarshalDocument(NewBundle(s))
}

// EncodeContextBundle renders a single context as one JSON document.
func EncodeContextBundle(s Snapshot, name string) ([]byte, error) {
	cb, ok := NewBundle(s).Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q: %w", name, core.ErrNotFound)
	}
	return core.MarshalDocument(cb)
}

// DecodeBundle parses a document produced by EncodeBundle. The registry key is
// required; a missing "contexts" key yields a registry-only snapshot.
func DecodeBundle(data []byte) (Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	if raw, ok := probe[core.RegistryFile]; !ok || string(raw) == "null" {
		return Snapshot{}, ErrMissingRegistry
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	if b.Registry.Contexts == nil {
		b.Registry.Contexts = make(map[string]core.ContextEntry)
	}

	snap := Snapshot{
		Registry:  b.Registry,
		Manifests: make(map[string]*core.ContextManifest),
		Schemas:   make(map[string]*core.SchemaDocument),
	}
	for name, cb := range b.Contexts {
		if cb.Manifest == nil {
			continue
		}
		snap.Manifests[name] = cb.Manifest
		for version, docs := range cb.Versions {
			for file, doc := range docs {
				if doc == nil {
					continue
				}
				snap.Schemas[core.SchemaKey(name, version, file)] = doc
			}
		}
	}
	return snap, nil
}
