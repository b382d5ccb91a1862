package archive_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/aretw0/metavault/pkg/archive"
	"github.com/aretw0/metavault/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() archive.Snapshot {
	reg := core.NewContextRegistry()
	reg.Contexts["default"] = core.ContextEntry{Name: "Default", DefaultVersion: "1.8.0", Path: "default"}
	reg.Contexts["event"] = core.ContextEntry{Name: "Events", DefaultVersion: "1.0.0", Path: "events-folder", BasedOn: "default"}

	core18 := core.NewSchemaDocument("default", "1.8.0")
	core18.Fields = append(core18.Fields, core.Field{
		ID:     "cclom:title",
		Group:  core.DefaultGroupID,
		Label:  core.Localized("Titel", "Title"),
		System: core.SystemConfig{Path: "cclom:title", Datatype: core.DatatypeString, Required: true},
	})

	return archive.Snapshot{
		Registry: reg,
		Manifests: map[string]*core.ContextManifest{
			"default": {
				ContextName: "default",
				Name:        "Default",
				Versions: map[string]core.VersionEntry{
					"1.8.0": {ReleaseDate: "2024-05-01", IsDefault: true, Schemas: []string{"core.json"}},
				},
			},
			"event": {
				ContextName: "event",
				Name:        "Events",
				BasedOn:     "default",
				Versions: map[string]core.VersionEntry{
					"1.0.0": {ReleaseDate: "2024-06-01", IsDefault: true, Schemas: []string{"core.json", "event.json"}},
				},
			},
		},
		Schemas: map[string]*core.SchemaDocument{
			core.SchemaKey("default", "1.8.0", "core.json"): core18,
			core.SchemaKey("event", "1.0.0", "core.json"):   core.NewSchemaDocument("event", "1.0.0"),
			core.SchemaKey("event", "1.0.0", "event.json"):  core.NewSchemaDocument("event", "1.0.0"),
			// Not listed in any manifest: must not be exported.
			core.SchemaKey("default", "1.8.0", "orphan.json"): core.NewSchemaDocument("x", "1.8.0"),
		},
	}
}

func TestFiles_Layout(t *testing.T) {
	files, err := archive.Files(fixture())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"context-registry.json",
		"default/manifest.json",
		"default/v1.8.0/core.json",
		"events-folder/manifest.json",
		"events-folder/v1.0.0/core.json",
		"events-folder/v1.0.0/event.json",
	}, archive.SortedPaths(files))
}

func TestZip_RoundTrip(t *testing.T) {
	snap := fixture()
	data, err := archive.EncodeZip(snap)
	require.NoError(t, err)

	got, err := archive.DecodeZip(data)
	require.NoError(t, err)

	delete(snap.Schemas, core.SchemaKey("default", "1.8.0", "orphan.json"))
	assert.Equal(t, snap.Registry, got.Registry)
	assert.Equal(t, snap.Manifests, got.Manifests)
	assert.Equal(t, snap.Schemas, got.Schemas)
}

func TestZip_Deterministic(t *testing.T) {
	a, err := archive.EncodeZip(fixture())
	require.NoError(t, err)
	b, err := archive.EncodeZip(fixture())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeZip_Failures(t *testing.T) {
	t.Run("Not A Zip", func(t *testing.T) {
		_, err := archive.DecodeZip([]byte("definitely not a zip"))
		assert.True(t, errors.Is(err, archive.ErrCorruptArchive))
	})

	t.Run("Missing Registry", func(t *testing.T) {
		data := buildZip(t, map[string]string{"default/manifest.json": `{}`})
		_, err := archive.DecodeZip(data)
		assert.True(t, errors.Is(err, archive.ErrMissingRegistry))
	})

	t.Run("Invalid Schema JSON Aborts", func(t *testing.T) {
		data := buildZip(t, map[string]string{
			"context-registry.json":    `{"contexts":{"default":{"name":"Default","defaultVersion":"1.0.0","path":"default"}},"defaultContext":"default"}`,
			"default/manifest.json":    `{"contextName":"default","name":"Default","versions":{"1.0.0":{"releaseDate":"2024-01-01","schemas":["core.json"]}}}`,
			"default/v1.0.0/core.json": `{"profileId":`,
		})
		_, err := archive.DecodeZip(data)
		assert.True(t, errors.Is(err, archive.ErrCorruptArchive))
	})

	t.Run("Missing Files Are Skipped", func(t *testing.T) {
		data := buildZip(t, map[string]string{
			"context-registry.json": `{"contexts":{"default":{"name":"Default","defaultVersion":"1.0.0","path":"default"},"ghost":{"name":"Ghost","defaultVersion":"1.0.0","path":"ghost"}},"defaultContext":"default"}`,
			"default/manifest.json": `{"contextName":"default","name":"Default","versions":{"1.0.0":{"releaseDate":"2024-01-01","schemas":["core.json"]}}}`,
		})
		snap, err := archive.DecodeZip(data)
		require.NoError(t, err)
		assert.Len(t, snap.Registry.Contexts, 2)
		assert.Len(t, snap.Manifests, 1)
		assert.Empty(t, snap.Schemas)
	})
}

func TestEntries(t *testing.T) {
	data, err := archive.EncodeZip(fixture())
	require.NoError(t, err)

	all, err := archive.Entries(data, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	manifests, err := archive.Entries(data, "*/manifest.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"default/manifest.json", "events-folder/manifest.json"}, manifests)

	_, err = archive.Entries(data, "[")
	assert.Error(t, err)
}

func TestBundle_RoundTrip(t *testing.T) {
	snap := fixture()
	delete(snap.Schemas, core.SchemaKey("default", "1.8.0", "orphan.json"))

	data, err := archive.EncodeBundle(snap)
	require.NoError(t, err)

	got, err := archive.DecodeBundle(data)
	require.NoError(t, err)
	assert.Equal(t, snap.Registry, got.Registry)
	assert.Equal(t, snap.Manifests, got.Manifests)
	assert.Equal(t, snap.Schemas, got.Schemas)
}

func TestBundle_Context(t *testing.T) {
	data, err := archive.EncodeContextBundle(fixture(), "event")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"manifest.json"`)
	assert.Contains(t, string(data), `"event.json"`)

	_, err = archive.EncodeContextBundle(fixture(), "missing")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestDecodeBundle_Shapes(t *testing.T) {
	t.Run("Registry Only", func(t *testing.T) {
		snap, err := archive.DecodeBundle([]byte(`{"context-registry.json":{"contexts":{"default":{"name":"Default","defaultVersion":"1.0.0","path":"default"}},"defaultContext":"default"}}`))
		require.NoError(t, err)
		assert.Contains(t, snap.Registry.Contexts, "default")
		assert.Empty(t, snap.Manifests)
	})

	t.Run("Missing Registry Key", func(t *testing.T) {
		_, err := archive.DecodeBundle([]byte(`{"contexts":{}}`))
		assert.True(t, errors.Is(err, archive.ErrMissingRegistry))
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		_, err := archive.DecodeBundle([]byte(`{`))
		assert.True(t, errors.Is(err, archive.ErrCorruptArchive))
	})
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
