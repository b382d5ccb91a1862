package core_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/metavault/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizedValue_UnmarshalJSON(t *testing.T) {
	t.Run("Object Form", func(t *testing.T) {
		var v core.LocalizedValue
		require.NoError(t, json.Unmarshal([]byte(`{"de":"Titel","en":"Title"}`), &v))
		assert.Equal(t, core.Localized("Titel", "Title"), v)
	})

	t.Run("Legacy Plain String", func(t *testing.T) {
		var f core.Field
		require.NoError(t, json.Unmarshal([]byte(`{"id":"cclom:title","label":"Titel","system":{}}`), &f))
		assert.Equal(t, "Titel", f.Label.Get(core.LangDE))
		assert.Equal(t, "Titel", f.Label.Get(core.LangEN))
		assert.Equal(t, core.Localized("Titel", "Titel"), f.Label.Normalized())

		s, ok := f.Label.Legacy()
		assert.True(t, ok)
		assert.Equal(t, "Titel", s)

		data, err := json.Marshal(f.Clone().Label)
		require.NoError(t, err)
		assert.Equal(t, `"Titel"`, string(data))
	})

	t.Run("Legacy Form Ends On Edit", func(t *testing.T) {
		var v core.LocalizedValue
		require.NoError(t, json.Unmarshal([]byte(`"Titel"`), &v))
		v[core.LangEN] = "Title"

		_, ok := v.Legacy()
		assert.False(t, ok)
		data, err := json.Marshal(v)
		require.NoError(t, err)
		assert.JSONEq(t, `{"de":"Titel","en":"Title"}`, string(data))
	})

	t.Run("Null Stays Empty", func(t *testing.T) {
		var f core.Field
		require.NoError(t, json.Unmarshal([]byte(`{"id":"x","label":{"de":"a","en":"b"},"description":null,"system":{}}`), &f))
		assert.Nil(t, f.Description)
	})

	t.Run("Rejects Numbers", func(t *testing.T) {
		var v core.LocalizedValue
		assert.Error(t, json.Unmarshal([]byte(`42`), &v))
	})
}

func TestLocalizedValue_Get(t *testing.T) {
	v := core.LocalizedValue{"de": "Ereignis"}
	assert.Equal(t, "Ereignis", v.Get("de"))
	assert.Equal(t, "Ereignis", v.Get("en"))
	assert.Equal(t, core.Localized("Ereignis", "Ereignis"), v.Complete())
}

func TestSchemaKey_RoundTrip(t *testing.T) {
	cases := []struct{ ctx, version, file string }{
		{"default", "1.8.0", "core.json"},
		{"oeh-event", "2.0.0-rc.1", "event.json"},
		{"x", "1", "nested.name.json"},
	}
	for _, c := range cases {
		key := core.SchemaKey(c.ctx, c.version, c.file)
		ctx, version, file, ok := core.ParseSchemaKey(key)
		require.True(t, ok, key)
		assert.Equal(t, c.ctx, ctx)
		assert.Equal(t, c.version, version)
		assert.Equal(t, c.file, file)
	}

	_, _, _, ok := core.ParseSchemaKey("no-separator")
	assert.False(t, ok)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "default/manifest.json", core.ManifestPath("default"))
	assert.Equal(t, "default/v1.8.0/core.json", core.SchemaPath("default", "1.8.0", "core.json"))
}

func TestValidateNames(t *testing.T) {
	assert.NoError(t, core.ValidateContextName("event"))
	assert.True(t, errors.Is(core.ValidateContextName("a@b"), core.ErrInvalidName))
	assert.True(t, errors.Is(core.ValidateContextName(" "), core.ErrInvalidName))
	assert.NoError(t, core.ValidateVersionName("2.0.0"))
	assert.True(t, errors.Is(core.ValidateVersionName("2/0"), core.ErrInvalidName))
	assert.NoError(t, core.ValidateSchemaFile("core.json"))
	assert.True(t, errors.Is(core.ValidateSchemaFile("../core.json"), core.ErrInvalidName))
}

func TestCompareVersions(t *testing.T) {
	assert.Equal(t, -1, core.CompareVersions("1.9.0", "1.10.0"))
	assert.Equal(t, 1, core.CompareVersions("2.0.0", "2.0.0-rc.1"))
	assert.Equal(t, 0, core.CompareVersions("1.0.0", "1.0.0"))
	assert.Equal(t, 1, core.CompareVersions("1.0.0", "draft"))
	assert.Equal(t, -1, core.CompareVersions("alpha", "beta"))
}

func TestContextManifest_VersionSelection(t *testing.T) {
	m := &core.ContextManifest{
		ContextName: "default",
		Versions: map[string]core.VersionEntry{
			"1.10.0": {ReleaseDate: "2024-03-01"},
			"1.9.0":  {ReleaseDate: "2024-02-01", IsDefault: true},
			"1.2.0":  {ReleaseDate: "2023-01-01"},
		},
	}

	assert.Equal(t, []string{"1.2.0", "1.9.0", "1.10.0"}, m.SortedVersions())
	assert.Equal(t, "1.10.0", m.LatestVersion())
	assert.Equal(t, "1.9.0", m.DefaultVersion())

	entry := m.Versions["1.9.0"]
	entry.IsDefault = false
	m.Versions["1.9.0"] = entry
	assert.Equal(t, "1.10.0", m.DefaultVersion())

	var empty *core.ContextManifest
	assert.Equal(t, "", empty.DefaultVersion())
}

func TestSchemaDocument_CloneIsIndependent(t *testing.T) {
	trim := true
	doc := core.NewSchemaDocument("default", "1.0.0")
	doc.Context = map[string]any{"ccm": "http://example.org/ccm#", "list": []any{"a"}}
	doc.Fields = append(doc.Fields, core.Field{
		ID:    "cclom:title",
		Group: core.DefaultGroupID,
		Label: core.Localized("Titel", "Title"),
		System: core.SystemConfig{
			Datatype:      core.DatatypeString,
			Normalization: &core.Normalization{Trim: &trim},
			Vocabulary: &core.Vocabulary{
				Type:     core.VocabularyClosed,
				Concepts: []core.Concept{{Label: core.Localized("a", "a"), Narrower: []string{"b"}}},
			},
		},
	})

	clone := doc.Clone()
	require.Equal(t, doc, clone)

	clone.Fields[0].Label["de"] = "Geändert"
	*clone.Fields[0].System.Normalization.Trim = false
	clone.Fields[0].System.Vocabulary.Concepts[0].Narrower[0] = "c"
	clone.Groups[0].Label["en"] = "Changed"
	clone.Context.(map[string]any)["list"].([]any)[0] = "z"

	assert.Equal(t, "Titel", doc.Fields[0].Label["de"])
	assert.True(t, *doc.Fields[0].System.Normalization.Trim)
	assert.Equal(t, "b", doc.Fields[0].System.Vocabulary.Concepts[0].Narrower[0])
	assert.Equal(t, "General", doc.Groups[0].Label["en"])
	assert.Equal(t, "a", doc.Context.(map[string]any)["list"].([]any)[0])
}

func TestMarshalDocument(t *testing.T) {
	doc := core.NewSchemaDocument("default", "1.0.0")
	doc.Fields = append(doc.Fields, core.Field{
		ID:    "ccm:url",
		Label: core.Localized("<URL>", "<URL> & more"),
	})

	a, err := core.MarshalDocument(doc)
	require.NoError(t, err)
	b, err := core.MarshalDocument(doc.Clone())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Contains(t, string(a), "\n  \"profileId\": \"default\"")
	assert.Contains(t, string(a), "<URL> & more")
	assert.NotEqual(t, byte('\n'), a[len(a)-1])
}

func TestSchemaDocument_KeepsUnknownMembers(t *testing.T) {
	raw := []byte(`{
		"profileId": "core",
		"version": "1.0.0",
		"title": {"de": "Kern", "en": "Core"},
		"groups": [{"id": "general", "label": "Allgemein", "collapsed": true}],
		"fields": [{
			"id": "cclom:title",
			"label": {"de": "Titel", "en": "Title"},
			"widget": "textarea",
			"system": {
				"path": "cclom:title",
				"datatype": "string",
				"extraction_hint": "keep me",
				"index": {"fulltext": true, "boost": 2.5},
				"vocabulary": {"type": "open", "source": "x", "concepts": [{"label": {"de": "a", "en": "a"}, "rank": 1}]}
			}
		}]
	}`)

	var doc core.SchemaDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.JSONEq(t, `{"de": "Kern", "en": "Core"}`, string(doc.Extra["title"]))
	assert.NotContains(t, doc.Extra, "profileId")

	f := doc.Field("cclom:title")
	require.NotNil(t, f)
	assert.Equal(t, `"textarea"`, string(f.Extra["widget"]))
	assert.Equal(t, `"keep me"`, string(f.System.Extra["extraction_hint"]))

	clone := doc.Clone()
	clone.Extra["title"][2] = 'X'
	assert.JSONEq(t, `{"de": "Kern", "en": "Core"}`, string(doc.Extra["title"]))

	out, err := core.MarshalDocument(&doc)
	require.NoError(t, err)
	for _, member := range []string{
		`"title": {`, `"collapsed": true`, `"widget": "textarea"`, `"extraction_hint": "keep me"`,
		`"boost": 2.5`, `"source": "x"`, `"rank": 1`, `"label": "Allgemein"`,
	} {
		assert.Contains(t, string(out), member)
	}

	var again core.SchemaDocument
	require.NoError(t, json.Unmarshal(out, &again))
	second, err := core.MarshalDocument(&again)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(second))
}

func TestMarshalDocument_EmptyLists(t *testing.T) {
	var doc core.SchemaDocument
	require.NoError(t, json.Unmarshal([]byte(`{"profileId":"x","version":"1.0.0"}`), &doc))
	doc.Fields = append(doc.Fields, core.Field{ID: "a", Label: core.Localized("a", "a"), System: core.SystemConfig{Vocabulary: &core.Vocabulary{Type: core.VocabularyOpen}}})

	out, err := core.MarshalDocument(&doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"groups": []`)
	assert.Contains(t, string(out), `"concepts": []`)
	assert.NotContains(t, string(out), "null")

	m, err := core.MarshalDocument(&core.ContextManifest{ContextName: "x", Versions: map[string]core.VersionEntry{"1.0.0": {}}})
	require.NoError(t, err)
	assert.Contains(t, string(m), `"schemas": []`)
}

func TestRegistry_KeepsUnknownMembers(t *testing.T) {
	var reg core.ContextRegistry
	require.NoError(t, json.Unmarshal([]byte(`{"contexts":{"default":{"name":"Default","defaultVersion":"1.0.0","path":"default","icon":"home"}},"defaultContext":"default","schemaVersion":2}`), &reg))
	assert.Equal(t, `2`, string(reg.Extra["schemaVersion"]))
	assert.Equal(t, `"home"`, string(reg.Contexts["default"].Extra["icon"]))

	clone := reg.Clone()
	clone.Contexts["default"].Extra["icon"][1] = 'X'
	assert.Equal(t, `"home"`, string(reg.Contexts["default"].Extra["icon"]))

	out, err := json.Marshal(&reg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"contexts":{"default":{"name":"Default","defaultVersion":"1.0.0","path":"default","icon":"home"}},"defaultContext":"default","schemaVersion":2}`, string(out))
}
