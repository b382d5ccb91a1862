package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/metavault/pkg/archive"
	"github.com/aretw0/metavault/pkg/core"
)

// run executes the CLI in-process with fresh flag values.
func run(t *testing.T, args ...string) error {
	t.Helper()
	verbose, rootDir, adapter, configPath = false, "", "", ""
	exportJSON, exportContext = false, ""
	importCommit, importMessage = false, ""
	vocabFormat, vocabJSON, vocabType, vocabCommit = "", false, string(core.VocabularySKOS), false
	initVersioning, versionsChangelog, contextsJSON = false, false, false
	schemasGlob, watchPattern = "", "**/*.json"
	showJSON, showLang = false, "de"

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, run(t, "init", dir))
	return dir
}

func TestInit(t *testing.T) {
	dir := initRepo(t)
	for _, p := range []string{core.RegistryFile, "default/manifest.json", "default/v1.0.0/core.json"} {
		_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(p)))
		assert.NoError(t, err, p)
	}
}

func TestExportImport_Zip(t *testing.T) {
	dir := initRepo(t)
	out := filepath.Join(t.TempDir(), "schemas.zip")

	require.NoError(t, run(t, "--root", dir, "export", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	entries, err := archive.Entries(data, "")
	require.NoError(t, err)
	assert.Equal(t, []string{core.RegistryFile, "default/manifest.json", "default/v1.0.0/core.json"}, entries)

	require.NoError(t, run(t, "inspect", out, "**/core.json"))

	target := filepath.Join(t.TempDir(), "restored")
	require.NoError(t, run(t, "import", out, target))

	want, err := os.ReadFile(filepath.Join(dir, "default", "v1.0.0", "core.json"))
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(target, "default", "v1.0.0", "core.json"))
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestExportImport_JSON(t *testing.T) {
	dir := initRepo(t)
	out := filepath.Join(t.TempDir(), "schemas.json")

	require.NoError(t, run(t, "--root", dir, "export", "--json", out))

	var bundle map[string]json.RawMessage
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &bundle))
	assert.Contains(t, bundle, core.RegistryFile)

	target := filepath.Join(t.TempDir(), "restored")
	require.NoError(t, run(t, "import", out, target))
	_, err = os.Stat(filepath.Join(target, "default", "manifest.json"))
	assert.NoError(t, err)
}

func TestImport_RejectsCorruptArchive(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(bad, []byte("PK not a zip"), 0644))

	target := filepath.Join(t.TempDir(), "restored")
	assert.Error(t, run(t, "import", bad, target))
	_, err := os.Stat(filepath.Join(target, core.RegistryFile))
	assert.True(t, os.IsNotExist(err))
}

func TestVocabImport(t *testing.T) {
	dir := initRepo(t)
	vocab := filepath.Join(t.TempDir(), "types.json")
	require.NoError(t, os.WriteFile(vocab, []byte(`{
  "id": "https://vocabs.example.org/types/",
  "hasTopConcept": [
    {"id": "https://vocabs.example.org/types/course", "prefLabel": {"de": "Kurs", "en": "Course"}, "schema_file": "course.json"}
  ]
}`), 0644))

	require.NoError(t, run(t, "--root", dir, "vocab", "import", vocab, "core.json", "ccm:oeh_flex_lrt", "--type", "skos"))

	data, err := os.ReadFile(filepath.Join(dir, "default", "v1.0.0", "core.json"))
	require.NoError(t, err)
	var doc core.SchemaDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	f := doc.Field("ccm:oeh_flex_lrt")
	require.NotNil(t, f)
	require.Len(t, f.System.Vocabulary.Concepts, 1)
	assert.Equal(t, "course.json", f.System.Vocabulary.Concepts[0].SchemaFile)

	require.NoError(t, run(t, "--root", dir, "content-types"))
	require.NoError(t, run(t, "vocab", "parse", vocab, "--json"))
}

func TestListingCommands(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, run(t, "--root", dir, "contexts"))
	require.NoError(t, run(t, "--root", dir, "contexts", "--json"))
	require.NoError(t, run(t, "--root", dir, "versions", "default", "--changelog"))
	require.NoError(t, run(t, "--root", dir, "schemas", "--glob", "*.json"))
	require.NoError(t, run(t, "--root", dir, "show", "default", "1.0.0", "core.json"))

	assert.Error(t, run(t, "--root", dir, "versions", "ghost"))
	assert.Error(t, run(t, "--root", dir, "schemas", "--glob", "["))
	assert.Error(t, run(t, "--root", dir, "--adapter", "s3", "contexts"))
}
