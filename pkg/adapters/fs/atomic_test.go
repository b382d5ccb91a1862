package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates New File", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "core.json")
		require.NoError(t, writeFileAtomic(filename, []byte(`{"profile_id":"core"}`), filePerm))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, `{"profile_id":"core"}`, string(got))
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "core.json")
		require.NoError(t, os.WriteFile(filename, []byte("initial"), filePerm))

		require.NoError(t, writeFileAtomic(filename, []byte("overwritten"), filePerm))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "overwritten", string(got))
	})

	t.Run("Creates Missing Directories", func(t *testing.T) {
		root := t.TempDir()
		filename := filepath.Join(root, "events", "v1.0.0", "core.json")
		require.NoError(t, writeFileAtomic(filename, []byte("{}"), filePerm))

		_, err := os.Stat(filename)
		assert.NoError(t, err)
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, writeFileAtomic(filepath.Join(root, "a.json"), []byte("{}"), filePerm))

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, isTempFile(e.Name()), "leftover %s", e.Name())
		}
	})

	t.Run("Fails When Parent Is A File", func(t *testing.T) {
		root := t.TempDir()
		blocker := filepath.Join(root, "default")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), filePerm))

		err := writeFileAtomic(filepath.Join(blocker, "manifest.json"), []byte("{}"), filePerm)
		assert.Error(t, err)
	})
}
