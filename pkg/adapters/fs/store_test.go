package fs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/metavault/pkg/adapters/fs"
	"github.com/aretw0/metavault/pkg/core"
	"github.com/aretw0/metavault/pkg/git"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T, cfg fs.Config) *fs.Store {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = t.TempDir()
	}
	cfg.Logger = quietLogger()
	s := fs.NewStore(cfg)
	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, fs.Config{})

	require.NoError(t, s.Write(ctx, "events/v1.0.0/core.json", []byte(`{"profile_id":"core"}`)))

	data, err := s.Read(ctx, "events/v1.0.0/core.json")
	require.NoError(t, err)
	assert.Equal(t, `{"profile_id":"core"}`, string(data))

	_, err = os.Stat(filepath.Join(s.Path, "events", "v1.0.0", "core.json"))
	assert.NoError(t, err)

	t.Run("Missing Is Not Found", func(t *testing.T) {
		_, err := s.Read(ctx, "default/manifest.json")
		assert.True(t, errors.Is(err, core.ErrNotFound))
	})

	t.Run("Rejects Escaping Paths", func(t *testing.T) {
		_, err := s.Read(ctx, "../outside.json")
		assert.True(t, errors.Is(err, core.ErrInvalidName))
		err = s.Write(ctx, "default/../../outside.json", []byte("{}"))
		assert.True(t, errors.Is(err, core.ErrInvalidName))
	})
}

func TestStore_MustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	s := fs.NewStore(fs.Config{Path: missing, MustExist: true, Logger: quietLogger()})
	assert.Error(t, s.Initialize(context.Background()))

	s = fs.NewStore(fs.Config{Path: missing, Logger: quietLogger()})
	require.NoError(t, s.Initialize(context.Background()))
	_, err := os.Stat(missing)
	assert.NoError(t, err)
}

func TestStore_ReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, core.RegistryFile), []byte("{}"), 0644))

	s := newStore(t, fs.Config{Path: dir, ReadOnly: true})

	_, err := s.Read(ctx, core.RegistryFile)
	require.NoError(t, err)

	err = s.Write(ctx, core.RegistryFile, []byte(`{"contexts":{}}`))
	assert.True(t, errors.Is(err, core.ErrReadOnly))
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, fs.Config{})
	for _, p := range []string{
		core.RegistryFile,
		"default/manifest.json",
		"default/v1.0.0/core.json",
		"default/v1.8.0/core.json",
		"default/v1.8.0/event.json",
	} {
		require.NoError(t, s.Write(ctx, p, []byte("{}")))
	}
	require.NoError(t, os.WriteFile(filepath.Join(s.Path, "default", fs.TempFilePrefix+"123"), []byte("x"), 0644))

	all, err := s.List(ctx, "**/*.json")
	require.NoError(t, err)
	assert.Equal(t, []string{
		core.RegistryFile,
		"default/manifest.json",
		"default/v1.0.0/core.json",
		"default/v1.8.0/core.json",
		"default/v1.8.0/event.json",
	}, all)

	schemas, err := s.List(ctx, "default/v1.8.0/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"default/v1.8.0/core.json", "default/v1.8.0/event.json"}, schemas)

	_, err = s.List(ctx, "[")
	assert.Error(t, err)
}

func TestStore_Commit(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	ctx := context.Background()

	t.Run("Requires Repository Without AutoInit", func(t *testing.T) {
		s := fs.NewStore(fs.Config{Path: t.TempDir(), Versioning: true, Logger: quietLogger()})
		assert.Error(t, s.Initialize(ctx))
	})

	s := newStore(t, fs.Config{Versioning: true, AutoInit: true})
	ignore, err := os.ReadFile(filepath.Join(s.Path, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(ignore), git.DefaultLockName)

	require.NoError(t, s.Write(ctx, core.RegistryFile, []byte("{}\n")))
	require.NoError(t, s.Write(ctx, "default/manifest.json", []byte("{}\n")))
	assert.Equal(t, 2, s.State().(fs.StoreState).Pending)

	require.NoError(t, s.Commit(ctx, "feat(default): bootstrap"))
	assert.Equal(t, 0, s.State().(fs.StoreState).Pending)

	client := git.NewClient(s.Path, "", nil)
	subjects, err := client.Log(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"feat(default): bootstrap"}, subjects)

	t.Run("Unchanged Content Is Not Committed", func(t *testing.T) {
		require.NoError(t, s.Write(ctx, core.RegistryFile, []byte("{}\n")))
		require.NoError(t, s.Commit(ctx, "noop"))
		subjects, err := client.Log(ctx, 5)
		require.NoError(t, err)
		assert.Len(t, subjects, 1)
	})
}

func TestStore_CommitWithoutVersioning(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, fs.Config{})
	require.NoError(t, s.Write(ctx, core.RegistryFile, []byte("{}")))
	assert.NoError(t, s.Commit(ctx, "ignored"))
	_, err := os.Stat(filepath.Join(s.Path, ".git"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_Watch(t *testing.T) {
	s := newStore(t, fs.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.Watch(ctx, "**/*.json")
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "events/v1.0.0/core.json", []byte("{}")))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path, "notes.txt"), []byte("x"), 0644))

	select {
	case e := <-events:
		assert.Equal(t, "events/v1.0.0/core.json", e.Path)
		assert.Contains(t, []core.EventType{core.EventCreate, core.EventModify}, e.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("no event received")
	}

	assert.Eventually(t, func() bool {
		return s.State().(fs.StoreState).LastEvent != nil
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-events:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, 6*time.Second, 20*time.Millisecond, "channel closes after cancel")
	assert.Equal(t, 0, s.State().(fs.StoreState).Watchers)
	assert.Equal(t, "fs-store", s.ComponentType())
}

func TestStore_WatchInvalidPattern(t *testing.T) {
	s := newStore(t, fs.Config{})
	_, err := s.Watch(context.Background(), "[")
	assert.Error(t, err)
}
