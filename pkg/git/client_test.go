package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Lock(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)

	unlock, err := client.Lock(ctx)
	require.NoError(t, err)

	lockPath := filepath.Join(tmpDir, DefaultLockName)
	_, err = os.Stat(lockPath)
	require.NoError(t, err, "lock file not created")

	t.Run("Contention Respects Context", func(t *testing.T) {
		waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, err := client.Lock(waitCtx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	unlock()

	_, err = os.Stat(lockPath)
	assert.True(t, os.IsNotExist(err), "lock file not removed after unlock")
}

func TestClient_CustomLockName(t *testing.T) {
	client := NewClient(t.TempDir(), ".custom.lock", nil)
	assert.Equal(t, ".custom.lock", client.LockPath())
}

func TestClient_InitAddCommit(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)

	assert.False(t, client.IsRepo(ctx))
	require.NoError(t, client.Init(ctx))
	assert.True(t, client.IsRepo(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "context-registry.json"), []byte("{}\n"), 0644))
	require.NoError(t, client.Add(ctx, "context-registry.json"))

	changed, err := client.HasChanges(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, client.Commit(ctx, "chore: bootstrap"))

	changed, err = client.HasChanges(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	subjects, err := client.Log(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"chore: bootstrap"}, subjects)

	status, err := client.Status(ctx)
	require.NoError(t, err)
	assert.Empty(t, status)
}
