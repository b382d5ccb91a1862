package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/metavault/pkg/adapters/memory"
	"github.com/aretw0/metavault/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadWriteList(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(map[string][]byte{
		"context-registry.json": []byte(`{}`),
	})

	require.NoError(t, s.Write(ctx, "/default/manifest.json", []byte(`{"a":1}`)))
	require.NoError(t, s.Write(ctx, "default/v1.0.0/core.json", []byte(`{}`)))

	data, err := s.Read(ctx, "default/manifest.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	_, err = s.Read(ctx, "missing.json")
	assert.True(t, errors.Is(err, core.ErrNotFound))

	paths, err := s.List(ctx, "**/*.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"context-registry.json", "default/manifest.json", "default/v1.0.0/core.json"}, paths)

	paths, err = s.List(ctx, "*/v*/*.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"default/v1.0.0/core.json"}, paths)

	s.Delete("default/manifest.json")
	_, err = s.Read(ctx, "default/manifest.json")
	assert.Error(t, err)
	assert.Equal(t, 3, s.Reads())
}

func TestStore_ReadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(map[string][]byte{"a.json": []byte("abc")})

	data, err := s.Read(ctx, "a.json")
	require.NoError(t, err)
	data[0] = 'x'

	again, err := s.Read(ctx, "a.json")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
