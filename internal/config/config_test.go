package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "fs", cfg.Store.Adapter)
	assert.Equal(t, 30*time.Second, cfg.Store.Timeout)
	assert.Nil(t, cfg.Store.Versioning)
	assert.Equal(t, "auto", cfg.Vocabulary.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "unknown adapter", mutate: func(c *Config) { c.Store.Adapter = "s3" }, wantErr: true},
		{name: "http without root", mutate: func(c *Config) { c.Store.Adapter = "http" }, wantErr: true},
		{name: "http with root", mutate: func(c *Config) {
			c.Store.Adapter = "http"
			c.Store.Root = "https://example.org/schemas"
		}},
		{name: "negative timeout", mutate: func(c *Config) { c.Store.Timeout = -time.Second }, wantErr: true},
		{name: "unknown vocabulary format", mutate: func(c *Config) { c.Vocabulary.Format = "csv" }, wantErr: true},
		{name: "yaml vocabulary format", mutate: func(c *Config) { c.Vocabulary.Format = "yaml" }},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".metavault.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  root: ./schemas
  versioning: true
  timeout: 5s
log:
  level: debug
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fs", cfg.Store.Adapter, "unset keys keep defaults")
	assert.Equal(t, "./schemas", cfg.Store.Root)
	require.NotNil(t, cfg.Store.Versioning)
	assert.True(t, *cfg.Store.Versioning)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)

	t.Run("Missing File", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("store: [unclosed"), 0644))
		_, err := LoadFromFile(bad)
		assert.Error(t, err)
	})
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".metavault.yaml")
	cfg := DefaultConfig()
	cfg.Store.Adapter = "http"
	cfg.Store.Root = "https://example.org/schemas"

	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
