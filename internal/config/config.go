// Package config loads the optional .metavault.yaml repository configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/metavault/pkg/vocabulary"
)

// Config represents the complete metavault configuration
type Config struct {
	Store      StoreConfig      `yaml:"store"`
	Export     ExportConfig     `yaml:"export"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Log        LogConfig        `yaml:"log"`
}

// StoreConfig selects and configures the document store
type StoreConfig struct {
	// Adapter is "fs", "http" or "memory" (default: fs)
	Adapter string `yaml:"adapter"`
	// Root is a directory for fs or a base URL for http (empty = discover upwards)
	Root string `yaml:"root"`
	// Versioning commits published trees to git (nil = follow .git presence)
	Versioning *bool `yaml:"versioning,omitempty"`
	// ReadOnly rejects every write
	ReadOnly bool `yaml:"read_only"`
	// Timeout bounds a single http fetch (default: 30s)
	Timeout time.Duration `yaml:"timeout"`
}

// ExportConfig configures archive exports
type ExportConfig struct {
	// Output is the default archive path of `metavault export`
	Output string `yaml:"output"`
}

// VocabularyConfig configures concept imports
type VocabularyConfig struct {
	// Format is the default parser: auto, skos or yaml
	Format string `yaml:"format"`
}

// LogConfig configures the CLI logger
type LogConfig struct {
	// Level is debug, info, warn or error (default: info)
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Adapter: "fs",
			Timeout: 30 * time.Second,
		},
		Export: ExportConfig{
			Output: "metadata-schemas.zip",
		},
		Vocabulary: VocabularyConfig{
			Format: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Adapter {
	case "fs", "http", "memory":
	default:
		return fmt.Errorf("store.adapter must be fs, http or memory, got %q", c.Store.Adapter)
	}
	if c.Store.Adapter == "http" && c.Store.Root == "" {
		return fmt.Errorf("store.root is required for the http adapter")
	}
	if c.Store.Timeout < 0 {
		return fmt.Errorf("store.timeout must not be negative")
	}
	if _, err := vocabulary.ForFormat(c.Vocabulary.Format); err != nil {
		return fmt.Errorf("vocabulary.format: %w", err)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
