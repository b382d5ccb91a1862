package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/metavault/internal/config"
	"github.com/aretw0/metavault/internal/platform"
	"github.com/aretw0/metavault/pkg/core"
	"github.com/aretw0/metavault/pkg/repository"
)

var (
	verbose    bool
	rootDir    string
	adapter    string
	configPath string

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "metavault",
	Short: "A versioned repository of JSON metadata schemas",
	Long: `Metavault manages metadata schemas organized as contexts and versions.
It reads them from a directory or a web server, edits them and moves them
in and out of ZIP and JSON archives.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded

		level := slog.LevelInfo
		if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			level = slog.LevelInfo
		}
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Repository directory or base URL (default: discovered upwards)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Document store adapter: fs or http")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a "+platform.ConfigFileName+" file")
}

// loadConfig reads --config, else the config file at the discovered root,
// else the defaults. Flags override file values.
func loadConfig() (*config.Config, error) {
	c := config.DefaultConfig()

	path := configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			if root, err := platform.FindRoot(wd); err == nil {
				candidate := filepath.Join(root, platform.ConfigFileName)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	if adapter != "" {
		c.Store.Adapter = adapter
	}
	if rootDir != "" {
		c.Store.Root = rootDir
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// resolveRoot returns the configured root, or for the fs adapter the closest
// directory above the working directory holding a registry.
func resolveRoot() (string, error) {
	if cfg.Store.Root != "" || cfg.Store.Adapter != platform.AdapterFS {
		return cfg.Store.Root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	root, err := platform.FindRoot(wd)
	if err != nil {
		return wd, nil
	}
	return root, nil
}

func platformOptions(extra ...platform.Option) []platform.Option {
	opts := []platform.Option{
		platform.WithAdapter(cfg.Store.Adapter),
		platform.WithLogger(slog.Default()),
		platform.WithReadOnly(cfg.Store.ReadOnly),
		platform.WithHTTPClient(&http.Client{Timeout: cfg.Store.Timeout}),
	}
	if cfg.Store.Versioning != nil {
		opts = append(opts, platform.WithVersioning(*cfg.Store.Versioning))
	}
	return append(opts, extra...)
}

// openStore opens the configured repository and loads its registry.
func openStore(ctx context.Context) (*repository.Store, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}
	s, err := platform.Open(ctx, root, platformOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %q: %w", root, err)
	}
	return s, nil
}

// activeVersion resolves the optional [context] [version] arguments against
// the store's cursor.
func activeVersion(s *repository.Store, args []string) (string, string, error) {
	cur := s.Cursor()
	contextName, version := cur.Context, cur.Version
	if len(args) > 0 {
		contextName = args[0]
		s.SetActiveContext(contextName)
		version = s.Cursor().Version
	}
	if len(args) > 1 {
		version = args[1]
	}
	if _, ok := s.Manifest(contextName); !ok {
		return "", "", fmt.Errorf("context %q: %w", contextName, core.ErrNotFound)
	}
	if version == "" {
		return "", "", fmt.Errorf("context %q has no versions", contextName)
	}
	return contextName, version, nil
}
