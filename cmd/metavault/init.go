package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/metavault/internal/platform"
	"github.com/aretw0/metavault/pkg/core"
)

var initVersioning bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a schema repository skeleton",
	Long: `Write a context registry, a "default" context at version 1.0.0 and its
core.json schema into dir (default: the current directory). With --git the
directory is initialized as a git repository and the skeleton committed.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		} else if wd, err := os.Getwd(); err == nil {
			dir = wd
		}

		ctx := context.Background()
		docs, err := platform.OpenDocuments(ctx, dir,
			platform.WithAutoInit(true),
			platform.WithVersioning(initVersioning),
			platform.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to prepare directory", err)
		}

		w, ok := docs.(core.WritableStore)
		if !ok {
			fatal("Failed to initialize repository", core.ErrReadOnly)
		}
		n, err := platform.Bootstrap(ctx, w, time.Now())
		if err != nil {
			fatal("Failed to initialize repository", err)
		}

		fmt.Printf("Initialized schema repository in %s (%d documents)\n", dir, n)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initVersioning, "git", false, "Initialize a git repository and commit the skeleton")
	rootCmd.AddCommand(initCmd)
}
