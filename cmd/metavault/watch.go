package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	lc "github.com/aretw0/metavault/pkg/adapters/lifecycle"
	"github.com/aretw0/metavault/pkg/core"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow changes to the repository directory",
	Long: `Print change events for repository documents and keep an in-memory view
of the repository in sync with them until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		w, ok := s.Documents().(core.Watchable)
		if !ok {
			return fmt.Errorf("the %s adapter cannot be watched", cfg.Store.Adapter)
		}
		raw, err := w.Watch(ctx, "")
		if err != nil {
			return err
		}

		source := lc.NewSource(raw, lc.WithPattern(watchPattern))
		if err := source.Start(ctx); err != nil {
			return err
		}

		follow := make(chan core.Event)
		done := make(chan error, 1)
		go func() { done <- s.Follow(ctx, follow) }()

		fmt.Fprintf(os.Stderr, "Watching %d contexts, press Ctrl+C to stop\n", len(s.ContextNames()))
		for e := range source.Events() {
			fmt.Println(e.String())
			if evt, ok := e.(core.Event); ok {
				select {
				case follow <- evt:
				case <-ctx.Done():
				}
			}
			if err := s.Err(); err != nil {
				slog.Warn("repository out of sync", "error", err)
				s.ClearError()
			}
		}
		close(follow)
		<-done
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchPattern, "glob", "**/*.json", "Only follow documents matching a doublestar pattern")
	rootCmd.AddCommand(watchCmd)
}
