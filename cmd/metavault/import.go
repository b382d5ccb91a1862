package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/metavault/internal/platform"
	"github.com/aretw0/metavault/pkg/core"
)

var (
	importCommit  bool
	importMessage string
)

var importCmd = &cobra.Command{
	Use:   "import <archive> <dir>",
	Short: "Unpack a ZIP archive or JSON bundle into a directory",
	Long: `Decode an archive produced by "export" and write its documents into dir
using the repository layout. The archive is validated completely before
anything is written. With --commit the written documents are committed to
git, using the latest changelog entry of the default context as message
unless -m is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		s, err := platform.New("", platform.WithAdapter(platform.AdapterMemory), platform.WithLogger(slog.Default()))
		if err != nil {
			return err
		}
		if strings.EqualFold(filepath.Ext(args[0]), ".json") {
			err = s.ImportData(data)
		} else {
			err = s.ImportFromZip(data)
		}
		if err != nil {
			return err
		}

		opts := []platform.Option{platform.WithAutoInit(true), platform.WithLogger(slog.Default())}
		if importCommit {
			opts = append(opts, platform.WithVersioning(true))
		}
		docs, err := platform.OpenDocuments(ctx, args[1], opts...)
		if err != nil {
			return err
		}
		dst, ok := docs.(core.WritableStore)
		if !ok {
			return core.ErrReadOnly
		}

		message := ""
		if importCommit {
			message = importMessage
			if message == "" {
				message = defaultReason(s.Registry(), s.Manifest)
			} else {
				message = platform.AppendFooter(message)
			}
		}

		n, err := s.Publish(ctx, dst, message)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d documents into %s\n", n, args[1])
		return nil
	},
}

// defaultReason builds a commit message from the changelog of the default
// context's default version.
func defaultReason(reg *core.ContextRegistry, manifest func(string) (*core.ContextManifest, bool)) string {
	name := reg.DefaultContext
	m, ok := manifest(name)
	if !ok {
		return platform.ChangelogReason(name, "", nil)
	}
	version := m.DefaultVersion()
	return platform.ChangelogReason(name, version, m.Versions[version].Changelog)
}

func init() {
	importCmd.Flags().BoolVar(&importCommit, "commit", false, "Commit the imported documents to git")
	importCmd.Flags().StringVarP(&importMessage, "message", "m", "", "Commit message")
	rootCmd.AddCommand(importCmd)
}
