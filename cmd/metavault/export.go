package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportJSON    bool
	exportContext string
)

var exportCmd = &cobra.Command{
	Use:   "export [out]",
	Short: "Export the repository as a ZIP archive or JSON bundle",
	Long: `Export every context, version and schema document. The default output is
a ZIP archive with the repository layout; --json writes a single JSON
document and --context a single context. Use "-" to write to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openStore(ctx)
		if err != nil {
			return err
		}

		var data []byte
		switch {
		case exportContext != "":
			if err := s.LoadAllSchemas(ctx); err != nil {
				return err
			}
			data, err = s.ExportContext(exportContext)
		case exportJSON:
			if err := s.LoadAllSchemas(ctx); err != nil {
				return err
			}
			data, err = s.ExportAll()
		default:
			data, err = s.ExportAsZip(ctx)
		}
		if err != nil {
			return err
		}

		out := cfg.Export.Output
		if len(args) == 1 {
			out = args[0]
		} else if exportJSON || exportContext != "" {
			out = "-"
		}
		if out == "-" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		slog.Info("export written", "path", out, "bytes", len(data))
		return nil
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportJSON, "json", false, "Write a single JSON document")
	exportCmd.Flags().StringVar(&exportContext, "context", "", "Export only this context as JSON")
	rootCmd.AddCommand(exportCmd)
}
