package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/metavault/pkg/repository"
)

var contentTypesLang string

var contentTypesCmd = &cobra.Command{
	Use:   "content-types [context] [version]",
	Short: "List the content types declared in core.json",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		_, version, err := activeVersion(s, args)
		if err != nil {
			return err
		}
		s.SetActiveVersion(version)
		if err := s.SetActiveSchema(ctx, repository.CoreSchemaFile); err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LABEL\tICON\tSCHEMA")
		for _, ct := range s.ContentTypes() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", ct.Label.Get(contentTypesLang), ct.Icon, ct.SchemaFile)
		}
		return tw.Flush()
	},
}

func init() {
	contentTypesCmd.Flags().StringVar(&contentTypesLang, "lang", "de", "Label language")
	rootCmd.AddCommand(contentTypesCmd)
}
