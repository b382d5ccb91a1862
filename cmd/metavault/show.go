package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/metavault/pkg/core"
)

var (
	showJSON bool
	showLang string
)

var showCmd = &cobra.Command{
	Use:   "show <context> <version> <file>",
	Short: "Print a schema document",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		if err := s.LoadSchema(ctx, args[0], args[1], args[2]); err != nil {
			return err
		}
		doc, _ := s.Schema(args[0], args[1], args[2])

		if showJSON {
			data, err := core.MarshalDocument(doc)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		}

		fmt.Printf("%s (profile %s, version %s)\n\n", args[2], doc.ProfileID, doc.Version)
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tGROUP\tLABEL\tTYPE\tVOCABULARY")
		for _, f := range doc.Fields {
			vocab := ""
			if v := f.System.Vocabulary; v != nil {
				vocab = fmt.Sprintf("%s (%d)", v.Type, len(v.Concepts))
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.ID, f.Group, f.Label.Get(showLang), f.System.Datatype, vocab)
		}
		return tw.Flush()
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the raw document")
	showCmd.Flags().StringVar(&showLang, "lang", "de", "Label language")
	rootCmd.AddCommand(showCmd)
}
