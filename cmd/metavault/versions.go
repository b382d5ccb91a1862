package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/metavault/pkg/core"
)

var versionsChangelog bool

var versionsCmd = &cobra.Command{
	Use:   "versions <context>",
	Short: "List the versions of a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(context.Background())
		if err != nil {
			return err
		}

		m, ok := s.Manifest(args[0])
		if !ok {
			return fmt.Errorf("context %q: %w", args[0], core.ErrNotFound)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tRELEASED\tSCHEMAS\tCHANGES")
		for _, v := range s.Versions(args[0]) {
			e := m.Versions[v]
			label := v
			if e.IsDefault {
				label += " *"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", label, e.ReleaseDate, len(e.Schemas), len(e.Changelog))
			if versionsChangelog {
				for _, c := range e.Changelog {
					fmt.Fprintf(tw, "\t%s\t%s\t%s\n", c.Date, c.Type, c.Description)
				}
			}
		}
		return tw.Flush()
	},
}

func init() {
	versionsCmd.Flags().BoolVar(&versionsChangelog, "changelog", false, "Print changelog entries below each version")
	rootCmd.AddCommand(versionsCmd)
}
