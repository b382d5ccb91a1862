package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var contextsJSON bool

type contextRow struct {
	Name           string   `json:"name"`
	DisplayName    string   `json:"displayName"`
	Path           string   `json:"path"`
	DefaultVersion string   `json:"defaultVersion"`
	BasedOn        string   `json:"basedOn,omitempty"`
	Versions       []string `json:"versions"`
}

var contextsCmd = &cobra.Command{
	Use:   "contexts",
	Short: "List the contexts of the repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(context.Background())
		if err != nil {
			return err
		}

		reg := s.Registry()
		rows := make([]contextRow, 0, len(reg.Contexts))
		for _, name := range s.ContextNames() {
			e := reg.Contexts[name]
			rows = append(rows, contextRow{
				Name:           name,
				DisplayName:    e.Name,
				Path:           reg.Dir(name),
				DefaultVersion: e.DefaultVersion,
				BasedOn:        e.BasedOn,
				Versions:       s.Versions(name),
			})
		}

		if contextsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDISPLAY NAME\tPATH\tDEFAULT\tVERSIONS\tBASED ON")
		for _, r := range rows {
			marker := ""
			if r.Name == reg.DefaultContext {
				marker = " *"
			}
			fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%d\t%s\n", r.Name, marker, r.DisplayName, r.Path, r.DefaultVersion, len(r.Versions), r.BasedOn)
		}
		return tw.Flush()
	},
}

func init() {
	contextsCmd.Flags().BoolVar(&contextsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(contextsCmd)
}
