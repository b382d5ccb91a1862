package main

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

var schemasGlob string

var schemasCmd = &cobra.Command{
	Use:   "schemas [context] [version]",
	Short: "List the schema documents of a context version",
	Long: `List the schema documents of a context version. Without arguments the
default context and its default version are used.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if schemasGlob != "" && !doublestar.ValidatePattern(schemasGlob) {
			return fmt.Errorf("invalid pattern %q", schemasGlob)
		}

		s, err := openStore(context.Background())
		if err != nil {
			return err
		}
		contextName, version, err := activeVersion(s, args)
		if err != nil {
			return err
		}

		for _, file := range s.Schemas(contextName, version) {
			if schemasGlob != "" {
				if ok, _ := doublestar.Match(schemasGlob, file); !ok {
					continue
				}
			}
			fmt.Println(file)
		}
		return nil
	},
}

func init() {
	schemasCmd.Flags().StringVar(&schemasGlob, "glob", "", "Only list files matching a doublestar pattern")
	rootCmd.AddCommand(schemasCmd)
}
