package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/metavault"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of metavault",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("metavault version %s\n", metavault.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
