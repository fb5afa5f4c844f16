package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelcat/pkg/slug"
)

var slugCmd = &cobra.Command{
	Use:   "slug <name>...",
	Short: "Print the slug of each name",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range args {
			fmt.Fprintln(cmd.OutOrStdout(), slug.Make(name))
		}
	},
}

func init() {
	rootCmd.AddCommand(slugCmd)
}
