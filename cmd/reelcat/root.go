package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "reelcat",
	Short: "Media library identification and cataloging",
	Long: `reelcat - media library identification and cataloging

Scans and watches library roots, identifies shows, seasons, episodes and
subtitle tracks from their paths, enriches them from metadata providers
and records everything in a SQLite catalog.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("reelcat {{.Version}}\n")
}
