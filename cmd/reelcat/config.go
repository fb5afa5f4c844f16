package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelcat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, required fields, patterns and environment variable substitution without touching the catalog.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd, configInitCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(w, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, err := newIdentifier(cfg); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	printConfigSummary(w, cfg)
	fmt.Fprintln(w, "\nConfiguration valid!")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Log level:  %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  Database:   %s\n", cfg.Database.Path)
	fmt.Fprintf(w, "  Workers:    %d (settle delay %s)\n", cfg.Scanner.Workers, cfg.Scanner.SettleDelay)

	fmt.Fprintln(w, "  Libraries:")
	for _, l := range cfg.Libraries {
		providers := "all"
		if len(l.Providers) > 0 {
			providers = strings.Join(l.Providers, ", ")
		}
		fmt.Fprintf(w, "    - %s: %s (providers: %s)\n", l.Name, l.Path, providers)
	}

	if len(cfg.Providers) > 0 {
		slugs := make([]string, len(cfg.Providers))
		for i, p := range cfg.Providers {
			slugs[i] = fmt.Sprintf("%s(%d)", p.Slug, p.Priority)
			if !p.IsEnabled() {
				slugs[i] += " disabled"
			}
		}
		fmt.Fprintf(w, "  Providers:  %s\n", strings.Join(slugs, ", "))
	}

	cache := "disabled"
	if cfg.Metadata.Cache.Enabled {
		cache = fmt.Sprintf("show %s, season %s, search %s",
			cfg.Metadata.Cache.ShowTTL, cfg.Metadata.Cache.SeasonTTL, cfg.Metadata.Cache.SearchTTL)
	}
	fmt.Fprintf(w, "  Cache:      %s\n", cache)

	for _, warn := range cfg.Warnings() {
		fmt.Fprintf(w, "  Warning:    %s\n", warn)
	}
}
