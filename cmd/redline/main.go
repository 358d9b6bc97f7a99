package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"redline/config"
	"redline/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "redline",
	Short: "Writing-suggestion engine for live-edited text",
	Long:  `redline analyzes prose with a local dictionary pass and a remote semantic pass, producing inline editing suggestions.`,
}

func main() {
	rootCmd.Version = version

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the config and brings up the file logger. A broken
// log path does not block the CLI, logging stays on stderr.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
		return cfg, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
		return cfg, nil
	}
	logger.New(f, logger.ParseLevel(cfg.Log.Level))
	return cfg, nil
}
