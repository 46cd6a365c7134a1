// Package main provides the entry point for the assessments.lol API server and tooling.
package main

import (
	"fmt"
	"os"

	"github.com/assessmentslol/assessments/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "assessments",
	Short: "assessments.lol HTTP API Server",
	Long:  "assessments.lol collects crowd-sourced online assessment results (CodeSignal, HackerRank) and serves per-company statistics via REST API.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional config file (yaml, json or toml)")
}

// loadConfig reads the configuration selected by --config and the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
