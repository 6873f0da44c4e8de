// Package main provides the entry point for the memo analyzer CLI and HTTP API server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/memo-analyzer/internal/config"
	"github.com/jonathan/memo-analyzer/internal/logging"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "analysis_agent",
	Short: "Smart-analysis tracker and result normalizer",
	Long: `analysis_agent requests smart analyses of documents and legal memos from the analysis
service, tracks each run as a list of steps, and renders the normalized result.

Configuration is read from an optional JSON file (--config), then environment variables
(ANALYSIS_SERVICE_URL, ANALYSIS_API_KEY, DATABASE_URL, LOG_LEVEL, LOG_FORMAT), then defaults.
Command-line flags override all of them.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig builds the effective configuration for cmd. Only flags the user
// actually set override file and environment values.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger; logs go to w so stdout stays clean for output
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: w,
	})
}

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}
