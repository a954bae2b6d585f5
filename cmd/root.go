// Package cmd contains the SocialProof command-line interface.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/socialproof/socialproof/internal/config"
	"github.com/socialproof/socialproof/internal/log"
)

var (
	flagDebug   bool
	flagJSONLog bool
)

var rootCmd = &cobra.Command{
	Use:   "socialproof",
	Short: "SocialProof - AI-powered social engineering training",
	Long: `SocialProof generates personalized social engineering training
scenarios and answers security questions through the Digital Guardian,
a retrieval-grounded assistant backed by a local knowledge base.

Run 'socialproof serve' to start the HTTP API.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSONLog, "json-log", false, "log in JSON format")
}

// newLogger builds the process logger from the persistent flags.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagDebug {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level, JSON: flagJSONLog})
}

// loadConfig loads and returns the configuration without validating
// credentials; commands that need a working provider validate themselves.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
