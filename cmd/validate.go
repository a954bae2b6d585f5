package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/socialproof/socialproof/internal/app"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the AI configuration",
	Long: `Validate the AI configuration and report what is working.

Exits non-zero when the configuration has errors. Warnings describe
degraded features (disabled guardian, fallback scenarios, no
persistence) and do not affect the exit code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer a.Close()

	report := a.Engine.Validate()

	fmt.Printf("Provider:     %s\n", report.Provider)
	fmt.Printf("Corpus ready: %v\n", report.CorpusReady)

	for _, e := range report.Errors {
		fmt.Printf("ERROR:   %s\n", e)
	}
	for _, w := range report.Warnings {
		fmt.Printf("WARNING: %s\n", w)
	}

	if !report.Valid {
		return fmt.Errorf("configuration invalid: %d error(s)", len(report.Errors))
	}
	fmt.Println("Configuration valid.")
	return nil
}
