package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/socialproof/socialproof/api"
	"github.com/socialproof/socialproof/internal/app"
)

var flagListenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the SocialProof HTTP API.

The server starts even when parts of the system are degraded: without a
provider API key it serves static fallback scenarios, without a Google
key the Digital Guardian is disabled, and without DATABASE_URL scenario
persistence is off. Check GET /api/ai/validate for the current state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagListenAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	report := a.Engine.Validate()
	for _, w := range report.Warnings {
		logger.Warn("degraded startup", "reason", w)
	}

	addr := cfg.ListenAddr
	if flagListenAddr != "" {
		addr = flagListenAddr
	}

	srv := api.NewServer(a.Engine, a.DBPool, logger.With("component", "api"))
	return srv.Run(ctx, addr)
}
