// Package app provides application initialization and dependency wiring.
//
// Setup builds the full AI subsystem from configuration: tracing, Genkit,
// the knowledge corpus, the provider client, optional persistence, and the
// engine facade on top. Everything optional degrades instead of failing;
// only genuinely broken configuration aborts startup.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/socialproof/socialproof/internal/config"
	"github.com/socialproof/socialproof/internal/engine"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Genkit *genkit.Genkit
	Engine *engine.Engine

	// DBPool is nil when persistence is disabled.
	DBPool *pgxpool.Pool

	otelCleanup func()
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	a.Logger.Info("shutting down application")

	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Debug("database pool closed")
	}
	if a.otelCleanup != nil {
		a.otelCleanup()
	}
	return nil
}
