package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/socialproof/socialproof/db"
	"github.com/socialproof/socialproof/internal/config"
	"github.com/socialproof/socialproof/internal/corpus"
	"github.com/socialproof/socialproof/internal/engine"
	"github.com/socialproof/socialproof/internal/guardian"
	"github.com/socialproof/socialproof/internal/observability"
	"github.com/socialproof/socialproof/internal/provider"
	"github.com/socialproof/socialproof/internal/scenario"
	"github.com/socialproof/socialproof/internal/storage"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup; call Close() to release.
//
// Degradation rules:
//   - missing provider API key: AI generation inactive, fallback scenarios
//   - missing Google key: no embeddings, corpus stays empty, guardian disabled
//   - empty or missing knowledge directory: guardian disabled
//   - no DATABASE_URL or unreachable database: persistence disabled
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.otelCleanup = provideOtelShutdown(ctx, cfg, logger)

	g, embedder := provideGenkit(ctx, cfg, logger)
	a.Genkit = g

	index, err := provideCorpus(ctx, cfg, embedder, logger)
	if err != nil {
		return nil, err
	}

	client := provideClient(g, cfg, logger)

	pool, store := provideStorage(ctx, cfg, logger)
	a.DBPool = pool

	gen := scenario.NewGenerator(client, cfg.MaxTokens, logger.With("component", "scenario"))
	answerer := guardian.NewAnswerer(index, client, cfg.TopK, cfg.MaxTokens,
		logger.With("component", "guardian"))

	var saver engine.Saver
	if store != nil {
		saver = store
	}

	a.Engine = engine.New(engine.Options{
		Config:    cfg,
		Index:     index,
		Generator: gen,
		Answerer:  answerer,
		Saver:     saver,
		AIActive:  client != nil,
		Logger:    logger.With("component", "engine"),
	})

	return a, nil
}

// provideOtelShutdown sets up tracing before Genkit initialization, so the
// TracerProvider is ready when Genkit starts creating spans.
func provideOtelShutdown(ctx context.Context, cfg *config.Config, logger *slog.Logger) func() {
	shutdown, err := observability.Setup(ctx, observability.Config{
		AgentHost:   cfg.Datadog.AgentHost,
		Environment: cfg.Datadog.Environment,
		ServiceName: cfg.Datadog.ServiceName,
	}, logger)
	if err != nil {
		logger.Warn("tracing setup failed, continuing without tracing", "error", err)
		return func() {}
	}

	//nolint:contextcheck // shutdown runs during teardown when parent is canceled
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideGenkit initializes Genkit and resolves the embedder.
//
// The GoogleAI plugin needs GEMINI_API_KEY at init time, and embeddings
// always go through Google regardless of the chat provider. Without the
// key Genkit runs plugin-free and the embedder is nil.
func provideGenkit(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*genkit.Genkit, ai.Embedder) {
	googleCfg := config.Config{Provider: config.ProviderGoogle}
	if googleCfg.Credential() == "" {
		logger.Warn("embeddings unavailable, guardian will be disabled",
			"missing", config.EnvGoogleAPIKey)
		return genkit.Init(ctx), nil
	}

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		logger.Warn("embedder not found, guardian will be disabled",
			"embedder_model", cfg.EmbedderModel)
	}
	return g, embedder
}

// provideCorpus builds the knowledge index. A missing directory or a
// failed build leaves the index empty rather than aborting startup.
func provideCorpus(ctx context.Context, cfg *config.Config, embedder ai.Embedder, logger *slog.Logger) (*corpus.Index, error) {
	chunker, err := corpus.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("creating chunker: %w", err)
	}
	index := corpus.NewIndex(embedder, chunker, logger.With("component", "corpus"))

	if embedder == nil {
		return index, nil
	}

	docs, err := corpus.LoadDir(cfg.KnowledgeDir)
	if err != nil {
		logger.Warn("loading knowledge base failed, guardian disabled",
			"dir", cfg.KnowledgeDir,
			"error", err)
		return index, nil
	}
	if err := index.Build(ctx, docs); err != nil {
		logger.Warn("building corpus index failed, guardian disabled", "error", err)
	}
	return index, nil
}

// provideClient resolves the chat completion backend. A missing credential
// deactivates AI generation instead of failing startup.
func provideClient(g *genkit.Genkit, cfg *config.Config, logger *slog.Logger) provider.Client {
	client, err := provider.Resolve(g, cfg, logger.With("component", "provider"))
	if err != nil {
		logger.Warn("AI generation inactive, serving static fallback scenarios",
			"provider", cfg.Provider,
			"error", err)
		return nil
	}
	logger.Info("AI provider active",
		"provider", client.Name(),
		"model", cfg.ModelName)
	return client
}

// provideStorage runs migrations and opens the connection pool. An empty
// DATABASE_URL or an unreachable database disables persistence.
func provideStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, *storage.Store) {
	if cfg.DatabaseURL == "" {
		logger.Debug("no database configured, scenario persistence disabled")
		return nil, nil
	}

	if err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
		logger.Warn("migrations failed, scenario persistence disabled", "error", err)
		return nil, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Warn("invalid database URL, scenario persistence disabled", "error", err)
		return nil, nil
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Warn("creating connection pool failed, scenario persistence disabled", "error", err)
		return nil, nil
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.Warn("database unreachable, scenario persistence disabled", "error", err)
		return nil, nil
	}

	logger.Info("scenario persistence enabled")
	return pool, storage.New(pool, logger.With("component", "storage"))
}
