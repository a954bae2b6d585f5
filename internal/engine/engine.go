// Package engine is the facade over the AI subsystem: scenario generation,
// the Digital Guardian, configuration validation, and corpus lifecycle.
//
// The engine embodies graceful degradation. A missing API key or an empty
// knowledge base never prevents startup; affected features fall back
// (static scenarios, guardian unavailable) and the validation report says
// exactly what is degraded and why.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/socialproof/socialproof/internal/config"
	"github.com/socialproof/socialproof/internal/corpus"
	"github.com/socialproof/socialproof/internal/guardian"
	"github.com/socialproof/socialproof/internal/scenario"
)

// Generator produces training scenarios. *scenario.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, skill float64, scenarioType string) scenario.Result
}

// Answerer answers guardian questions. *guardian.Answerer satisfies it.
type Answerer interface {
	Ask(ctx context.Context, question string) (guardian.Answer, error)
}

// Saver persists generated scenarios. *storage.Store satisfies it.
type Saver interface {
	SaveScenario(ctx context.Context, playerID string, res scenario.Result) (string, error)
}

// Status describes the AI subsystem's current operating state.
type Status struct {
	// Provider is the configured provider name.
	Provider string `json:"provider"`

	// Active reports whether AI-backed generation is available. False
	// means every scenario comes from the static fallback set.
	Active bool `json:"active"`

	// CorpusReady reports whether the guardian has an indexed corpus.
	CorpusReady bool `json:"corpus_ready"`

	// CorpusChunks is the number of indexed chunks.
	CorpusChunks int `json:"corpus_chunks"`
}

// Report is the result of a configuration validation pass.
// Errors make the configuration invalid; warnings describe degradations
// the engine works around.
type Report struct {
	Valid       bool     `json:"valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Provider    string   `json:"provider"`
	CorpusReady bool     `json:"corpus_ready"`
}

// Engine wires the AI subsystem together behind one facade.
type Engine struct {
	cfg       *config.Config
	index     *corpus.Index
	generator Generator
	answerer  Answerer
	saver     Saver
	aiActive  bool
	logger    *slog.Logger
}

// Options configures New.
type Options struct {
	Config    *config.Config
	Index     *corpus.Index
	Generator Generator
	Answerer  Answerer

	// Saver may be nil; scenarios are then not persisted.
	Saver Saver

	// AIActive reports whether a completion backend was resolved.
	AIActive bool

	Logger *slog.Logger
}

// New creates an engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:       opts.Config,
		index:     opts.Index,
		generator: opts.Generator,
		answerer:  opts.Answerer,
		saver:     opts.Saver,
		aiActive:  opts.AIActive,
		logger:    logger,
	}
}

// GenerateScenario produces a training scenario for a player and persists
// it when a store is configured. Generation always succeeds; a persistence
// failure is logged and reported through the returned record ID being
// empty, never by failing the scenario itself.
func (e *Engine) GenerateScenario(ctx context.Context, playerID string, skill float64, scenarioType string) (scenario.Result, string) {
	res := e.generator.Generate(ctx, skill, scenarioType)

	var recordID string
	if e.saver != nil && playerID != "" {
		id, err := e.saver.SaveScenario(ctx, playerID, res)
		if err != nil {
			e.logger.Warn("scenario persistence failed",
				"player_id", playerID,
				"error", err)
		} else {
			recordID = id
		}
	}
	return res, recordID
}

// AskGuardian answers a cybersecurity question through the Digital Guardian.
func (e *Engine) AskGuardian(ctx context.Context, question string) (guardian.Answer, error) {
	answer, err := e.answerer.Ask(ctx, question)
	if err != nil {
		return guardian.Answer{}, fmt.Errorf("asking guardian: %w", err)
	}
	return answer, nil
}

// ProviderStatus reports the current operating state.
func (e *Engine) ProviderStatus() Status {
	chunks := e.index.Len()
	return Status{
		Provider:     e.cfg.Provider,
		Active:       e.aiActive,
		CorpusReady:  chunks > 0,
		CorpusChunks: chunks,
	}
}

// Validate checks the configuration and runtime state and returns a
// deterministic report. Calling it repeatedly with unchanged state yields
// the same report; it performs no network calls.
func (e *Engine) Validate() Report {
	report := Report{
		Errors:   []string{},
		Warnings: []string{},
		Provider: e.cfg.Provider,
	}

	if err := e.cfg.Validate(); err != nil {
		report.Errors = append(report.Errors, err.Error())
	}

	if envVar := config.CredentialEnvVar(e.cfg.Provider); envVar != "" && e.cfg.Credential() == "" {
		report.Errors = append(report.Errors,
			fmt.Sprintf("%s is not set for provider %q", envVar, e.cfg.Provider))
	}

	// Embeddings always need the Google key, whatever the chat provider.
	if e.cfg.Provider != config.ProviderGoogle && e.cfg.Credential() != "" {
		if gk := config.CredentialEnvVar(config.ProviderGoogle); gk != "" {
			if e.googleKeyMissing() {
				report.Warnings = append(report.Warnings,
					"embeddings unavailable: "+gk+" is not set")
			}
		}
	}

	chunks := e.index.Len()
	report.CorpusReady = chunks > 0
	if chunks == 0 {
		report.Warnings = append(report.Warnings, "knowledge corpus is empty, guardian disabled")
	}
	if !e.aiActive {
		report.Warnings = append(report.Warnings, "AI generation inactive, serving static fallback scenarios")
	}
	if e.saver == nil {
		report.Warnings = append(report.Warnings, "scenario persistence disabled, no database configured")
	}

	report.Valid = len(report.Errors) == 0
	return report
}

// googleKeyMissing reports whether the Google API key is absent.
func (e *Engine) googleKeyMissing() bool {
	googleCfg := config.Config{Provider: config.ProviderGoogle}
	return googleCfg.Credential() == ""
}

// ReloadCorpus reloads the knowledge directory and rebuilds the index.
// On failure the previous index stays in service.
func (e *Engine) ReloadCorpus(ctx context.Context) error {
	docs, err := corpus.LoadDir(e.cfg.KnowledgeDir)
	if err != nil {
		return fmt.Errorf("reloading corpus: %w", err)
	}
	if err := e.index.Build(ctx, docs); err != nil {
		return fmt.Errorf("rebuilding corpus index: %w", err)
	}
	e.logger.Info("corpus reloaded",
		"dir", e.cfg.KnowledgeDir,
		"documents", len(docs),
		"chunks", e.index.Len())
	return nil
}
