// Package scenario generates social engineering training scenarios
// adapted to the player's skill rating.
//
// Generation never fails from the caller's perspective: when the AI
// backend is unavailable or errors, a static pre-written scenario is
// returned instead, marked with provider "fallback" so the caller can
// tell the difference.
package scenario

import (
	"context"
	"log/slog"
	"strings"

	"github.com/socialproof/socialproof/internal/difficulty"
	"github.com/socialproof/socialproof/internal/provider"
)

// FallbackProvider is the provider name reported on static scenarios.
const FallbackProvider = "fallback"

// minContentLength is the minimum rune count of a usable generated
// scenario. Shorter completions are refusals or truncated output.
const minContentLength = 40

// Scenario type identifiers accepted by Generate. Unknown identifiers are
// still accepted and rendered from their lowercased form.
const (
	TypeEmailPhish        = "EMAIL_PHISH"
	TypeSMSScam           = "SMS_SCAM"
	TypeVoicePhish        = "VOICE_PHISH"
	TypeSocialEngineering = "SOCIAL_ENGINEERING"
	TypePretexting        = "PRETEXTING"
)

// typeDescriptions maps scenario type identifiers to the human-readable
// forms used in the generation prompt.
var typeDescriptions = map[string]string{
	TypeEmailPhish:        "phishing email",
	TypeSMSScam:           "smishing (SMS phishing) text message",
	TypeVoicePhish:        "vishing (voice phishing) phone call script",
	TypeSocialEngineering: "social engineering attempt",
	TypePretexting:        "pretexting scenario",
}

// Types returns the known scenario type identifiers in stable order.
func Types() []string {
	return []string{TypeEmailPhish, TypeSMSScam, TypeVoicePhish, TypeSocialEngineering, TypePretexting}
}

// unwantedPrefixes are preambles models prepend despite instructions.
// A completion starting with one of these has its first line removed.
var unwantedPrefixes = []string{
	"Here is",
	"Here's",
	"Subject:",
	"Message:",
	"The message",
	"This is",
}

// Result is one generated training scenario.
type Result struct {
	// Content is the scenario message body.
	Content string `json:"content"`

	// ScenarioType echoes the requested type identifier.
	ScenarioType string `json:"scenario_type"`

	// DifficultyLabel is the tier name the scenario was generated for.
	DifficultyLabel string `json:"difficulty_label"`

	// DifficultyLevel is the tier's numeric difficulty score.
	DifficultyLevel float64 `json:"difficulty_level"`

	// Provider is the backend that produced the content, or
	// FallbackProvider for static scenarios.
	Provider string `json:"provider"`
}

// CompletionClient is the completion backend the generator consumes.
// provider.Client satisfies it.
type CompletionClient interface {
	Name() string
	Generate(ctx context.Context, req provider.Request) (string, error)
}

// Generator produces training scenarios.
type Generator struct {
	client    CompletionClient
	maxTokens int
	logger    *slog.Logger
}

// NewGenerator creates a generator. A nil client means AI generation is
// disabled and every call returns a static fallback scenario.
func NewGenerator(client CompletionClient, maxTokens int, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		client:    client,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Generate produces a scenario of the given type for the given skill
// rating. It never returns an error: a too-short completion is retried
// once and the retry is accepted whatever its length, and only provider
// errors degrade to a static scenario.
func (g *Generator) Generate(ctx context.Context, skill float64, scenarioType string) Result {
	tier := difficulty.Classify(skill)

	if g.client == nil {
		return g.fallback(scenarioType, tier)
	}

	req := provider.Request{
		Prompt:      buildPrompt(scenarioType, tier),
		Temperature: tier.Temperature,
		MaxTokens:   g.maxTokens,
	}

	// One retry covers the occasional refusal or truncated completion.
	// The retry result is kept as-is; the fallback is reserved for two
	// failed provider calls.
	var content string
	completed := false
	for attempt := 0; attempt < 2; attempt++ {
		raw, err := g.client.Generate(ctx, req)
		if err != nil {
			g.logger.Warn("scenario generation failed",
				"provider", g.client.Name(),
				"scenario_type", scenarioType,
				"attempt", attempt,
				"error", err)
			continue
		}

		completed = true
		content = cleanContent(raw)
		if len([]rune(content)) >= minContentLength {
			break
		}
		g.logger.Warn("scenario content below minimum length",
			"provider", g.client.Name(),
			"scenario_type", scenarioType,
			"attempt", attempt,
			"length", len([]rune(content)))
	}

	if !completed {
		g.logger.Warn("falling back to static scenario",
			"scenario_type", scenarioType,
			"difficulty", tier.Label)
		return g.fallback(scenarioType, tier)
	}

	return Result{
		Content:         content,
		ScenarioType:    scenarioType,
		DifficultyLabel: tier.Label,
		DifficultyLevel: tier.Score,
		Provider:        g.client.Name(),
	}
}

// readableType renders a scenario type identifier for the prompt.
// Known identifiers use their curated description; anything else is
// lowercased with underscores turned into spaces.
func readableType(scenarioType string) string {
	if desc, ok := typeDescriptions[strings.ToUpper(scenarioType)]; ok {
		return desc
	}
	return strings.ReplaceAll(strings.ToLower(scenarioType), "_", " ")
}

// buildPrompt assembles the deterministic generation prompt for a
// scenario type and difficulty tier.
func buildPrompt(scenarioType string, tier difficulty.Tier) string {
	readable := readableType(scenarioType)

	var b strings.Builder
	b.WriteString("You are a cybersecurity training simulation engine creating realistic attack scenarios.\n\n")
	b.WriteString("Task: Generate a " + readable + " for cybersecurity training purposes.\n\n")
	b.WriteString("Difficulty Level: " + tier.Label + "\n")
	b.WriteString("Requirements: The message should " + tier.Hint + ".\n\n")
	b.WriteString("CRITICAL INSTRUCTIONS:\n")
	b.WriteString("- Generate ONLY the message content itself (email body, SMS text, etc.)\n")
	b.WriteString("- Do NOT include any explanatory text, preamble, or meta-commentary\n")
	b.WriteString("- Do NOT include subject lines or headers (unless specifically for email format)\n")
	b.WriteString("- Make it realistic enough for training but clearly a simulation\n")
	b.WriteString("- The content should test the user's ability to identify social engineering tactics\n\n")
	b.WriteString("Generate the " + readable + " now:")
	return b.String()
}

// cleanContent trims a completion and removes a leading model preamble.
func cleanContent(raw string) string {
	content := strings.TrimSpace(raw)
	for _, prefix := range unwantedPrefixes {
		if strings.HasPrefix(content, prefix) {
			if i := strings.Index(content, "\n"); i > 0 {
				content = strings.TrimSpace(content[i:])
			}
			break
		}
	}
	return content
}
