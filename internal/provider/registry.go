package provider

import (
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/genkit"

	"github.com/socialproof/socialproof/internal/config"
)

// NewGroqClient creates a Groq-backed client.
func NewGroqClient(apiKey, model string, logger *slog.Logger) *CompatClient {
	return NewCompatClient(config.ProviderGroq, GroqBaseURL, apiKey, model, nil, logger)
}

// NewOpenRouterClient creates an OpenRouter-backed client.
// The attribution headers identify this app in OpenRouter rankings.
func NewOpenRouterClient(apiKey, model string, logger *slog.Logger) *CompatClient {
	headers := map[string]string{
		"X-Title": "SocialProof",
	}
	return NewCompatClient(config.ProviderOpenRouter, OpenRouterBaseURL, apiKey, model, headers, logger)
}

// Resolve returns the chat client for the configured provider.
//
// The provider name must be one of the supported set and its API key must
// be present in the environment; otherwise Resolve fails with
// config.ErrUnsupportedProvider or config.ErrMissingCredential. The Genkit
// instance is only required for the Google provider and may be nil for
// the others.
func Resolve(g *genkit.Genkit, cfg *config.Config, logger *slog.Logger) (Client, error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}

	key := cfg.Credential()
	if key == "" {
		envVar := config.CredentialEnvVar(cfg.Provider)
		if envVar == "" {
			return nil, fmt.Errorf("%w: %q, must be one of: %v",
				config.ErrUnsupportedProvider, cfg.Provider, config.SupportedProviders())
		}
		return nil, fmt.Errorf("%w: %s is not set for provider %q",
			config.ErrMissingCredential, envVar, cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderGoogle:
		return NewGoogleClient(g, cfg.ModelName), nil
	case config.ProviderGroq:
		return NewGroqClient(key, cfg.ModelName, logger), nil
	case config.ProviderOpenRouter:
		return NewOpenRouterClient(key, cfg.ModelName, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q, must be one of: %v",
			config.ErrUnsupportedProvider, cfg.Provider, config.SupportedProviders())
	}
}
