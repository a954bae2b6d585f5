package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/socialproof/socialproof/internal/config"
)

// GoogleClient serves completions through Genkit's Google AI plugin.
// The Genkit instance must have been initialized with the GoogleAI plugin;
// the client only references models by name.
type GoogleClient struct {
	g     *genkit.Genkit
	model string
}

// NewGoogleClient creates a Google-backed client for the given model name,
// e.g. "gemini-2.5-flash".
func NewGoogleClient(g *genkit.Genkit, model string) *GoogleClient {
	return &GoogleClient{g: g, model: model}
}

// Name implements Client.
func (c *GoogleClient) Name() string { return config.ProviderGoogle }

// Generate implements Client.
func (c *GoogleClient) Generate(ctx context.Context, req Request) (string, error) {
	opts := []ai.GenerateOption{
		ai.WithModelName("googleai/" + c.model),
		ai.WithPrompt(req.Prompt),
		ai.WithConfig(&ai.GenerationCommonConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}),
	}
	if req.System != "" {
		opts = append(opts, ai.WithSystem(req.System))
	}

	resp, err := genkit.Generate(ctx, c.g, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: google: %v", ErrProvider, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: google returned no text", ErrEmptyCompletion)
	}
	return text, nil
}
