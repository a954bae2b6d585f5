package config

import (
	"fmt"
	"slices"
)

// supportedProviders is the closed set of provider names this build accepts.
var supportedProviders = []string{ProviderGoogle, ProviderGroq, ProviderOpenRouter}

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
//
// Validate checks structural validity only. Credential presence is checked
// separately by the engine's validation report so that a missing API key
// degrades AI features instead of aborting startup.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// 1. Provider must be one of the enumerated set
	if !slices.Contains(supportedProviders, c.Provider) {
		return fmt.Errorf("%w: %q is not valid, must be one of: %v",
			ErrUnsupportedProvider, c.Provider, supportedProviders)
	}

	// 2. Model configuration
	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	// Temperature range: 0.0 (deterministic) to 2.0 (maximum creativity)
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	if c.MaxTokens < 1 || c.MaxTokens > 1048576 {
		return fmt.Errorf("%w: must be between 1 and 1,048,576, got %d", ErrInvalidMaxTokens, c.MaxTokens)
	}

	// 3. Corpus configuration
	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder_model cannot be empty", ErrInvalidEmbedderModel)
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", ErrInvalidChunking, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap must be in [0, chunk_size), got %d with chunk_size %d",
			ErrInvalidChunking, c.ChunkOverlap, c.ChunkSize)
	}

	if c.TopK <= 0 || c.TopK > 10 {
		return fmt.Errorf("%w: must be between 1 and 10, got %d", ErrInvalidTopK, c.TopK)
	}

	return nil
}

// SupportedProviders returns the provider names this build accepts.
func SupportedProviders() []string {
	return slices.Clone(supportedProviders)
}
