// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.socialproof/config.yaml or ./config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - AI: provider selection, model, temperature, max tokens
//   - Corpus: knowledge base directory, chunking and retrieval parameters
//   - Storage: PostgreSQL connection for scenario persistence
//   - Observability: OTLP trace export to a local Datadog agent
//
// Credentials are never read from the config file. The active provider's
// API key comes from the environment (GEMINI_API_KEY, GROQ_API_KEY or
// OPENROUTER_API_KEY), and the database URL from DATABASE_URL.
//
// Error Handling:
//   - Sentinel errors for Go-idiomatic checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrUnsupportedProvider indicates the AI provider name is not recognized.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrMissingCredential indicates the active provider's API key is not set.
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidModelName indicates the model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidChunking indicates the chunk size/overlap pair is unusable.
	ErrInvalidChunking = errors.New("invalid chunking parameters")

	// ErrInvalidTopK indicates the retrieval top-k value is out of range.
	ErrInvalidTopK = errors.New("invalid top-k")

	// ErrInvalidEmbedderModel indicates the embedder model is empty.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")
)

// AI provider identifiers used in Config.Provider.
// These match the providers the original training platform supports.
const (
	ProviderGoogle     = "google"
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"
)

// Environment variable names holding each provider's credential.
const (
	EnvGoogleAPIKey     = "GEMINI_API_KEY"
	EnvGroqAPIKey       = "GROQ_API_KEY"
	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY"
)

const (
	// DefaultEmbedderModel is the Google embedding model used for the corpus.
	// Embeddings always go through Google regardless of the chat provider.
	DefaultEmbedderModel = "gemini-embedding-001"

	// DefaultChunkSize is the corpus chunk size in runes.
	DefaultChunkSize = 800

	// DefaultChunkOverlap is the overlap between adjacent chunks in runes.
	DefaultChunkOverlap = 120

	// DefaultTopK is the number of chunks retrieved per guardian query.
	DefaultTopK = 3
)

// Config stores application configuration.
// SECURITY: the database URL may embed a password and is masked in MarshalJSON.
type Config struct {
	// AI provider and model configuration
	Provider    string  `mapstructure:"provider" json:"provider"`     // "google" (default), "groq", "openrouter"
	ModelName   string  `mapstructure:"model_name" json:"model_name"` // e.g. "gemini-2.5-flash", "llama-3.3-70b-versatile"
	Temperature float64 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`

	// Corpus configuration
	KnowledgeDir  string `mapstructure:"knowledge_dir" json:"knowledge_dir"`
	EmbedderModel string `mapstructure:"embedder_model" json:"embedder_model"`
	ChunkSize     int    `mapstructure:"chunk_size" json:"chunk_size"`
	ChunkOverlap  int    `mapstructure:"chunk_overlap" json:"chunk_overlap"`
	TopK          int    `mapstructure:"top_k" json:"top_k"`

	// HTTP server
	ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`

	// Storage configuration. Empty DatabaseURL disables scenario persistence.
	DatabaseURL string `mapstructure:"database_url" json:"database_url"` // SENSITIVE: masked in MarshalJSON

	// Observability configuration
	Datadog DatadogConfig `mapstructure:"datadog" json:"datadog"`
}

// DatadogConfig holds OTLP trace export settings.
// Traces go to a local Datadog agent; an empty AgentHost disables export.
type DatadogConfig struct {
	AgentHost   string `mapstructure:"agent_host" json:"agent_host"`
	Environment string `mapstructure:"environment" json:"environment"`
	ServiceName string `mapstructure:"service_name" json:"service_name"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
//
// Load does NOT validate provider credentials: a missing API key is a
// runtime degradation handled by the engine's validation report, not a
// startup failure.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".socialproof")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// AI defaults
	viper.SetDefault("provider", ProviderGoogle)
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("temperature", 0.4)
	viper.SetDefault("max_tokens", 2048)

	// Corpus defaults
	viper.SetDefault("knowledge_dir", "knowledge_base")
	viper.SetDefault("embedder_model", DefaultEmbedderModel)
	viper.SetDefault("chunk_size", DefaultChunkSize)
	viper.SetDefault("chunk_overlap", DefaultChunkOverlap)
	viper.SetDefault("top_k", DefaultTopK)

	// HTTP defaults
	viper.SetDefault("listen_addr", "127.0.0.1:8420")

	// Datadog defaults (empty agent_host = tracing disabled)
	viper.SetDefault("datadog.agent_host", "")
	viper.SetDefault("datadog.environment", "dev")
	viper.SetDefault("datadog.service_name", "socialproof")
}

// bindEnvVariables binds environment overrides explicitly.
// Provider API keys (GEMINI_API_KEY, GROQ_API_KEY, OPENROUTER_API_KEY) are
// read directly via Credential(), not through Viper, so they never end up
// in an unmarshalled struct dump.
func bindEnvVariables() {
	// Hardcoded keys cannot fail to bind; a failure here is a bug.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "SOCIALPROOF_PROVIDER")
	mustBind("model_name", "SOCIALPROOF_MODEL_NAME")
	mustBind("knowledge_dir", "SOCIALPROOF_KNOWLEDGE_DIR")
	mustBind("listen_addr", "SOCIALPROOF_LISTEN_ADDR")
	mustBind("database_url", "DATABASE_URL")
	mustBind("datadog.agent_host", "DD_AGENT_HOST")
}

// CredentialEnvVar returns the environment variable name that holds the
// API key for the given provider name. Unknown providers return "".
func CredentialEnvVar(provider string) string {
	switch provider {
	case ProviderGoogle:
		return EnvGoogleAPIKey
	case ProviderGroq:
		return EnvGroqAPIKey
	case ProviderOpenRouter:
		return EnvOpenRouterAPIKey
	default:
		return ""
	}
}

// Credential returns the active provider's API key from the environment.
// Returns "" when the provider is unknown or the key is unset.
func (c *Config) Credential() string {
	envVar := CredentialEnvVar(c.Provider)
	if envVar == "" {
		return ""
	}
	return os.Getenv(envVar)
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks avoid accidental substring matches against real secrets.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 characters or fewer are fully masked; longer ones keep the
// first and last two characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
// When adding new sensitive fields, update this method.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.DatabaseURL = maskSecret(a.DatabaseURL)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
