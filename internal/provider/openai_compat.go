package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// GroqBaseURL is Groq's OpenAI-compatible endpoint.
	GroqBaseURL = "https://api.groq.com/openai/v1"

	// OpenRouterBaseURL is OpenRouter's OpenAI-compatible endpoint.
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// defaultTimeout bounds a completion request when the caller's context
	// carries no deadline.
	defaultTimeout = 2 * time.Minute

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 10 * 1024 * 1024

	// maxRetries is the number of additional attempts after a retryable
	// failure (network error, 429, 5xx).
	maxRetries = 2
)

// chatMessage is one message of an OpenAI-compatible chat request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the OpenAI-compatible chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatResponse is the subset of the response body we consume.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CompatClient is a chat client for OpenAI-compatible HTTP APIs.
// Groq and OpenRouter both speak this dialect.
type CompatClient struct {
	name       string
	baseURL    string
	apiKey     string
	model      string
	headers    map[string]string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewCompatClient creates a client for an OpenAI-compatible endpoint.
// The name is reported by Name() and used in error messages. Extra headers
// are sent with every request; OpenRouter uses these for app attribution.
func NewCompatClient(name, baseURL, apiKey, model string, headers map[string]string, logger *slog.Logger) *CompatClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompatClient{
		name:       name,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		headers:    headers,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

// Name implements Client.
func (c *CompatClient) Name() string { return c.name }

// Generate implements Client.
// Network errors, 429 and 5xx responses are retried with exponential
// backoff up to maxRetries extra attempts; other HTTP errors fail fast.
func (c *CompatClient) Generate(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: %s: API key not configured", ErrProvider, c.name)
	}

	// Bound the request when the caller has no deadline of its own.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: marshaling request: %v", ErrProvider, c.name, err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			c.logger.Debug("retrying completion request",
				"provider", c.name,
				"attempt", attempt,
				"backoff", backoff)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %s: %v", ErrProvider, c.name, ctx.Err())
			case <-time.After(backoff):
			}
		}

		text, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return text, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("%w: %s: retries exhausted: %v", ErrProvider, c.name, lastErr)
}

// doRequest performs one completion attempt. The second return value
// reports whether the failure is worth retrying.
func (c *CompatClient) doRequest(ctx context.Context, body []byte) (string, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: creating request: %v", ErrProvider, c.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", true, fmt.Errorf("%w: %s: request failed: %v", ErrProvider, c.name, err)
	}
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	resp.Body.Close()
	if err != nil {
		return "", true, fmt.Errorf("%w: %s: reading response: %v", ErrProvider, c.name, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("%w: %s: status %d: %s",
			ErrProvider, c.name, resp.StatusCode, truncate(respBody, 256))
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("%w: %s: status %d: %s",
			ErrProvider, c.name, resp.StatusCode, truncate(respBody, 256))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, fmt.Errorf("%w: %s: parsing response: %v", ErrProvider, c.name, err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("%w: %s: %s", ErrProvider, c.name, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("%w: %s: no choices returned", ErrEmptyCompletion, c.name)
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", false, fmt.Errorf("%w: %s", ErrEmptyCompletion, c.name)
	}
	return text, false, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
