// Package guardian implements the Digital Guardian: a retrieval-grounded
// question answerer for cybersecurity topics.
//
// Every answer is grounded in the knowledge corpus. The top-k most similar
// chunks are passed verbatim to the model, and the source file names of
// those chunks are returned for transparency. When the corpus has nothing
// to offer, a fixed honest answer is returned instead of letting the model
// improvise.
package guardian

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/socialproof/socialproof/internal/corpus"
	"github.com/socialproof/socialproof/internal/provider"
)

var (
	// ErrUnavailable indicates the guardian cannot answer because the AI
	// backend (embedding or completion) failed.
	ErrUnavailable = errors.New("digital guardian unavailable")

	// ErrEmptyQuestion indicates the question was blank.
	ErrEmptyQuestion = errors.New("empty question")
)

// guardianTemperature keeps answers factual rather than creative.
const guardianTemperature = 0.2

// noContextAnswer is returned when retrieval finds nothing to ground an
// answer in. Honest refusal beats hallucination for a training tool.
const noContextAnswer = "I don't have information about that in my knowledge base yet. " +
	"Try asking about phishing, password safety, or common social engineering tactics."

// systemPrompt defines the guardian's role and constraints.
const systemPrompt = `You are the "Digital Guardian," an expert AI cybersecurity assistant for the SocialProof training platform.

Your Role:
- Educate users about cybersecurity threats and best practices
- Provide clear, accurate information based on the knowledge base
- Help users understand social engineering tactics
- Encourage critical thinking without giving direct scenario answers

Guidelines:
- Use the provided context to answer questions accurately
- If the answer isn't in the context, acknowledge the limitation
- Be friendly, supportive, and encouraging
- Avoid technical jargon unless necessary; explain complex terms
- Never provide direct answers to active game scenarios
- Focus on general principles and red flags to watch for`

// Answer is the guardian's response to one question.
type Answer struct {
	// Answer is the response text.
	Answer string `json:"answer"`

	// Sources lists the corpus file names that grounded the answer, in
	// retrieval rank order with duplicates removed. Empty when the answer
	// was not grounded in any chunk.
	Sources []string `json:"sources"`

	// Provider is the completion backend that produced the answer, or ""
	// for the fixed no-context answer.
	Provider string `json:"provider"`
}

// Retriever is the corpus lookup the answerer consumes.
// corpus.Index satisfies it.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]corpus.Hit, error)
}

// CompletionClient is the completion backend the answerer consumes.
// provider.Client satisfies it.
type CompletionClient interface {
	Name() string
	Generate(ctx context.Context, req provider.Request) (string, error)
}

// Answerer answers questions grounded in the knowledge corpus.
type Answerer struct {
	retriever Retriever
	client    CompletionClient
	topK      int
	maxTokens int
	logger    *slog.Logger
}

// NewAnswerer creates an answerer retrieving topK chunks per question.
func NewAnswerer(retriever Retriever, client CompletionClient, topK, maxTokens int, logger *slog.Logger) *Answerer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Answerer{
		retriever: retriever,
		client:    client,
		topK:      topK,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Ask answers a cybersecurity question.
//
// An empty corpus yields the fixed no-context answer with no error; a
// failing embedding or completion backend yields ErrUnavailable. The
// guardian never answers without either grounding or an honest refusal.
func (a *Answerer) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}
	if a.client == nil {
		return Answer{}, fmt.Errorf("%w: no completion backend configured", ErrUnavailable)
	}

	hits, err := a.retriever.Search(ctx, question, a.topK)
	if err != nil {
		return Answer{}, fmt.Errorf("%w: retrieval: %v", ErrUnavailable, err)
	}
	if len(hits) == 0 {
		a.logger.Debug("guardian asked with no retrievable context")
		return Answer{Answer: noContextAnswer, Sources: []string{}}, nil
	}

	text, err := a.client.Generate(ctx, provider.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(question, hits),
		Temperature: guardianTemperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		return Answer{}, fmt.Errorf("%w: completion: %v", ErrUnavailable, err)
	}

	answer := Answer{
		Answer:   text,
		Sources:  sourceLabels(hits),
		Provider: a.client.Name(),
	}
	a.logger.Info("guardian answered",
		"provider", answer.Provider,
		"sources", len(answer.Sources),
		"question_len", len(question))
	return answer, nil
}

// buildPrompt assembles the user prompt with retrieved chunks verbatim.
func buildPrompt(question string, hits []corpus.Hit) string {
	var b strings.Builder
	b.WriteString("Context from Knowledge Base:\n")
	for i, hit := range hits {
		fmt.Fprintf(&b, "\n[%d] (%s)\n%s\n", i+1, hit.Chunk.SourceLabel, hit.Chunk.Text)
	}
	b.WriteString("\nUser Question: " + question + "\n\nHelpful Answer:")
	return b.String()
}

// sourceLabels returns the hit source file names in rank order, deduplicated.
func sourceLabels(hits []corpus.Hit) []string {
	seen := make(map[string]bool, len(hits))
	labels := make([]string, 0, len(hits))
	for _, hit := range hits {
		if seen[hit.Chunk.SourceLabel] {
			continue
		}
		seen[hit.Chunk.SourceLabel] = true
		labels = append(labels, hit.Chunk.SourceLabel)
	}
	return labels
}
