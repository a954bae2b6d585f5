package guardian

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/socialproof/socialproof/internal/corpus"
	"github.com/socialproof/socialproof/internal/provider"
	"github.com/socialproof/socialproof/internal/testutil"
)

// stubRetriever returns a fixed hit list or error.
type stubRetriever struct {
	hits []corpus.Hit
	err  error
	k    int
}

func (s *stubRetriever) Search(_ context.Context, _ string, k int) ([]corpus.Hit, error) {
	s.k = k
	if s.err != nil {
		return nil, s.err
	}
	return s.hits, nil
}

// stubClient returns a fixed completion or error and records the request.
type stubClient struct {
	reply string
	err   error
	last  provider.Request
	calls int
}

func (s *stubClient) Name() string { return "stub" }

func (s *stubClient) Generate(_ context.Context, req provider.Request) (string, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func threeHits() []corpus.Hit {
	return []corpus.Hit{
		{Chunk: corpus.Chunk{ID: 0, SourceLabel: "phishing.txt", Text: "Phishing impersonates trusted senders."}, Score: 0.9},
		{Chunk: corpus.Chunk{ID: 1, SourceLabel: "passwords.txt", Text: "Never reuse passwords."}, Score: 0.8},
		{Chunk: corpus.Chunk{ID: 2, SourceLabel: "phishing.txt", Text: "Check the sender domain."}, Score: 0.7},
	}
}

// TestAskGrounded tests a normal grounded answer.
func TestAskGrounded(t *testing.T) {
	retriever := &stubRetriever{hits: threeHits()}
	client := &stubClient{reply: "Phishing is an attack that impersonates trusted parties."}
	a := NewAnswerer(retriever, client, 3, 2048, testutil.DiscardLogger())

	ans, err := a.Ask(context.Background(), "What is phishing?")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if ans.Answer != client.reply {
		t.Errorf("Answer = %q", ans.Answer)
	}
	if ans.Provider != "stub" {
		t.Errorf("Provider = %q, want stub", ans.Provider)
	}
	if retriever.k != 3 {
		t.Errorf("Search k = %d, want 3", retriever.k)
	}
}

// TestAskSourcesDeduplicated tests rank-ordered deduplicated sources.
func TestAskSourcesDeduplicated(t *testing.T) {
	a := NewAnswerer(&stubRetriever{hits: threeHits()}, &stubClient{reply: "answer"},
		3, 2048, testutil.DiscardLogger())

	ans, err := a.Ask(context.Background(), "What is phishing?")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	want := []string{"phishing.txt", "passwords.txt"}
	if len(ans.Sources) != len(want) {
		t.Fatalf("Sources = %v, want %v", ans.Sources, want)
	}
	for i := range want {
		if ans.Sources[i] != want[i] {
			t.Errorf("Sources[%d] = %q, want %q", i, ans.Sources[i], want[i])
		}
	}
}

// TestAskPromptCarriesChunksVerbatim tests grounding and request parameters.
func TestAskPromptCarriesChunksVerbatim(t *testing.T) {
	client := &stubClient{reply: "answer"}
	a := NewAnswerer(&stubRetriever{hits: threeHits()}, client, 3, 1024, testutil.DiscardLogger())

	if _, err := a.Ask(context.Background(), "What is phishing?"); err != nil {
		t.Fatalf("Ask() error: %v", err)
	}

	for _, hit := range threeHits() {
		if !strings.Contains(client.last.Prompt, hit.Chunk.Text) {
			t.Errorf("prompt missing chunk text %q", hit.Chunk.Text)
		}
	}
	if !strings.Contains(client.last.Prompt, "User Question: What is phishing?") {
		t.Errorf("prompt missing question:\n%s", client.last.Prompt)
	}
	if !strings.Contains(client.last.System, "Digital Guardian") {
		t.Errorf("system prompt missing role:\n%s", client.last.System)
	}
	if client.last.Temperature != guardianTemperature {
		t.Errorf("Temperature = %v, want %v", client.last.Temperature, guardianTemperature)
	}
	if client.last.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %v, want 1024", client.last.MaxTokens)
	}
}

// TestAskEmptyQuestion tests blank question rejection.
func TestAskEmptyQuestion(t *testing.T) {
	a := NewAnswerer(&stubRetriever{}, &stubClient{}, 3, 2048, testutil.DiscardLogger())

	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := a.Ask(context.Background(), q); !errors.Is(err, ErrEmptyQuestion) {
			t.Errorf("Ask(%q) = %v, want ErrEmptyQuestion", q, err)
		}
	}
}

// TestAskEmptyCorpus tests the fixed no-context answer when retrieval
// comes back empty.
func TestAskEmptyCorpus(t *testing.T) {
	client := &stubClient{reply: "should not be used"}
	a := NewAnswerer(&stubRetriever{hits: []corpus.Hit{}}, client, 3, 2048, testutil.DiscardLogger())

	ans, err := a.Ask(context.Background(), "What is phishing?")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if ans.Answer != noContextAnswer {
		t.Errorf("Answer = %q, want no-context answer", ans.Answer)
	}
	if len(ans.Sources) != 0 {
		t.Errorf("Sources = %v, want empty", ans.Sources)
	}
	if client.calls != 0 {
		t.Errorf("completion backend called %d times, want 0", client.calls)
	}
}

// TestAskRetrievalFailure tests ErrUnavailable on embedding backend failure.
func TestAskRetrievalFailure(t *testing.T) {
	a := NewAnswerer(&stubRetriever{err: corpus.ErrEmbeddingBackend}, &stubClient{},
		3, 2048, testutil.DiscardLogger())

	_, err := a.Ask(context.Background(), "What is phishing?")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ask() = %v, want ErrUnavailable", err)
	}
}

// TestAskCompletionFailure tests ErrUnavailable on completion failure.
func TestAskCompletionFailure(t *testing.T) {
	client := &stubClient{err: errors.New("backend down")}
	a := NewAnswerer(&stubRetriever{hits: threeHits()}, client, 3, 2048, testutil.DiscardLogger())

	_, err := a.Ask(context.Background(), "What is phishing?")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ask() = %v, want ErrUnavailable", err)
	}
}

// TestAskNilClient tests ErrUnavailable when AI is disabled.
func TestAskNilClient(t *testing.T) {
	a := NewAnswerer(&stubRetriever{hits: threeHits()}, nil, 3, 2048, testutil.DiscardLogger())

	_, err := a.Ask(context.Background(), "What is phishing?")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ask() = %v, want ErrUnavailable", err)
	}
}
