package corpus

import (
	"context"
	"errors"
	"testing"

	"github.com/firebase/genkit/go/genkit"

	"github.com/socialproof/socialproof/internal/testutil"
)

type indexFixture struct {
	index    *Index
	embedder *testutil.MockEmbedder
}

func newIndexFixture(t *testing.T, chunkSize, overlap int) *indexFixture {
	t.Helper()

	g := genkit.Init(context.Background())
	mock := testutil.NewMockEmbedder(8)

	chunker, err := NewChunker(chunkSize, overlap)
	if err != nil {
		t.Fatalf("NewChunker: %v", err)
	}

	return &indexFixture{
		index:    NewIndex(mock.RegisterEmbedder(g), chunker, testutil.DiscardLogger()),
		embedder: mock,
	}
}

// TestBuildAndLen tests that Build indexes every chunk of every document.
func TestBuildAndLen(t *testing.T) {
	fx := newIndexFixture(t, 10, 0)

	docs := []Document{
		{ID: "d1", SourceLabel: "a.txt", Text: "0123456789abcdefghij"}, // 2 chunks
		{ID: "d2", SourceLabel: "b.txt", Text: "xyz"},                 // 1 chunk
	}
	if err := fx.index.Build(context.Background(), docs); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := fx.index.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}

// TestSearchEmptyIndex tests that a zero-chunk index yields no hits and
// no error, without calling the embedding backend.
func TestSearchEmptyIndex(t *testing.T) {
	fx := newIndexFixture(t, 10, 0)

	hits, err := fx.index.Search(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("Search() on empty index error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("len(hits) = %d, want 0", len(hits))
	}
	if fx.embedder.Calls() != 0 {
		t.Errorf("embedder called %d times, want 0", fx.embedder.Calls())
	}
}

// TestSearchRanking tests cosine ordering with controlled vectors.
func TestSearchRanking(t *testing.T) {
	fx := newIndexFixture(t, 100, 0)

	// Orthogonal-ish unit vectors with known similarity to the query.
	fx.embedder.SetVector("close match", []float32{1, 0, 0, 0, 0, 0, 0, 0})
	fx.embedder.SetVector("partial match", []float32{0.5, 0.5, 0, 0, 0, 0, 0, 0})
	fx.embedder.SetVector("unrelated", []float32{0, 1, 0, 0, 0, 0, 0, 0})
	fx.embedder.SetVector("query", []float32{1, 0, 0, 0, 0, 0, 0, 0})

	docs := []Document{
		{ID: "d1", SourceLabel: "a.txt", Text: "unrelated"},
		{ID: "d2", SourceLabel: "b.txt", Text: "close match"},
		{ID: "d3", SourceLabel: "c.txt", Text: "partial match"},
	}
	if err := fx.index.Build(context.Background(), docs); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	hits, err := fx.index.Search(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("len(hits) = %d, want 2", len(hits))
	}
	if hits[0].Chunk.Text != "close match" {
		t.Errorf("top hit = %q, want %q", hits[0].Chunk.Text, "close match")
	}
	if hits[1].Chunk.Text != "partial match" {
		t.Errorf("second hit = %q, want %q", hits[1].Chunk.Text, "partial match")
	}
	if hits[0].Score <= hits[1].Score {
		t.Errorf("scores not descending: %v then %v", hits[0].Score, hits[1].Score)
	}
}

// TestSearchTieBreakByID tests that equal scores rank by ascending chunk ID.
func TestSearchTieBreakByID(t *testing.T) {
	fx := newIndexFixture(t, 100, 0)

	same := []float32{0, 0, 1, 0, 0, 0, 0, 0}
	fx.embedder.SetVector("first twin", same)
	fx.embedder.SetVector("second twin", same)
	fx.embedder.SetVector("query", same)

	docs := []Document{
		{ID: "d1", SourceLabel: "a.txt", Text: "first twin"},
		{ID: "d2", SourceLabel: "b.txt", Text: "second twin"},
	}
	if err := fx.index.Build(context.Background(), docs); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	hits, err := fx.index.Search(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if hits[0].Chunk.ID != 0 || hits[1].Chunk.ID != 1 {
		t.Errorf("tie not broken by ascending ID: got %d then %d",
			hits[0].Chunk.ID, hits[1].Chunk.ID)
	}
}

// TestSearchKLargerThanCorpus tests that k is capped at the corpus size.
func TestSearchKLargerThanCorpus(t *testing.T) {
	fx := newIndexFixture(t, 100, 0)

	docs := []Document{{ID: "d1", SourceLabel: "a.txt", Text: "only chunk"}}
	if err := fx.index.Build(context.Background(), docs); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	hits, err := fx.index.Search(context.Background(), "query", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("len(hits) = %d, want 1", len(hits))
	}
}

// TestSearchInvalidK tests rejection of non-positive k.
func TestSearchInvalidK(t *testing.T) {
	fx := newIndexFixture(t, 100, 0)
	if _, err := fx.index.Search(context.Background(), "q", 0); err == nil {
		t.Error("Search() with k=0 expected error")
	}
}

// TestBuildEmbeddingFailureKeepsOldCorpus tests that a failed rebuild does
// not clobber the existing index.
func TestBuildEmbeddingFailureKeepsOldCorpus(t *testing.T) {
	fx := newIndexFixture(t, 100, 0)

	docs := []Document{{ID: "d1", SourceLabel: "a.txt", Text: "original"}}
	if err := fx.index.Build(context.Background(), docs); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	fx.embedder.SetError(errors.New("backend down"))
	err := fx.index.Build(context.Background(), []Document{
		{ID: "d2", SourceLabel: "b.txt", Text: "replacement"},
	})
	if !errors.Is(err, ErrEmbeddingBackend) {
		t.Fatalf("Build() = %v, want ErrEmbeddingBackend", err)
	}

	if got := fx.index.Len(); got != 1 {
		t.Errorf("Len() after failed rebuild = %d, want 1", got)
	}
}

// TestBuildEmptyDocs tests that building from nothing fails with the
// empty-corpus sentinel without calling the embedding backend.
func TestBuildEmptyDocs(t *testing.T) {
	fx := newIndexFixture(t, 100, 0)

	for _, docs := range [][]Document{
		nil,
		{{ID: "d1", SourceLabel: "a.txt", Text: ""}},
	} {
		if err := fx.index.Build(context.Background(), docs); !errors.Is(err, ErrEmptyCorpus) {
			t.Errorf("Build(%v) = %v, want ErrEmptyCorpus", docs, err)
		}
	}
	if fx.embedder.Calls() != 0 {
		t.Errorf("embedder called %d times, want 0", fx.embedder.Calls())
	}
}

// TestBuildEmptyDocsKeepsOldCorpus tests that a rebuild from no documents
// is refused and leaves the previous corpus in service.
func TestBuildEmptyDocsKeepsOldCorpus(t *testing.T) {
	fx := newIndexFixture(t, 100, 0)

	docs := []Document{{ID: "d1", SourceLabel: "a.txt", Text: "original"}}
	if err := fx.index.Build(context.Background(), docs); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	before := fx.embedder.Calls()

	if err := fx.index.Build(context.Background(), nil); !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("Build(nil) = %v, want ErrEmptyCorpus", err)
	}
	if fx.index.Len() != 1 {
		t.Errorf("Len() after refused rebuild = %d, want 1", fx.index.Len())
	}
	if fx.embedder.Calls() != before {
		t.Errorf("embedder called for empty rebuild")
	}
}

// TestCosineSimilarity tests similarity edge cases.
func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
