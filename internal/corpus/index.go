package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/firebase/genkit/go/ai"
)

// Hit is one retrieval result: a chunk with its similarity to the query.
type Hit struct {
	Chunk Chunk
	Score float64
}

// Index is an in-memory vector index over corpus chunks.
//
// Build replaces the entire chunk set atomically under the write lock, so
// concurrent Search calls see either the old corpus or the new one, never
// a mix. Scoring is brute-force cosine similarity over every chunk, which
// is exact and more than fast enough at corpus scale.
type Index struct {
	mu       sync.RWMutex
	chunks   []Chunk
	embedder ai.Embedder
	chunker  *Chunker
	logger   *slog.Logger
}

// NewIndex creates an empty index. The embedder is used both for chunk
// vectors during Build and for query vectors during Search, so both sides
// of the similarity live in the same vector space.
func NewIndex(embedder ai.Embedder, chunker *Chunker, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		embedder: embedder,
		chunker:  chunker,
		logger:   logger,
	}
}

// Build chunks and embeds the given documents, then swaps them in as the
// new corpus. Zero documents, or documents that chunk to nothing, fail
// with ErrEmptyCorpus; on that and any embedding failure the existing
// corpus is left intact.
//
// Chunk IDs are assigned densely in document order, so a given corpus
// directory state always produces the same IDs.
func (idx *Index) Build(ctx context.Context, docs []Document) error {
	var pending []Chunk
	for _, doc := range docs {
		pending = append(pending, idx.chunker.Split(doc)...)
	}
	for i := range pending {
		pending[i].ID = i
	}

	if len(pending) == 0 {
		return fmt.Errorf("%w: no indexable chunks in %d documents", ErrEmptyCorpus, len(docs))
	}
	if err := idx.embedChunks(ctx, pending); err != nil {
		return err
	}

	idx.mu.Lock()
	idx.chunks = pending
	idx.mu.Unlock()

	idx.logger.Info("corpus index built",
		"documents", len(docs),
		"chunks", len(pending))
	return nil
}

// embedChunks fills in Embedding for every chunk, one batched request per
// call. Response order follows input order per the embedding API contract,
// and a count mismatch is treated as a backend failure.
func (idx *Index) embedChunks(ctx context.Context, chunks []Chunk) error {
	input := make([]*ai.Document, len(chunks))
	for i, chunk := range chunks {
		input[i] = ai.DocumentFromText(chunk.Text, nil)
	}

	resp, err := idx.embedder.Embed(ctx, &ai.EmbedRequest{Input: input})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmbeddingBackend, err)
	}
	if len(resp.Embeddings) != len(chunks) {
		return fmt.Errorf("%w: got %d embeddings for %d chunks",
			ErrEmbeddingBackend, len(resp.Embeddings), len(chunks))
	}

	for i := range chunks {
		chunks[i].Embedding = resp.Embeddings[i].Embedding
	}
	return nil
}

// Search embeds the query and returns the k most similar chunks, ordered
// by descending cosine similarity with ascending chunk ID breaking ties.
// Fewer than k hits are returned when the corpus is smaller than k; an
// index with no chunks yields no hits and no error, without touching the
// embedding backend.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("top-k must be positive, got %d", k)
	}

	idx.mu.RLock()
	chunks := idx.chunks
	idx.mu.RUnlock()

	if len(chunks) == 0 {
		return []Hit{}, nil
	}

	resp, err := idx.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(query, nil)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingBackend, err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", ErrEmbeddingBackend)
	}
	queryVec := resp.Embeddings[0].Embedding

	hits := make([]Hit, len(chunks))
	for i, chunk := range chunks {
		hits[i] = Hit{
			Chunk: chunk,
			Score: cosineSimilarity(queryVec, chunk.Embedding),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Chunk.ID < hits[j].Chunk.ID
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Len returns the number of chunks currently indexed.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks)
}

// cosineSimilarity computes cosine similarity between two vectors.
// Mismatched lengths and zero vectors score 0 rather than erroring, so a
// degenerate embedding ranks last instead of failing the whole query.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
