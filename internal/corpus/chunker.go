package corpus

import "fmt"

// Chunk is one retrievable unit of the corpus: a slice of a document's
// text with its embedding vector.
type Chunk struct {
	// ID is the chunk's position in the index build order. IDs are dense,
	// start at 0, and are stable for a given corpus directory state.
	ID int

	// DocumentID identifies the source document.
	DocumentID string

	// SourceLabel is the source document's file name.
	SourceLabel string

	// Text is the chunk content passed verbatim to the guardian prompt.
	Text string

	// Offset is the chunk's starting rune offset within the document.
	Offset int

	// Embedding is the chunk's vector. Populated during index build.
	Embedding []float32
}

// Chunker splits document text into fixed-size overlapping windows.
// Sizes are measured in runes so multi-byte text never splits mid-character.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. Size must be positive and overlap must be
// in [0, size); invalid parameters are a caller bug since config validation
// enforces the same bounds.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid chunk size %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("invalid chunk overlap %d for size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split splits a document into chunks. Chunk IDs are not assigned here;
// the index numbers chunks across all documents during Build.
//
// Windows advance by size-overlap runes, so adjacent chunks share the
// configured overlap. The final window may be shorter than size. A document
// shorter than one window yields a single chunk.
func (c *Chunker) Split(doc Document) []Chunk {
	runes := []rune(doc.Text)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	chunks := make([]Chunk, 0, len(runes)/step+1)

	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, Chunk{
			DocumentID:  doc.ID,
			SourceLabel: doc.SourceLabel,
			Text:        string(runes[start:end]),
			Offset:      start,
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}
