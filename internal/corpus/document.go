// Package corpus implements the knowledge corpus behind the Digital Guardian:
// loading plain-text source documents, splitting them into overlapping
// chunks, embedding the chunks, and serving top-k retrieval over an
// in-memory vector index.
//
// The corpus is small (a handful of curated security-awareness documents),
// so the index keeps every vector in memory and scores queries by brute
// force. Rebuilds swap the full chunk set atomically; readers never observe
// a partially built index.
package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrEmptyCorpus indicates an index build had no chunks to work
	// with. Recoverable: the index keeps serving its previous corpus.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrEmbeddingBackend indicates the embedding backend failed or
	// returned a malformed response.
	ErrEmbeddingBackend = errors.New("embedding backend failure")
)

// Document is one source file of the knowledge corpus.
type Document struct {
	// ID is a stable identifier derived from the source label.
	ID string

	// SourceLabel is the file name, used for answer attribution.
	SourceLabel string

	// Path is the absolute or dir-relative path the document was read from.
	Path string

	// Text is the full document content.
	Text string
}

// generateDocID generates a stable document ID from the source label.
func generateDocID(label string) string {
	sum := sha256.Sum256([]byte(label))
	return hex.EncodeToString(sum[:8])
}

// LoadDir reads all *.txt files in dir as corpus documents, ordered by
// file name so that chunk IDs are stable across rebuilds. Files that are
// empty or whitespace-only are skipped. Subdirectories are not descended.
//
// A missing or unreadable directory is an error; a directory with no
// usable documents yields an empty slice and no error.
func LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) != ".txt" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading corpus document %s: %w", path, err)
		}

		text := string(data)
		if strings.TrimSpace(text) == "" {
			continue
		}

		docs = append(docs, Document{
			ID:          generateDocID(name),
			SourceLabel: name,
			Path:        path,
			Text:        text,
		})
	}

	return docs, nil
}
