package corpus

import (
	"strings"
	"testing"
)

func mustChunker(t *testing.T, size, overlap int) *Chunker {
	t.Helper()
	c, err := NewChunker(size, overlap)
	if err != nil {
		t.Fatalf("NewChunker(%d, %d) error: %v", size, overlap, err)
	}
	return c
}

// TestNewChunkerRejectsInvalidParams tests parameter bounds.
func TestNewChunkerRejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -1, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
		{"overlap above size", 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewChunker(tt.size, tt.overlap); err == nil {
				t.Errorf("NewChunker(%d, %d) expected error", tt.size, tt.overlap)
			}
		})
	}
}

// TestSplitShortDocument tests that text shorter than one window yields one chunk.
func TestSplitShortDocument(t *testing.T) {
	c := mustChunker(t, 100, 20)
	doc := Document{ID: "d1", SourceLabel: "a.txt", Text: "short text"}

	chunks := c.Split(doc)
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	if chunks[0].Text != doc.Text {
		t.Errorf("chunk text = %q, want %q", chunks[0].Text, doc.Text)
	}
	if chunks[0].Offset != 0 {
		t.Errorf("chunk offset = %d, want 0", chunks[0].Offset)
	}
	if chunks[0].DocumentID != "d1" || chunks[0].SourceLabel != "a.txt" {
		t.Errorf("chunk provenance = %q/%q, want d1/a.txt", chunks[0].DocumentID, chunks[0].SourceLabel)
	}
}

// TestSplitEmptyDocument tests that empty text yields no chunks.
func TestSplitEmptyDocument(t *testing.T) {
	c := mustChunker(t, 100, 20)
	if chunks := c.Split(Document{Text: ""}); len(chunks) != 0 {
		t.Errorf("len(chunks) = %d, want 0", len(chunks))
	}
}

// TestSplitOverlap tests window advancement and shared overlap.
func TestSplitOverlap(t *testing.T) {
	c := mustChunker(t, 10, 4)
	text := "abcdefghijklmnopqrstuvwxyz" // 26 runes
	chunks := c.Split(Document{Text: text})

	// step = 6: windows at 0, 6, 12, 18, 24
	want := []struct {
		text   string
		offset int
	}{
		{"abcdefghij", 0},
		{"ghijklmnop", 6},
		{"mnopqrstuv", 12},
		{"stuvwxyz", 18},
	}
	if len(chunks) != len(want) {
		t.Fatalf("len(chunks) = %d, want %d", len(chunks), len(want))
	}
	for i, w := range want {
		if chunks[i].Text != w.text || chunks[i].Offset != w.offset {
			t.Errorf("chunk %d = %q at %d, want %q at %d",
				i, chunks[i].Text, chunks[i].Offset, w.text, w.offset)
		}
	}
}

// TestSplitExactWindow tests that text of exactly one window yields one chunk.
func TestSplitExactWindow(t *testing.T) {
	c := mustChunker(t, 10, 3)
	chunks := c.Split(Document{Text: "0123456789"})
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
}

// TestSplitMultiByte tests that windows are measured in runes, not bytes.
func TestSplitMultiByte(t *testing.T) {
	c := mustChunker(t, 5, 0)
	text := strings.Repeat("資安意識訓練", 2) // 12 runes, 3 bytes each
	chunks := c.Split(Document{Text: text})

	if len(chunks) != 3 {
		t.Fatalf("len(chunks) = %d, want 3", len(chunks))
	}
	for i, chunk := range chunks {
		runes := []rune(chunk.Text)
		if i < 2 && len(runes) != 5 {
			t.Errorf("chunk %d has %d runes, want 5", i, len(runes))
		}
	}
	if got := chunks[0].Text + chunks[1].Text + chunks[2].Text; got != text {
		t.Errorf("zero-overlap chunks do not reassemble the document: %q", got)
	}
}

// TestSplitCoversDocument tests that every rune lands in at least one chunk.
func TestSplitCoversDocument(t *testing.T) {
	c := mustChunker(t, 7, 2)
	text := "the quick brown fox jumps over the lazy dog"
	chunks := c.Split(Document{Text: text})

	covered := make([]bool, len([]rune(text)))
	for _, chunk := range chunks {
		n := len([]rune(chunk.Text))
		for i := chunk.Offset; i < chunk.Offset+n; i++ {
			covered[i] = true
		}
	}
	for i, ok := range covered {
		if !ok {
			t.Fatalf("rune %d not covered by any chunk", i)
		}
	}
}
