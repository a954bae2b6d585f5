package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

// TestLoadDir tests loading, filtering and ordering of corpus documents.
func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "phishing.txt", "Phishing emails impersonate trusted senders.")
	writeFile(t, dir, "passwords.txt", "Use a unique passphrase per account.")
	writeFile(t, dir, "notes.md", "markdown is ignored")
	writeFile(t, dir, "empty.txt", "   \n\t")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "sub"), "nested.txt", "not descended into")

	docs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}

	// Ordered by file name: passwords.txt before phishing.txt.
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}
	if docs[0].SourceLabel != "passwords.txt" || docs[1].SourceLabel != "phishing.txt" {
		t.Errorf("labels = %q, %q; want passwords.txt, phishing.txt",
			docs[0].SourceLabel, docs[1].SourceLabel)
	}
	for _, doc := range docs {
		if doc.ID == "" {
			t.Errorf("document %q has empty ID", doc.SourceLabel)
		}
		if doc.Text == "" {
			t.Errorf("document %q has empty text", doc.SourceLabel)
		}
	}
}

// TestLoadDirStableIDs tests that IDs depend only on the file name.
func TestLoadDirStableIDs(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, dirA, "phishing.txt", "content one")
	writeFile(t, dirB, "phishing.txt", "entirely different content")

	docsA, err := LoadDir(dirA)
	if err != nil {
		t.Fatal(err)
	}
	docsB, err := LoadDir(dirB)
	if err != nil {
		t.Fatal(err)
	}
	if docsA[0].ID != docsB[0].ID {
		t.Errorf("same file name produced different IDs: %q vs %q", docsA[0].ID, docsB[0].ID)
	}
}

// TestLoadDirEmpty tests that a directory without usable documents is not an error.
func TestLoadDirEmpty(t *testing.T) {
	docs, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("len(docs) = %d, want 0", len(docs))
	}
}

// TestLoadDirMissing tests that a missing directory is an error.
func TestLoadDirMissing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Error("LoadDir() expected error for missing directory")
	}
}
