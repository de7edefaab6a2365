package refdoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("raft consensus protocol"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "raft consensus protocol" {
		t.Errorf("got %q", got)
	}
}

func TestExtractCapsLongDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	long := strings.Repeat("a", maxChars+5000)
	if err := os.WriteFile(path, []byte(long), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != maxChars {
		t.Errorf("length = %d, want %d", len(got), maxChars)
	}
}

func TestExtractTrimsAtRuneBoundary(t *testing.T) {
	// A leading single-byte rune shifts every following two-byte rune off
	// the byte cap, so a naive byte slice would cut one in half.
	long := "x" + strings.Repeat("é", maxChars)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte(long), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !utf8.ValidString(got) {
		t.Error("trimmed text is not valid UTF-8")
	}
	if len(got) > maxChars {
		t.Errorf("length = %d, want <= %d", len(got), maxChars)
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := Extract(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
