package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/videoscribe/videoscribe/pkg/models"
)

func TestWriteTranscript(t *testing.T) {
	entries := []models.TranscriptEntry{
		{Timestamp: "0:00:00", Text: "welcome to the lecture"},
		{Timestamp: "0:01:03", Text: "let's get started"},
	}

	path := filepath.Join(t.TempDir(), "transcript.txt")
	if err := WriteTranscript(entries, path); err != nil {
		t.Fatalf("WriteTranscript: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}

	want := "[0:00:00] welcome to the lecture\n\n[0:01:03] let's get started\n\n"
	if string(data) != want {
		t.Errorf("transcript = %q, want %q", data, want)
	}
}

func TestWriteTranscriptCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "transcript.txt")
	if err := WriteTranscript(nil, path); err != nil {
		t.Fatalf("WriteTranscript: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestParseTranscriptRoundTrip(t *testing.T) {
	entries := []models.TranscriptEntry{
		{Timestamp: "0:00:00", Text: "first entry"},
		{Timestamp: "0:05:00", Text: "second entry with [brackets] inside"},
		{Timestamp: "1:00:07", Text: "third"},
	}

	path := filepath.Join(t.TempDir(), "transcript.txt")
	if err := WriteTranscript(entries, path); err != nil {
		t.Fatalf("WriteTranscript: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}

	got := ParseTranscript(string(data))
	if len(got) != len(entries) {
		t.Fatalf("parsed %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
}

func TestParseTranscriptSkipsGarbage(t *testing.T) {
	input := "not an entry\n\n[0:00:10] real entry\n\n[broken block\n\n"
	got := ParseTranscript(input)
	if len(got) != 1 {
		t.Fatalf("parsed %d entries, want 1", len(got))
	}
	if got[0].Timestamp != "0:00:10" || got[0].Text != "real entry" {
		t.Errorf("entry = %+v", got[0])
	}
}
