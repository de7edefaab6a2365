package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/videoscribe/videoscribe/pkg/models"
)

func TestSanitizeLatin1(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain ascii", "plain ascii"},
		{"café", "caf\xe9"}, // é re-encoded as a single latin-1 byte
		{"你好 world", "?? world"},
		{"line\none\nline two", "line one line two"},
		{"  padded  ", "padded"},
		{"emoji \U0001f389 done", "emoji ? done"},
	}

	for _, c := range cases {
		if got := SanitizeLatin1(c.in); got != c.want {
			t.Errorf("SanitizeLatin1(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeLatin1SingleBytePerChar(t *testing.T) {
	// Core PDF fonts consume one byte per glyph, so the sanitized form of
	// an accented string must be exactly one byte per input character.
	got := SanitizeLatin1("über café")
	if len(got) != 9 {
		t.Errorf("len = %d, want 9 (got %q)", len(got), got)
	}
	for i := 0; i < len(got); i++ {
		if got[i] >= 0x80 && got[i] < 0xA0 {
			t.Errorf("byte %d = %#x falls in the latin-1 control range", i, got[i])
		}
	}
}

func TestWritePDF(t *testing.T) {
	entries := []models.TranscriptEntry{
		{Timestamp: "0:00:00", Text: "introduction to the course"},
		{Timestamp: "0:01:00", Text: "first topic"},
		{Timestamp: "0:02:00", Text: "second topic"},
	}

	path := filepath.Join(t.TempDir(), "transcript.pdf")
	if err := WritePDF(entries, nil, path); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("PDF file is empty")
	}
}

func TestWritePDFMissingScreenshotFile(t *testing.T) {
	entries := []models.TranscriptEntry{
		{Timestamp: "0:00:00", Text: "entry with a missing screenshot"},
	}
	screenshots := map[string]string{
		"0:00:00": filepath.Join(t.TempDir(), "does-not-exist.jpg"),
	}

	path := filepath.Join(t.TempDir(), "transcript.pdf")
	if err := WritePDF(entries, screenshots, path); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}
