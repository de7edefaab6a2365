package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/videoscribe/videoscribe/pkg/models"
)

// WriteTranscript renders the ordered transcript as plain text, one
// "[timestamp] text" entry followed by a blank line.
func WriteTranscript(entries []models.TranscriptEntry, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	var builder strings.Builder
	for _, entry := range entries {
		builder.WriteString(fmt.Sprintf("[%s] %s\n\n", entry.Timestamp, entry.Text))
	}

	if err := os.WriteFile(outputPath, []byte(builder.String()), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// ParseTranscript is the inverse of WriteTranscript: it splits on
// blank-line-delimited "[timestamp] text" blocks and recovers the ordered
// entry sequence. Blocks without the bracketed prefix are ignored.
func ParseTranscript(data string) []models.TranscriptEntry {
	var entries []models.TranscriptEntry

	for _, block := range strings.Split(data, "\n\n") {
		block = strings.TrimSpace(block)
		if !strings.HasPrefix(block, "[") {
			continue
		}
		end := strings.Index(block, "] ")
		if end < 0 {
			continue
		}
		entries = append(entries, models.TranscriptEntry{
			Timestamp: block[1:end],
			Text:      block[end+2:],
		})
	}

	return entries
}
