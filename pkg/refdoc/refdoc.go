// Package refdoc loads reference documents whose text steers the
// transcription-correction prompt.
package refdoc

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// maxChars caps how much reference text is retained from a document.
const maxChars = 10000

// Extract pulls plain text out of a reference document. PDF files go
// through a text extractor; anything else is read as-is. The result is
// capped at 10000 characters.
func Extract(path string) (string, error) {
	var text string
	var err error

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = extractPDF(path)
	} else {
		text, err = extractPlain(path)
	}
	if err != nil {
		return "", err
	}

	if len(text) > maxChars {
		log.Printf("Reference document is long (%d chars). Trimming to %d chars.", len(text), maxChars)
		cut := maxChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text, nil
}

func extractPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("read PDF text: %w", err)
	}
	return buf.String(), nil
}

func extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read reference document: %w", err)
	}
	return string(data), nil
}
