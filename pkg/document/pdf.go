package document

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/videoscribe/videoscribe/pkg/models"
)

const (
	pdfImageX     = 15.0  // left margin for screenshots, mm
	pdfImageWidth = 180.0 // page-relative screenshot width, mm
	pdfPageBreakY = 250.0 // near-bottom threshold, mm
)

// WritePDF renders the transcript as a paginated PDF: a bold timestamp
// header per entry, the screenshot for that exact timestamp label when one
// exists, then the segment text. A new page is forced every two entries or
// once the cursor passes the near-bottom threshold.
func WritePDF(entries []models.TranscriptEntry, screenshots map[string]string, outputPath string) error {
	log.Printf("Creating PDF with screenshots and transcripts...")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Video Transcript with Visual References", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	for i, entry := range entries {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, "Time: "+entry.Timestamp, "", 1, "L", false, 0, "")

		if path, ok := screenshots[entry.Timestamp]; ok {
			if err := embedImage(pdf, path); err != nil {
				log.Printf("⚠️  Could not add image %s to PDF: %v", path, err)
			}
		}

		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 5, SanitizeLatin1(entry.Text), "", "L", false)
		pdf.Ln(10)

		if (i+1)%2 == 0 || pdf.GetY() > pdfPageBreakY {
			pdf.AddPage()
		}
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("save PDF: %w", err)
	}
	return nil
}

// embedImage places a screenshot at a fixed width with the aspect ratio
// preserved. The file is decoded first so a broken capture cannot poison
// the whole document.
func embedImage(pdf *gofpdf.Fpdf, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	cfg, _, err := image.DecodeConfig(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width == 0 {
		return fmt.Errorf("image has zero width")
	}

	height := pdfImageWidth * float64(cfg.Height) / float64(cfg.Width)
	pdf.ImageOptions(path, pdfImageX, pdf.GetY(), pdfImageWidth, height, true,
		gofpdf.ImageOptions{ImageType: "JPG"}, 0, "")
	pdf.Ln(5)
	return pdf.Error()
}

// SanitizeLatin1 collapses newlines and re-encodes the text as latin-1,
// one byte per character, substituting a placeholder for anything the
// PDF's single-byte core fonts cannot represent.
func SanitizeLatin1(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if r > 0xFF {
			builder.WriteByte('?')
		} else {
			builder.WriteByte(byte(r))
		}
	}
	return builder.String()
}
