package transcriber

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/videoscribe/videoscribe/pkg/document"
	"github.com/videoscribe/videoscribe/pkg/media"
	"github.com/videoscribe/videoscribe/pkg/models"
)

// Corrector improves one segment's text. Implementations fall back to the
// input on any failure instead of returning an error, so a dead correction
// service can never abort the pipeline.
type Corrector interface {
	Correct(ctx context.Context, text string) string
}

// Engine runs the full video-to-transcript pipeline: audio extraction,
// chunk splitting, per-chunk transcription, timestamp/screenshot alignment
// and optional text correction.
type Engine struct {
	media        media.Processor
	transcribers Factory
}

// NewEngine creates a pipeline engine.
func NewEngine(m media.Processor, transcribers Factory) *Engine {
	return &Engine{
		media:        m,
		transcribers: transcribers,
	}
}

// Request describes one pipeline run.
type Request struct {
	VideoPath          string
	WorkDir            string // job-owned scratch directory
	OutputDir          string // screenshots are persisted here; "" keeps them in scratch
	ModelSize          string
	ChunkDuration      int
	ScreenshotInterval int
	Corrector          Corrector // nil skips the correction stage
}

// Summary is the result of a completed pipeline run.
type Summary struct {
	Entries     []models.TranscriptEntry
	Screenshots map[string]string // timestamp label -> image path
	NumChunks   int
}

// Process runs the pipeline. Extraction, probing and splitting failures are
// fatal; a single chunk's transcription failure is logged and skipped, and
// screenshot misses are silent. The progress hook receives a free-form
// stage label and a monotonically non-decreasing percentage.
func (e *Engine) Process(ctx context.Context, req Request, progress func(status string, pct int)) (*Summary, error) {
	if progress == nil {
		progress = func(string, int) {}
	}

	progress("Starting video processing...", 0)

	if _, err := os.Stat(req.VideoPath); err != nil {
		return nil, fmt.Errorf("video file not found: %s", req.VideoPath)
	}

	screenshotsDir := filepath.Join(req.WorkDir, "screenshots")
	if err := os.MkdirAll(screenshotsDir, 0755); err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}

	// 1. Pull the audio track, then resample for the speech model.
	audioPath := filepath.Join(req.WorkDir, "audio.mp3")
	if err := e.media.ExtractAudio(ctx, req.VideoPath, audioPath); err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}
	progress("Extracted audio from video", 10)

	wavPath := filepath.Join(req.WorkDir, "audio.wav")
	if err := e.media.ConvertToWAV(ctx, audioPath, wavPath); err != nil {
		return nil, fmt.Errorf("convert audio to WAV: %w", err)
	}
	progress("Converted audio to WAV format", 15)

	// 2. Split into fixed-duration chunks.
	splitter := NewSplitter(e.media, req.ChunkDuration)
	chunks, err := splitter.Split(ctx, wavPath, filepath.Join(req.WorkDir, "chunks"))
	if err != nil {
		return nil, fmt.Errorf("split audio: %w", err)
	}
	progress(fmt.Sprintf("Split audio into %d chunks", len(chunks)), 20)

	tr, err := e.transcribers(req.ModelSize)
	if err != nil {
		return nil, fmt.Errorf("create transcriber: %w", err)
	}
	log.Printf("✓ Using %s backend (%s model)", tr.Name(), req.ModelSize)

	// 3. Transcribe chunk by chunk. 25%..90% of the progress bar belongs
	// to this loop.
	var entries []models.TranscriptEntry
	screenshots := make(map[string]string)
	perChunk := 70.0 / float64(len(chunks))

	for i, chunk := range chunks {
		current := 25 + int(float64(i)*perChunk)
		progress(fmt.Sprintf("Transcribing chunk %d/%d...", i+1, len(chunks)), current)

		if chunk.Empty {
			log.Printf("Chunk %d/%d is empty, skipping", i+1, len(chunks))
			continue
		}

		result, err := tr.Transcribe(ctx, chunk.FilePath)
		if err != nil {
			log.Printf("❌ Error processing chunk %d/%d: %v", i+1, len(chunks), err)
			continue
		}

		// Some backends return full text without segment timings. Keep the
		// text as a single entry at the chunk's start offset.
		segments := result.Segments
		if len(segments) == 0 && strings.TrimSpace(result.Text) != "" {
			segments = []models.Segment{{Start: 0, Text: result.Text}}
		}

		for _, seg := range segments {
			if seg.Text == "" {
				continue
			}

			abs := chunk.Start + seg.Start
			label := document.FormatTimestamp(abs)

			if document.ShouldCapture(abs, req.ScreenshotInterval) {
				if _, taken := screenshots[label]; !taken {
					path := filepath.Join(screenshotsDir, document.ScreenshotName(abs))
					if e.media.CaptureFrame(ctx, req.VideoPath, path, label) {
						screenshots[label] = path
					}
				}
			}

			text := seg.Text
			if req.Corrector != nil {
				text = req.Corrector.Correct(ctx, text)
			}

			entries = append(entries, models.TranscriptEntry{
				Timestamp: label,
				Text:      text,
			})
		}
	}
	progress("Finished transcription", 90)

	// 4. Persist screenshots outside the scratch directory.
	if req.OutputDir != "" {
		if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
		for label, src := range screenshots {
			dst := filepath.Join(req.OutputDir, filepath.Base(src))
			if err := copyFile(src, dst); err != nil {
				log.Printf("⚠️  Error copying screenshot %s: %v", src, err)
				delete(screenshots, label)
				continue
			}
			screenshots[label] = dst
		}
		progress("Saved screenshots", 95)
	}

	return &Summary{
		Entries:     entries,
		Screenshots: screenshots,
		NumChunks:   len(chunks),
	}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
