package transcriber

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/videoscribe/videoscribe/pkg/media"
	"github.com/videoscribe/videoscribe/pkg/models"
)

// Splitter divides the resampled audio track into fixed-duration chunks.
type Splitter struct {
	media         media.Processor
	chunkDuration int // seconds
}

// NewSplitter creates a splitter. Durations outside (0, inf) fall back to
// the 300-second default.
func NewSplitter(m media.Processor, chunkDuration int) *Splitter {
	if chunkDuration <= 0 {
		chunkDuration = 300
	}
	return &Splitter{
		media:         m,
		chunkDuration: chunkDuration,
	}
}

// ChunkDuration returns the configured chunk length in seconds.
func (s *Splitter) ChunkDuration() int {
	return s.chunkDuration
}

// Plan computes the chunk layout for a track of the given total duration:
// floor(total/chunkDuration)+1 chunks at offsets 0, D, 2D, ...  The +1
// guarantees the short remainder is covered; on exact multiples it yields
// one trailing chunk with no audio left, which is marked Empty so the
// transcription stage can skip it without invoking the model.
func (s *Splitter) Plan(total float64) []models.Chunk {
	d := float64(s.chunkDuration)
	count := int(total/d) + 1

	chunks := make([]models.Chunk, 0, count)
	for i := 0; i < count; i++ {
		start := float64(i) * d
		remaining := total - start
		dur := remaining
		if dur > d {
			dur = d
		}
		chunks = append(chunks, models.Chunk{
			Index:    i,
			Start:    start,
			Duration: dur,
			Empty:    remaining <= 0,
		})
	}
	return chunks
}

// Split probes the audio duration, plans the chunk layout, and carves each
// chunk into its own file under chunkDir. Any carve failure aborts the
// whole split; partial results are not resumed.
func (s *Splitter) Split(ctx context.Context, audioPath, chunkDir string) ([]models.Chunk, error) {
	duration, err := s.media.Duration(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("probe audio duration: %w", err)
	}
	log.Printf("Audio duration: %.2f seconds", duration)

	if err := os.MkdirAll(chunkDir, 0755); err != nil {
		return nil, fmt.Errorf("create chunk directory: %w", err)
	}

	chunks := s.Plan(duration)
	log.Printf("Splitting into %d chunks of %d seconds...", len(chunks), s.chunkDuration)

	for i := range chunks {
		chunks[i].FilePath = filepath.Join(chunkDir, fmt.Sprintf("chunk_%03d.wav", i))
		err := s.media.Cut(ctx, audioPath, chunks[i].FilePath, chunks[i].Start, float64(s.chunkDuration))
		if err != nil {
			return nil, fmt.Errorf("split chunk %d: %w", i, err)
		}
	}

	return chunks, nil
}
