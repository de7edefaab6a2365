package transcriber

import (
	"context"

	"github.com/videoscribe/videoscribe/pkg/models"
)

// Result is the output of transcribing one audio chunk.
type Result struct {
	Text     string
	Segments []models.Segment // start offsets relative to the chunk
}

// Transcriber is the common interface for speech-to-text backends.
type Transcriber interface {
	// Transcribe converts one chunk of audio to text with segment-level
	// start offsets.
	Transcribe(ctx context.Context, audioPath string) (*Result, error)

	// Name identifies the backend in logs.
	Name() string
}

// Factory builds a Transcriber for the model size a job selected. The
// backend type is fixed by configuration; only the size varies per job.
type Factory func(modelSize string) (Transcriber, error)
