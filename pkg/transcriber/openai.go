package transcriber

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/videoscribe/videoscribe/pkg/models"
)

// APIWhisper transcribes through the OpenAI Whisper API. The hosted model
// has no size selector; every size maps to whisper-1.
type APIWhisper struct {
	client *openai.Client
}

// NewAPIWhisper creates an API-backed transcriber.
func NewAPIWhisper(apiKey string) *APIWhisper {
	return &APIWhisper{client: openai.NewClient(apiKey)}
}

// Name identifies the backend in logs.
func (aw *APIWhisper) Name() string { return "openai" }

// Transcribe sends one chunk to the API, requesting verbose JSON so the
// response carries segment-level timestamps.
func (aw *APIWhisper) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	resp, err := aw.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("whisper API request: %w", err)
	}

	result := &Result{Text: resp.Text}
	for _, seg := range resp.Segments {
		result.Segments = append(result.Segments, models.Segment{
			Start: seg.Start,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return result, nil
}
