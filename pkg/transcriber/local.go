package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/videoscribe/videoscribe/pkg/models"
)

// LocalWhisper transcribes with the whisper.cpp CLI. The model size
// selector resolves to a ggml weights file under the model directory.
type LocalWhisper struct {
	binaryPath string
	modelDir   string
	model      string // tiny, base, small, medium, large
	noGPU      bool
}

// NewLocalWhisper creates a whisper.cpp backend for one model size.
func NewLocalWhisper(binaryPath, modelDir, model string, noGPU bool) *LocalWhisper {
	if model == "" {
		model = "base"
	}
	return &LocalWhisper{
		binaryPath: binaryPath,
		modelDir:   modelDir,
		model:      model,
		noGPU:      noGPU,
	}
}

// Name identifies the backend in logs.
func (lw *LocalWhisper) Name() string { return "whisper.cpp" }

// ModelPath resolves the size selector to the weights file.
func (lw *LocalWhisper) ModelPath() string {
	return filepath.Join(lw.modelDir, "ggml-"+lw.model+".bin")
}

// whisperOutput is the shape of whisper.cpp's -oj JSON file.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"` // milliseconds
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs the whisper.cpp CLI over one chunk and parses its JSON
// output into segment-level start offsets.
func (lw *LocalWhisper) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	outPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	jsonPath := outPrefix + ".json"

	log.Printf("Transcribing %s with Whisper (%s model)...", filepath.Base(audioPath), lw.model)

	args := []string{
		"-m", lw.ModelPath(),
		"-f", audioPath,
		"-oj",
		"-of", outPrefix,
	}
	if lw.noGPU {
		args = append(args, "-ng")
	}

	cmd := exec.CommandContext(ctx, lw.binaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("whisper failed: %w (stderr: %s)", err, detail)
		}
		return nil, fmt.Errorf("whisper failed: %w", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}
	defer os.Remove(jsonPath)

	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	result := &Result{}
	var full strings.Builder
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		result.Segments = append(result.Segments, models.Segment{
			Start: float64(seg.Offsets.From) / 1000.0,
			Text:  text,
		})
		if text != "" {
			if full.Len() > 0 {
				full.WriteByte(' ')
			}
			full.WriteString(text)
		}
	}
	result.Text = full.String()

	return result, nil
}
