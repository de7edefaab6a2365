package media

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
)

// Processor abstracts the external media tool so the pipeline can run
// against a fake in tests. FFmpeg is the only production implementation.
type Processor interface {
	// ExtractAudio demuxes the best audio stream of a video into audioPath.
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error

	// ConvertToWAV resamples an audio file to 16kHz mono 16-bit PCM, the
	// format the speech model expects.
	ConvertToWAV(ctx context.Context, audioPath, wavPath string) error

	// Duration returns the total stream duration in seconds.
	Duration(ctx context.Context, path string) (float64, error)

	// Cut carves [start, start+duration) out of an audio file.
	Cut(ctx context.Context, inputPath, outputPath string, start, duration float64) error

	// CaptureFrame grabs a single frame at the given H:MM:SS timestamp.
	// Failure is non-fatal and reported as false.
	CaptureFrame(ctx context.Context, videoPath, outputPath, timestamp string) bool
}

// FFmpeg shells out to the ffmpeg and ffprobe binaries.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
}

// NewFFmpeg returns a Processor using the ffmpeg/ffprobe binaries on PATH.
func NewFFmpeg() *FFmpeg {
	return &FFmpeg{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
	}
}

// ExtractAudio pulls the audio track out of a video file.
// Equivalent to: ffmpeg -i video -q:a 0 -map a -y audio.mp3
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("video file not found: %s", videoPath)
	}

	log.Printf("Extracting audio from %s...", videoPath)
	return f.run(ctx,
		"-i", videoPath,
		"-q:a", "0",
		"-map", "a",
		"-y",
		audioPath,
	)
}

// ConvertToWAV resamples to the speech-model format.
// Equivalent to: ffmpeg -i in -acodec pcm_s16le -ar 16000 -ac 1 -y out.wav
func (f *FFmpeg) ConvertToWAV(ctx context.Context, audioPath, wavPath string) error {
	log.Printf("Converting audio to WAV format...")
	return f.run(ctx,
		"-i", audioPath,
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		wavPath,
	)
}

// Cut carves one chunk, keeping the 16kHz mono PCM format.
func (f *FFmpeg) Cut(ctx context.Context, inputPath, outputPath string, start, duration float64) error {
	return f.run(ctx,
		"-i", inputPath,
		"-ss", fmt.Sprintf("%.2f", start),
		"-t", fmt.Sprintf("%.2f", duration),
		"-c:a", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		outputPath,
	)
}

// CaptureFrame seeks to the timestamp and grabs one frame as JPEG. The
// output is verified to exist and be non-empty; anything else is a miss,
// not an error.
func (f *FFmpeg) CaptureFrame(ctx context.Context, videoPath, outputPath, timestamp string) bool {
	err := f.run(ctx,
		"-ss", timestamp,
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		outputPath,
	)
	if err != nil {
		log.Printf("⚠️  Failed to extract screenshot at %s: %v", timestamp, err)
		return false
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		log.Printf("⚠️  Screenshot at %s is missing or empty", timestamp)
		return false
	}
	return true
}

// run executes ffmpeg with stderr captured for the error message.
func (f *FFmpeg) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, f.FFmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("ffmpeg failed: %w (stderr: %s)", err, detail)
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}
