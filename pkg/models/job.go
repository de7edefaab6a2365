package models

import (
	"strings"
	"time"
)

// Job statuses. Between Created and the terminal states the pipeline writes
// free-form stage labels ("Transcribing chunk 2/5..."), so Status is a plain
// string rather than an enum.
const (
	StatusCreated      = "Created"
	StatusCompleted    = "Completed"
	StatusFailedPrefix = "Failed: "
)

// JobSettings are the operator-chosen knobs recorded with each job.
type JobSettings struct {
	WhisperModel       string `json:"whisper_model"`
	ChunkDuration      int    `json:"chunk_duration"`      // seconds
	ScreenshotInterval int    `json:"screenshot_interval"` // seconds
}

// TranscriptionJob is one ledger record. The pipeline worker is the only
// writer; the web UI re-reads the persisted record to render state.
type TranscriptionJob struct {
	JobID     string      `json:"job_id"`
	Filename  string      `json:"filename"`
	FilePath  string      `json:"file_path"`
	Status    string      `json:"status"`
	Progress  int         `json:"progress"`
	Error     string      `json:"error,omitempty"`
	Settings  JobSettings `json:"settings"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	// Filled in once the job completes.
	CompletedAt    time.Time `json:"completed_at"`
	TxtPath        string    `json:"txt_path,omitempty"`
	PDFPath        string    `json:"pdf_path,omitempty"`
	NumSegments    int       `json:"num_segments,omitempty"`
	NumScreenshots int       `json:"num_screenshots,omitempty"`

	// RabbitMQ bookkeeping, never serialized.
	DeliveryTag uint64 `json:"-"`
	Delivery    any    `json:"-"`
}

// Failed reports whether the job ended in failure.
func (j *TranscriptionJob) Failed() bool {
	return strings.HasPrefix(j.Status, StatusFailedPrefix)
}

// Terminal reports whether the job can no longer change state.
func (j *TranscriptionJob) Terminal() bool {
	return j.Status == StatusCompleted || j.Failed()
}

// Chunk is one fixed-duration slice of the resampled audio track, the unit
// handed to the speech-to-text stage.
type Chunk struct {
	Index    int     `json:"index"`
	FilePath string  `json:"file_path"`
	Start    float64 `json:"start"`    // offset into the full track, seconds
	Duration float64 `json:"duration"` // may be short for the final chunk
	Empty    bool    `json:"empty"`    // no audio remains past Start
}

// Segment is one recognized span of speech, with its start offset relative
// to the chunk it came from.
type Segment struct {
	Start float64 `json:"start"`
	Text  string  `json:"text"`
}

// TranscriptEntry is one line of the final transcript: an H:MM:SS label and
// the (possibly corrected) segment text.
type TranscriptEntry struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}
