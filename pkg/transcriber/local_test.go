package transcriber

import (
	"path/filepath"
	"testing"
)

func TestLocalWhisperModelPath(t *testing.T) {
	lw := NewLocalWhisper("whisper-cli", "models", "small", false)
	want := filepath.Join("models", "ggml-small.bin")
	if got := lw.ModelPath(); got != want {
		t.Errorf("ModelPath = %q, want %q", got, want)
	}
}

func TestLocalWhisperDefaultsModel(t *testing.T) {
	lw := NewLocalWhisper("whisper-cli", "models", "", false)
	want := filepath.Join("models", "ggml-base.bin")
	if got := lw.ModelPath(); got != want {
		t.Errorf("ModelPath = %q, want %q", got, want)
	}
}
