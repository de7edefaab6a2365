package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultBackfillsEverything(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.WorkerCount != 1 {
		t.Errorf("worker_count = %d, want 1", cfg.Server.WorkerCount)
	}
	if cfg.Whisper.Backend != "local" {
		t.Errorf("whisper backend = %q", cfg.Whisper.Backend)
	}
	if cfg.Whisper.Model != "base" {
		t.Errorf("whisper model = %q", cfg.Whisper.Model)
	}
	if cfg.Ollama.Host != "http://localhost:11434" {
		t.Errorf("ollama host = %q", cfg.Ollama.Host)
	}
	if cfg.Pipeline.ChunkDuration != 300 {
		t.Errorf("chunk_duration = %d, want 300", cfg.Pipeline.ChunkDuration)
	}
	if cfg.Pipeline.ScreenshotInterval != 60 {
		t.Errorf("screenshot_interval = %d, want 60", cfg.Pipeline.ScreenshotInterval)
	}
	if cfg.Storage.Type != "file" {
		t.Errorf("storage type = %q", cfg.Storage.Type)
	}
	if cfg.Queue.Type != "memory" {
		t.Errorf("queue type = %q", cfg.Queue.Type)
	}
	if cfg.Queue.RabbitMQ.QueueName != "videoscribe.jobs" {
		t.Errorf("queue name = %q", cfg.Queue.RabbitMQ.QueueName)
	}
	if cfg.Paths.JobsDir != "jobs" || cfg.Paths.OutputDir != "output" || cfg.Paths.TempDir != "temp_processing" {
		t.Errorf("paths = %+v", cfg.Paths)
	}
}

func TestLoadPartialFileBackfills(t *testing.T) {
	content := `
server:
  port: 9090
whisper:
  model: small
storage:
  type: redis
  redis:
    addr: redis.internal:6379
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Whisper.Model != "small" {
		t.Errorf("model = %q, want small", cfg.Whisper.Model)
	}
	if cfg.Storage.Type != "redis" || cfg.Storage.Redis.Addr != "redis.internal:6379" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	// Unset fields still get defaults.
	if cfg.Pipeline.ChunkDuration != 300 {
		t.Errorf("chunk_duration = %d, want 300", cfg.Pipeline.ChunkDuration)
	}
	if cfg.Storage.Redis.TTLHours != 168 {
		t.Errorf("ttl_hours = %d, want 168", cfg.Storage.Redis.TTLHours)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejectsUnknownTypes(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"whisper backend", func(c *Config) { c.Whisper.Backend = "azure" }},
		{"storage type", func(c *Config) { c.Storage.Type = "mongo" }},
		{"queue type", func(c *Config) { c.Queue.Type = "kafka" }},
	}

	for _, c := range cases {
		cfg := &Config{}
		c.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestValidateRequiresAPIKeyForOpenAI(t *testing.T) {
	cfg := &Config{}
	cfg.Whisper.Backend = "openai"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing API key")
	}

	cfg.Whisper.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
