package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Whisper  WhisperConfig  `yaml:"whisper"`
	Ollama   OllamaConfig   `yaml:"ollama"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Storage  StorageConfig  `yaml:"storage"`
	Queue    QueueConfig    `yaml:"queue"`
	Paths    PathsConfig    `yaml:"paths"`
}

// ServerConfig configures the interactive web service.
type ServerConfig struct {
	Port          int   `yaml:"port"`
	MaxUploadSize int64 `yaml:"max_upload_size"` // bytes
	WorkerCount   int   `yaml:"worker_count"`    // concurrent pipeline workers
}

// WhisperConfig selects and configures the speech-to-text backend.
type WhisperConfig struct {
	Backend    string `yaml:"backend"`     // "local" or "openai"
	BinaryPath string `yaml:"binary_path"` // whisper.cpp CLI, local backend
	ModelDir   string `yaml:"model_dir"`   // holds ggml-<size>.bin files
	Model      string `yaml:"model"`       // tiny, base, small, medium, large
	NoGPU      bool   `yaml:"no_gpu"`
	APIKey     string `yaml:"api_key"` // openai backend only
}

// OllamaConfig configures the optional text-correction stage.
type OllamaConfig struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
	Skip  bool   `yaml:"skip"`
}

// PipelineConfig holds the per-job processing defaults.
type PipelineConfig struct {
	ChunkDuration      int `yaml:"chunk_duration"`      // seconds
	ScreenshotInterval int `yaml:"screenshot_interval"` // seconds
}

// StorageConfig selects the job-ledger backend.
type StorageConfig struct {
	Type     string         `yaml:"type"` // file, memory, redis, postgres
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// RedisConfig configures the redis ledger backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLHours int    `yaml:"ttl_hours"`
}

// PostgresConfig configures the postgres ledger backend.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// QueueConfig selects the job-queue backend.
type QueueConfig struct {
	Type       string         `yaml:"type"` // memory or rabbitmq
	BufferSize int            `yaml:"buffer_size"`
	RabbitMQ   RabbitMQConfig `yaml:"rabbitmq"`
}

// RabbitMQConfig configures the RabbitMQ queue backend.
type RabbitMQConfig struct {
	URL       string `yaml:"url"`
	QueueName string `yaml:"queue_name"`
}

// PathsConfig holds the directories the service works in.
type PathsConfig struct {
	JobsDir   string `yaml:"jobs_dir"`   // ledger records
	OutputDir string `yaml:"output_dir"` // per-job results
	TempDir   string `yaml:"temp_dir"`   // per-job scratch space
}

// Load reads and validates a YAML config file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Default returns a config with every field at its default value.
func Default() *Config {
	cfg := &Config{}
	cfg.Validate()
	return cfg
}

// Validate checks the config and backfills defaults for anything unset.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.MaxUploadSize <= 0 {
		c.Server.MaxUploadSize = 2 << 30 // 2 GB
	}
	if c.Server.WorkerCount <= 0 {
		c.Server.WorkerCount = 1
	}

	switch c.Whisper.Backend {
	case "":
		c.Whisper.Backend = "local"
	case "local", "openai":
	default:
		return fmt.Errorf("unknown whisper backend: %s", c.Whisper.Backend)
	}
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.ModelDir == "" {
		c.Whisper.ModelDir = "models"
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "base"
	}
	if c.Whisper.Backend == "openai" && c.Whisper.APIKey == "" {
		return fmt.Errorf("whisper backend \"openai\" requires an API key")
	}

	if c.Ollama.Host == "" {
		c.Ollama.Host = "http://localhost:11434"
	}
	if c.Ollama.Model == "" {
		c.Ollama.Model = "llama3.1:8b"
	}

	if c.Pipeline.ChunkDuration <= 0 {
		c.Pipeline.ChunkDuration = 300
	}
	if c.Pipeline.ScreenshotInterval <= 0 {
		c.Pipeline.ScreenshotInterval = 60
	}

	switch c.Storage.Type {
	case "":
		c.Storage.Type = "file"
	case "file", "memory", "redis", "postgres":
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}
	if c.Storage.Redis.Addr == "" {
		c.Storage.Redis.Addr = "localhost:6379"
	}
	if c.Storage.Redis.TTLHours <= 0 {
		c.Storage.Redis.TTLHours = 7 * 24
	}

	switch c.Queue.Type {
	case "":
		c.Queue.Type = "memory"
	case "memory", "rabbitmq":
	default:
		return fmt.Errorf("unknown queue type: %s", c.Queue.Type)
	}
	if c.Queue.BufferSize <= 0 {
		c.Queue.BufferSize = 100
	}
	if c.Queue.RabbitMQ.QueueName == "" {
		c.Queue.RabbitMQ.QueueName = "videoscribe.jobs"
	}

	if c.Paths.JobsDir == "" {
		c.Paths.JobsDir = "jobs"
	}
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = "output"
	}
	if c.Paths.TempDir == "" {
		c.Paths.TempDir = "temp_processing"
	}

	return nil
}
