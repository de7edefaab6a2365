package storage

import (
	"fmt"

	"github.com/videoscribe/videoscribe/pkg/config"
	"github.com/videoscribe/videoscribe/pkg/models"
)

// Store is the job ledger. The pipeline worker is the only writer; the web
// front end observes by re-reading records through the same interface.
type Store interface {
	// Save persists a job record, replacing any previous version.
	Save(job *models.TranscriptionJob) error

	// Get returns one job record.
	Get(jobID string) (*models.TranscriptionJob, error)

	// Update applies a mutation to the current record and persists it.
	Update(jobID string, updateFn func(*models.TranscriptionJob)) error

	// List returns all job records, newest first.
	List() ([]*models.TranscriptionJob, error)

	// Delete removes a job record and its job-owned directories.
	Delete(jobID string) error

	// Close releases any backend connection.
	Close() error
}

// New builds the ledger backend selected by configuration.
func New(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Type {
	case "file":
		return NewFileStore(cfg.Paths.JobsDir, cfg.Paths.OutputDir, cfg.Paths.TempDir)
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(cfg.Storage.Redis)
	case "postgres":
		return NewPostgresStore(cfg.Storage.Postgres.DSN)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Storage.Type)
	}
}
