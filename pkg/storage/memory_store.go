package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/videoscribe/videoscribe/pkg/models"
)

// MemoryStore keeps job records in an RWMutex-guarded map. Useful for tests
// and throwaway runs; records do not survive a restart.
type MemoryStore struct {
	jobs map[string]*models.TranscriptionJob
	mu   sync.RWMutex
}

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[string]*models.TranscriptionJob),
	}
}

// Save persists a job record.
func (ms *MemoryStore) Save(job *models.TranscriptionJob) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	copied := *job
	ms.jobs[job.JobID] = &copied
	return nil
}

// Get returns a copy of one job record.
func (ms *MemoryStore) Get(jobID string) (*models.TranscriptionJob, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	job, exists := ms.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	copied := *job
	return &copied, nil
}

// Update applies a mutation under the write lock.
func (ms *MemoryStore) Update(jobID string, updateFn func(*models.TranscriptionJob)) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, exists := ms.jobs[jobID]
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}
	updateFn(job)
	job.UpdatedAt = time.Now()
	return nil
}

// List returns all records, newest first.
func (ms *MemoryStore) List() ([]*models.TranscriptionJob, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	jobs := make([]*models.TranscriptionJob, 0, len(ms.jobs))
	for _, job := range ms.jobs {
		copied := *job
		jobs = append(jobs, &copied)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs, nil
}

// Delete removes a record.
func (ms *MemoryStore) Delete(jobID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.jobs[jobID]; !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}
	delete(ms.jobs, jobID)
	return nil
}

// Close is a no-op for the memory backend.
func (ms *MemoryStore) Close() error { return nil }
