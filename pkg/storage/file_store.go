package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/videoscribe/videoscribe/pkg/models"
)

// FileStore persists one JSON record per job under the jobs directory.
// Writes are whole-file replacements through a temp-file-then-rename, so a
// concurrent reader never observes a torn record. This is the default
// ledger backend.
type FileStore struct {
	jobsDir   string
	outputDir string
	tempDir   string
	mu        sync.Mutex // serializes read-modify-write updates
}

// NewFileStore creates the ledger directory if needed.
func NewFileStore(jobsDir, outputDir, tempDir string) (*FileStore, error) {
	if err := os.MkdirAll(jobsDir, 0755); err != nil {
		return nil, fmt.Errorf("create jobs directory: %w", err)
	}
	return &FileStore{
		jobsDir:   jobsDir,
		outputDir: outputDir,
		tempDir:   tempDir,
	}, nil
}

func (fs *FileStore) recordPath(jobID string) string {
	return filepath.Join(fs.jobsDir, jobID+".json")
}

// Save writes the record atomically: marshal, write a temp file in the same
// directory, rename over the destination.
func (fs *FileStore) Save(job *models.TranscriptionJob) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", job.JobID, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(fs.jobsDir, ".job-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, fs.recordPath(job.JobID)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename job record: %w", err)
	}
	return nil
}

// Get reads one record back from disk.
func (fs *FileStore) Get(jobID string) (*models.TranscriptionJob, error) {
	data, err := os.ReadFile(fs.recordPath(jobID))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("read job record: %w", err)
	}

	var job models.TranscriptionJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse job record %s: %w", jobID, err)
	}
	return &job, nil
}

// Update re-reads the record, applies the mutation, stamps the update time
// and writes the whole record back.
func (fs *FileStore) Update(jobID string, updateFn func(*models.TranscriptionJob)) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	job, err := fs.Get(jobID)
	if err != nil {
		return err
	}
	updateFn(job)
	job.UpdatedAt = time.Now()
	return fs.Save(job)
}

// List returns every parseable record, newest first. Records that fail to
// parse are skipped rather than failing the listing.
func (fs *FileStore) List() ([]*models.TranscriptionJob, error) {
	entries, err := os.ReadDir(fs.jobsDir)
	if os.IsNotExist(err) {
		return []*models.TranscriptionJob{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read jobs directory: %w", err)
	}

	jobs := make([]*models.TranscriptionJob, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		job, err := fs.Get(strings.TrimSuffix(name, ".json"))
		if err != nil {
			log.Printf("⚠️  Skipping unreadable job record %s: %v", name, err)
			continue
		}
		jobs = append(jobs, job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs, nil
}

// Delete removes the ledger record plus the job's output and scratch
// directories. Not safe to run against a job whose worker is still active.
func (fs *FileStore) Delete(jobID string) error {
	if err := os.Remove(fs.recordPath(jobID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete job record: %w", err)
	}
	if fs.outputDir != "" {
		os.RemoveAll(filepath.Join(fs.outputDir, jobID))
	}
	if fs.tempDir != "" {
		os.RemoveAll(filepath.Join(fs.tempDir, jobID))
	}
	return nil
}

// Close is a no-op for the file backend.
func (fs *FileStore) Close() error { return nil }
