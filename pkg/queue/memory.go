package queue

import (
	"fmt"

	"github.com/videoscribe/videoscribe/pkg/models"
)

// MemoryQueue is a buffered-channel queue. Jobs are lost on restart, which
// matches the ledger's role as the durable source of truth.
type MemoryQueue struct {
	queue chan *models.TranscriptionJob
}

// NewMemoryQueue creates a queue with a fixed buffer.
func NewMemoryQueue(bufferSize int) *MemoryQueue {
	return &MemoryQueue{
		queue: make(chan *models.TranscriptionJob, bufferSize),
	}
}

// Enqueue submits a job; a full buffer is an error rather than a block so
// the upload handler can report back immediately.
func (mq *MemoryQueue) Enqueue(job *models.TranscriptionJob) error {
	select {
	case mq.queue <- job:
		return nil
	default:
		return fmt.Errorf("queue is full")
	}
}

// Dequeue blocks until a job arrives or the queue closes.
func (mq *MemoryQueue) Dequeue() (*models.TranscriptionJob, error) {
	job, ok := <-mq.queue
	if !ok {
		return nil, fmt.Errorf("queue is closed")
	}
	return job, nil
}

// Ack is a no-op for the channel queue.
func (mq *MemoryQueue) Ack(job *models.TranscriptionJob) error { return nil }

// Nack is a no-op for the channel queue; failed jobs are never retried.
func (mq *MemoryQueue) Nack(job *models.TranscriptionJob, requeue bool) error { return nil }

// Close shuts the queue down.
func (mq *MemoryQueue) Close() error {
	close(mq.queue)
	return nil
}
