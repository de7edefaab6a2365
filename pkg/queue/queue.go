package queue

import (
	"fmt"

	"github.com/videoscribe/videoscribe/pkg/config"
	"github.com/videoscribe/videoscribe/pkg/models"
)

// Queue hands submitted jobs to the worker pool. The memory implementation
// is the default; RabbitMQ is available when jobs must survive a restart.
type Queue interface {
	// Enqueue submits a job.
	Enqueue(job *models.TranscriptionJob) error

	// Dequeue blocks until a job is available.
	Dequeue() (*models.TranscriptionJob, error)

	// Ack confirms a processed job.
	Ack(job *models.TranscriptionJob) error

	// Nack rejects a job, optionally requeueing it.
	Nack(job *models.TranscriptionJob, requeue bool) error

	// Close shuts the queue down.
	Close() error
}

// New builds the queue backend selected by configuration. workerCount caps
// how many jobs a broker-backed queue hands out at once.
func New(cfg config.QueueConfig, workerCount int) (Queue, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryQueue(cfg.BufferSize), nil
	case "rabbitmq":
		return NewRabbitMQQueue(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName, workerCount)
	default:
		return nil, fmt.Errorf("unknown queue type: %s", cfg.Type)
	}
}
