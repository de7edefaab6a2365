package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/videoscribe/videoscribe/pkg/models"
)

// RabbitMQQueue is a durable queue with manual acknowledgement. A single
// consumer feeds all workers through one delivery channel; QoS prefetch
// bounds how many jobs are in flight at once.
type RabbitMQQueue struct {
	url       string
	queueName string
	prefetch  int
	closed    chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc

	publishConn    *amqp.Connection
	publishChannel *amqp.Channel
	publishMutex   sync.Mutex

	consumeConn    *amqp.Connection
	consumeChannel *amqp.Channel
	deliveries     <-chan amqp.Delivery

	// amqp channels are not safe for concurrent ack/nack
	ackMutex sync.Mutex
}

// NewRabbitMQQueue connects publisher and consumer sides and declares the
// durable queue.
func NewRabbitMQQueue(url, queueName string, prefetch int) (*RabbitMQQueue, error) {
	if prefetch <= 0 {
		prefetch = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	rq := &RabbitMQQueue{
		url:       url,
		queueName: queueName,
		prefetch:  prefetch,
		closed:    make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}

	if err := rq.setupPublisher(); err != nil {
		cancel()
		return nil, fmt.Errorf("set up publisher: %w", err)
	}
	if err := rq.setupConsumer(); err != nil {
		cancel()
		rq.closePublisher()
		return nil, fmt.Errorf("set up consumer: %w", err)
	}

	log.Printf("✓ RabbitMQ queue ready (queue: %s, prefetch: %d)", queueName, prefetch)
	return rq, nil
}

func (rq *RabbitMQQueue) setupPublisher() error {
	conn, err := amqp.Dial(rq.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		rq.queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("declare queue: %w", err)
	}

	rq.publishConn = conn
	rq.publishChannel = ch
	return nil
}

func (rq *RabbitMQQueue) setupConsumer() error {
	conn, err := amqp.Dial(rq.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := ch.Qos(rq.prefetch, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("set QoS: %w", err)
	}

	deliveries, err := ch.Consume(
		rq.queueName,
		"videoscribe-worker",
		false, // manual ack
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("start consuming: %w", err)
	}

	rq.consumeConn = conn
	rq.consumeChannel = ch
	rq.deliveries = deliveries
	return nil
}

// Enqueue publishes the job as a persistent JSON message.
func (rq *RabbitMQQueue) Enqueue(job *models.TranscriptionJob) error {
	rq.publishMutex.Lock()
	defer rq.publishMutex.Unlock()

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	ctx, cancel := context.WithTimeout(rq.ctx, 5*time.Second)
	defer cancel()

	err = rq.publishChannel.PublishWithContext(ctx,
		"",           // default exchange
		rq.queueName, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish job: %w", err)
	}
	return nil
}

// Dequeue blocks on the shared delivery channel.
func (rq *RabbitMQQueue) Dequeue() (*models.TranscriptionJob, error) {
	select {
	case <-rq.closed:
		return nil, fmt.Errorf("queue is closed")
	case <-rq.ctx.Done():
		return nil, fmt.Errorf("queue is closed")
	case delivery, ok := <-rq.deliveries:
		if !ok {
			return nil, fmt.Errorf("delivery channel closed")
		}

		var job models.TranscriptionJob
		if err := json.Unmarshal(delivery.Body, &job); err != nil {
			rq.nack(delivery.DeliveryTag, false)
			return nil, fmt.Errorf("unmarshal job: %w", err)
		}

		job.DeliveryTag = delivery.DeliveryTag
		job.Delivery = &delivery
		return &job, nil
	}
}

// Ack confirms a processed job.
func (rq *RabbitMQQueue) Ack(job *models.TranscriptionJob) error {
	delivery, ok := job.Delivery.(*amqp.Delivery)
	if !ok {
		return nil
	}
	rq.ackMutex.Lock()
	defer rq.ackMutex.Unlock()
	return rq.consumeChannel.Ack(delivery.DeliveryTag, false)
}

// Nack rejects a job.
func (rq *RabbitMQQueue) Nack(job *models.TranscriptionJob, requeue bool) error {
	delivery, ok := job.Delivery.(*amqp.Delivery)
	if !ok {
		return nil
	}
	return rq.nack(delivery.DeliveryTag, requeue)
}

func (rq *RabbitMQQueue) nack(deliveryTag uint64, requeue bool) error {
	rq.ackMutex.Lock()
	defer rq.ackMutex.Unlock()
	return rq.consumeChannel.Nack(deliveryTag, false, requeue)
}

// Close tears both connections down.
func (rq *RabbitMQQueue) Close() error {
	select {
	case <-rq.closed:
		return nil
	default:
	}

	close(rq.closed)
	rq.cancel()

	if rq.consumeChannel != nil {
		rq.consumeChannel.Close()
	}
	if rq.consumeConn != nil {
		rq.consumeConn.Close()
	}
	rq.closePublisher()

	log.Println("✓ RabbitMQ queue closed")
	return nil
}

func (rq *RabbitMQQueue) closePublisher() {
	if rq.publishChannel != nil {
		rq.publishChannel.Close()
	}
	if rq.publishConn != nil {
		rq.publishConn.Close()
	}
}
