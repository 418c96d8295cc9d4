package queue

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const taskQueueName = "task.events"

// Publisher delivers task events to interested consumers. Handlers hold a
// nil Publisher when no broker is configured and skip publishing entirely.
type Publisher interface {
	PublishTaskEvent(ctx context.Context, ev TaskEvent) error
}

// AMQPPublisher publishes task events to RabbitMQ. Errors are logged and
// returned so callers can ignore failures without interrupting the request
// flow; a dead broker must never fail a task mutation.
type AMQPPublisher struct {
	URL string
}

// NewAMQPPublisherFromEnv builds a publisher from RABBITMQ_URL or AMQP_URL.
// It returns nil when neither is set, which disables event publishing.
func NewAMQPPublisherFromEnv() *AMQPPublisher {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	if url == "" {
		return nil
	}
	return &AMQPPublisher{URL: url}
}

// PublishTaskEvent delivers one event to the durable task.events queue.
// The connection is established per publish; at this request volume the
// handshake cost is irrelevant and it keeps the publisher stateless.
func (p *AMQPPublisher) PublishTaskEvent(ctx context.Context, ev TaskEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Declare is idempotent. Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(taskQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", taskQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
