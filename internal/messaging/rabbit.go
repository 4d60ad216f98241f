// internal/messaging/rabbit.go
package messaging

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"

	"group-bridge/internal/metrics"
	"group-bridge/internal/model"
)

const (
	// QueueName carries group observations from the platform client.
	QueueName = "group-events"
	dlqName   = "group-events-dlq"
)

type RabbitClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	URL     string
}

func NewRabbitClient(url string) (*RabbitClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	return &RabbitClient{
		conn:    conn,
		channel: ch,
		URL:     url,
	}, nil
}

func (r *RabbitClient) GetChannel() *amqp.Channel {
	return r.channel
}

func (r *RabbitClient) GetConnection() *amqp.Connection {
	return r.conn
}

// DeclareQueues creates the durable group-events queue and its DLQ.
// Terminal failures (bad payloads, unresolvable owners) are dead-
// lettered there for operator inspection.
func (r *RabbitClient) DeclareQueues() error {
	_, err := r.channel.QueueDeclare(
		dlqName,
		true, false, false, false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlqName,
	}
	_, err = r.channel.QueueDeclare(
		QueueName,
		true, false, false, false,
		args,
	)
	if err != nil {
		return fmt.Errorf("declare main queue: %w", err)
	}

	log.Printf("[Rabbit] Queues declared: %s, %s", QueueName, dlqName)
	return nil
}

// PublishEvent sends a group observation to the bridge queue.
func (r *RabbitClient) PublishEvent(ev model.GroupEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	err = r.channel.Publish(
		"",        // default exchange
		QueueName, // routing key (queue name)
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to queue %s: %w", QueueName, err)
	}
	return nil
}

// Close cleans up connection and channel
func (r *RabbitClient) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	if err := r.conn.Close(); err != nil {
		return err
	}
	return nil
}

func (r *RabbitClient) UpdateQueueDepth() {
	q, err := r.channel.QueueInspect(QueueName)
	if err != nil {
		log.Printf("[Rabbit] Failed to inspect queue %s: %v", QueueName, err)
		return
	}

	metrics.QueueDepth.Set(float64(q.Messages))
}
