// internal/consumer/consumer.go
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/streadway/amqp"

	"group-bridge/internal/manager"
	"group-bridge/internal/messaging"
	"group-bridge/internal/metrics"
	"group-bridge/internal/model"
)

// Consumer drains the group-events queue through a bounded pool of
// workers, each handing events to the GroupManager. Ack policy:
// success acks; malformed payloads and terminal resolution failures
// dead-letter; store failures requeue for a later retry.
type Consumer struct {
	channel *amqp.Channel
	manager *manager.GroupManager

	workers int
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

const consumerTag = "group-bridge"

// StartConsumer opens a dedicated channel and spawns the worker pool.
func StartConsumer(conn *amqp.Connection, mgr *manager.GroupManager, workers int) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if workers <= 0 {
		workers = 1
	}
	if err := ch.Qos(workers, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		messaging.QueueName,
		consumerTag,
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	c := &Consumer{
		channel: ch,
		manager: mgr,
		workers: workers,
		stopCh:  make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		c.wg.Add(1)
		go c.consumeLoop(msgs)
	}

	log.Printf("Started %d group-event workers", workers)
	return c, nil
}

func (c *Consumer) consumeLoop(msgs <-chan amqp.Delivery) {
	defer c.wg.Done()

	for {
		select {
		case <-c.stopCh:
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			c.handle(msg)
		}
	}
}

func (c *Consumer) handle(msg amqp.Delivery) {
	var ev model.GroupEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		log.Printf("Rejecting malformed group event: %v", err)
		metrics.EventsProcessed.WithLabelValues("malformed").Inc()
		_ = msg.Nack(false, false) // DLQ
		return
	}
	if ev.ExternalGroupID == "" {
		log.Printf("Rejecting group event %s: empty external_group_id", ev.EventID)
		metrics.EventsProcessed.WithLabelValues("malformed").Inc()
		_ = msg.Nack(false, false)
		return
	}

	group, err := c.manager.ResolveOrRegister(context.Background(), ev.ExternalGroupID, ev.GroupName, ev.AgencyID)
	if err != nil {
		if errors.Is(err, manager.ErrNoAgencyAvailable) || errors.Is(err, manager.ErrCreationInconsistency) {
			// Operator action needed; retrying won't help.
			log.Printf("Dead-lettering event %s: %v", ev.EventID, err)
			metrics.EventsProcessed.WithLabelValues("terminal").Inc()
			_ = msg.Nack(false, false)
			return
		}
		log.Printf("Requeueing event %s after store failure: %v", ev.EventID, err)
		metrics.EventsProcessed.WithLabelValues("requeued").Inc()
		_ = msg.Nack(false, true)
		return
	}

	metrics.EventsProcessed.WithLabelValues("ok").Inc()
	_ = msg.Ack(false)
	log.Printf("Event %s: group %s -> agency %d", ev.EventID, group.ExternalID, group.AgencyID)
}

// Stop signals the workers, cancels the subscription and waits for
// in-flight events to finish.
func (c *Consumer) Stop() {
	close(c.stopCh)
	_ = c.channel.Cancel(consumerTag, false)
	c.wg.Wait()
	_ = c.channel.Close()
	log.Println("Stopped group-event consumer")
}
