package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"warbler/internal/event"
)

// FeedPublisher enqueues feed events for the invalidation worker.
type FeedPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewFeedPublisher(conn *amqp.Connection, queueName string) *FeedPublisher {
	return &FeedPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *FeedPublisher) Publish(ctx context.Context, ev event.FeedEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal feed event failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish feed event failed: %w", err)
	}
	return nil
}
