package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"warbler/internal/event"
)

// feedInvalidator is the slice of the feed cache the worker needs.
type feedInvalidator interface {
	DeleteFeed(ctx context.Context, viewerID uint) error
}

// FeedInvalidateWorker consumes feed events and drops the cached home
// timelines of the author's followers. The author's own cache is
// handled synchronously at publish time; the follower fan-out happens
// here so the request path does one publish instead of N cache deletes.
type FeedInvalidateWorker struct {
	conn      *amqp.Connection
	feedCache feedInvalidator
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewFeedInvalidateWorker(conn *amqp.Connection, feedCache feedInvalidator, queueName string) *FeedInvalidateWorker {
	return &FeedInvalidateWorker{
		conn:      conn,
		feedCache: feedCache,
		queueName: queueName,
	}
}

func (w *FeedInvalidateWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handleDelivery(workerCtx, d)
			}
		}
	}()

	return nil
}

func (w *FeedInvalidateWorker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var ev event.FeedEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		log.Printf("worker decode feed event failed: %v", err)
		_ = d.Nack(false, false)
		return
	}

	if err := w.invalidate(ctx, ev); err != nil {
		// Do not requeue: with the cache down, redelivery spins on the
		// same failure, and the cached feed's TTL bounds the staleness.
		log.Printf("worker invalidate feeds failed: %v", err)
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
}

func (w *FeedInvalidateWorker) invalidate(ctx context.Context, ev event.FeedEvent) error {
	for _, followerID := range ev.FollowerIDs {
		if err := w.feedCache.DeleteFeed(ctx, followerID); err != nil {
			return err
		}
	}
	return w.feedCache.DeleteFeed(ctx, ev.AuthorID)
}

func (w *FeedInvalidateWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
