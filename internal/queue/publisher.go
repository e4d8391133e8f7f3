package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends invalidation events to the fanout exchange. Admin
// mutations are rare, so each publish dials a fresh connection; errors are
// logged and returned so callers can ignore them without interrupting the
// mutation itself. A nil Publisher is a no-op, which is how single-node
// deployments without a broker run.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher for the given broker URL, or nil when
// the URL is empty (fanout disabled).
func NewPublisher(url string) *Publisher {
	if url == "" {
		return nil
	}
	return &Publisher{url: url}
}

// Publish marshals the event and sends it through the fanout exchange.
func (p *Publisher) Publish(ctx context.Context, ev InvalidationEvent) error {
	if p == nil {
		return nil
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("invalidation-publisher: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("invalidation-publisher: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; non-durable because invalidations are only
	// meaningful to replicas that are currently running.
	if err := ch.ExchangeDeclare(Exchange, "fanout", false, false, false, false, nil); err != nil {
		log.Printf("invalidation-publisher: exchange declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("invalidation-publisher: marshal failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        body,
	}
	if err := ch.PublishWithContext(ctx, Exchange, "", false, false, pub); err != nil {
		log.Printf("invalidation-publisher: publish failed: %v", err)
		return err
	}
	return nil
}
