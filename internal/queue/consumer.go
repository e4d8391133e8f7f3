package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mosaicolive/mosaico/internal/model"
)

// CacheApplier is the slice of the cache layer the consumer needs: it maps
// each message kind to one local cache update.
type CacheApplier interface {
	Invalidate(seatID, eventID string)
	Clear()
	SetWithTTL(seatID, eventID string, res model.Resolution, version int, ttl time.Duration)
}

// ActiveApplier invalidates the local active-event pointer.
type ActiveApplier interface {
	Invalidate()
}

// StartInvalidationConsumer connects to the broker, binds an exclusive
// queue to the fanout exchange and applies every received invalidation to
// the local caches. It runs a reconnect loop with backoff and never
// returns under normal operation; start it in its own goroutine.
func StartInvalidationConsumer(url string, cache CacheApplier, active ActiveApplier) {
	if url == "" {
		return
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("invalidation-consumer: dial failed: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, cache, active); err != nil {
			log.Printf("invalidation-consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, cache CacheApplier, active ActiveApplier) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(Exchange, "fanout", false, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}

	// Exclusive auto-delete queue: every replica gets its own copy of the
	// stream and leaves nothing behind when it goes away.
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := applyMessage(d.Body, cache, active); err != nil {
			log.Printf("invalidation-consumer: apply failed: %v", err)
		}
	}
	return errors.New("deliveries channel closed")
}

func applyMessage(body []byte, cache CacheApplier, active ActiveApplier) error {
	var ev InvalidationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	switch ev.Kind {
	case KindSeatColorChanged:
		applySeatColorChanged(ev, cache)
	case KindEventReset:
		cache.Clear()
	case KindEventActivated:
		active.Invalidate()
	default:
		return fmt.Errorf("unknown kind %q", ev.Kind)
	}
	return nil
}

// applySeatColorChanged refreshes the local entry with the new color.
// A bare eviction would leave strict replicas serving the waiting record
// until the next warmup, since strict misses never refetch. Messages
// without color data, or whose record already expired in transit, fall
// back to eviction.
func applySeatColorChanged(ev InvalidationEvent, cache CacheApplier) {
	ttl := time.Until(ev.ExpiresAt)
	if ev.Color == "" || ttl <= 0 {
		cache.Invalidate(ev.SeatID, ev.EventID)
		return
	}
	res := model.Resolution{
		Event:         ev.EventName,
		Seat:          ev.SeatID,
		Color:         ev.Color,
		FallbackColor: ev.FallbackColor,
		ExpiresAt:     ev.ExpiresAt,
		Brightness:    model.FullBrightness,
		Version:       ev.Version,
		Source:        model.SourceStore,
	}
	cache.SetWithTTL(ev.SeatID, ev.EventID, res, ev.Version, ttl)
}
