// Package queue carries cache-coherence messages between server replicas.
// Every admin mutation is published to a fanout exchange; each replica
// consumes the stream and applies it to its local caches, so a color
// change on one node shows up on all of them well before any TTL expires.
// Seat changes carry the new color, because under the strict policy an
// evicted entry would never be refetched: consumers refresh the entry
// instead of merely dropping it.
package queue

import "time"

// Exchange is the fanout exchange all invalidation messages go through.
const Exchange = "mosaico.invalidation"

// Kinds of invalidation messages.
const (
	KindSeatColorChanged = "seat_color_changed"
	KindEventReset       = "event_reset"
	KindEventActivated   = "event_activated"
)

// InvalidationEvent is the single message shape on the exchange. Fields
// beyond Kind are filled per kind: seat changes carry the seat identity
// plus the full new color record, resets and activations carry EventID
// only.
type InvalidationEvent struct {
	Kind          string    `json:"kind"`
	SeatID        string    `json:"seat_id,omitempty"`
	EventID       string    `json:"event_id,omitempty"`
	EventName     string    `json:"event_name,omitempty"`
	Color         string    `json:"color,omitempty"`
	FallbackColor string    `json:"fallback_color,omitempty"`
	ExpiresAt     time.Time `json:"expires_at,omitzero"`
	Version       int       `json:"version,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
