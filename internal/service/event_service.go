package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mosaicolive/mosaico/internal/cache"
	"github.com/mosaicolive/mosaico/internal/config"
	"github.com/mosaicolive/mosaico/internal/model"
	"github.com/mosaicolive/mosaico/internal/monitoring"
	"github.com/mosaicolive/mosaico/internal/queue"
	"github.com/mosaicolive/mosaico/internal/repository"
)

// DefaultEventName is used when a seat color is set while no event is
// active. Auto-creating the event is a documented convenience so the first
// admin action on a fresh install just works.
const DefaultEventName = "Evento Padrão"

// EventRoster is the admin view of one event's full seat list.
type EventRoster struct {
	Event model.Event        `json:"event"`
	Seats []model.Assignment `json:"seats"`
}

// InvalidationPublisher sends cache-coherence messages to the other
// replicas. *queue.Publisher implements it; nil disables fanout.
type InvalidationPublisher interface {
	Publish(ctx context.Context, ev queue.InvalidationEvent) error
}

// EventService implements the admin mutation path. Every mutation keeps
// the caches coherent: locally through direct invalidation/refresh, and
// across replicas through the invalidation publisher.
type EventService struct {
	events      EventStore
	seats       SeatStore
	assignments AssignmentStore
	cache       *cache.SeatCache
	active      *cache.ActiveEventCache
	publisher   InvalidationPublisher
	cfg         config.CacheConfig
}

// NewEventService wires the admin mutation path.
func NewEventService(events EventStore, seats SeatStore, assignments AssignmentStore, c *cache.SeatCache, active *cache.ActiveEventCache, pub InvalidationPublisher, cfg config.CacheConfig) *EventService {
	return &EventService{events: events, seats: seats, assignments: assignments, cache: c, active: active, publisher: pub, cfg: cfg}
}

// CreateActiveEvent deactivates every other event, creates and activates
// the new one, and refreshes the active-event pointer immediately so reads
// see the switch without waiting out the pointer TTL.
func (s *EventService) CreateActiveEvent(ctx context.Context, name, fallbackColor string) (*model.Event, error) {
	if fallbackColor == "" {
		fallbackColor = model.DefaultFallbackColor
	}
	ev := &model.Event{
		ID:            uuid.NewString(),
		Name:          name,
		FallbackColor: fallbackColor,
	}
	if err := s.events.CreateActiveEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("create active event: %w", err)
	}

	s.active.Refresh(ev)
	s.publish(ctx, queue.InvalidationEvent{Kind: queue.KindEventActivated, EventID: ev.ID})
	log.Printf("event-service: activated event %s (%s)", ev.ID, ev.Name)
	return ev, nil
}

// SetSeatColor upserts the seat and its assignment under the active event,
// auto-creating a default event when none is active, then refreshes the
// cache entry so the new color is visible promptly instead of after TTL.
func (s *EventService) SetSeatColor(ctx context.Context, seatID, color string) (*model.Assignment, error) {
	ev, err := s.active.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNoActiveEvent) {
			return nil, fmt.Errorf("active event: %w", err)
		}
		ev, err = s.CreateActiveEvent(ctx, DefaultEventName, model.DefaultFallbackColor)
		if err != nil {
			return nil, err
		}
	}

	if err := s.seats.UpsertSeat(ctx, model.NewSeat(seatID)); err != nil {
		return nil, fmt.Errorf("upsert seat: %w", err)
	}
	a := &model.Assignment{SeatID: seatID, EventID: ev.ID, Color: color}
	if err := s.assignments.UpsertAssignment(ctx, a); err != nil {
		return nil, fmt.Errorf("upsert assignment: %w", err)
	}

	// Refresh rather than evict: the next read is a hit with the new
	// color, and the seat becomes retroactively valid under gating. The
	// entry lives for the full resolution TTL, same as its client-facing
	// ExpiresAt; an admin-painted color is as authoritative as a warmup.
	res := model.Resolution{
		Event:         ev.Name,
		Seat:          seatID,
		Color:         color,
		FallbackColor: ev.FallbackColor,
		ExpiresAt:     time.Now().Add(s.cfg.ResolutionTTL),
		Brightness:    model.FullBrightness,
		Version:       s.cfg.Version,
	}
	s.cache.SetWithTTL(seatID, ev.ID, res, s.cfg.Version, s.cfg.ResolutionTTL)
	monitoring.SetCacheEntries(s.cache.Size())

	// The fanout carries the full record so every replica refreshes its
	// entry; under the strict policy an evicted entry would stay dark.
	s.publish(ctx, queue.InvalidationEvent{
		Kind:          queue.KindSeatColorChanged,
		SeatID:        seatID,
		EventID:       ev.ID,
		EventName:     ev.Name,
		Color:         color,
		FallbackColor: ev.FallbackColor,
		ExpiresAt:     res.ExpiresAt,
		Version:       s.cfg.Version,
	})
	return a, nil
}

// ResetEvent bulk-deletes all assignments of the active event and clears
// the seat cache with it. Leaving the cache populated would keep serving
// the deleted colors until TTL expiry, so the clear is part of the reset,
// not an optimization.
func (s *EventService) ResetEvent(ctx context.Context) error {
	ev, err := s.active.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveEvent) {
			return nil
		}
		return fmt.Errorf("active event: %w", err)
	}

	n, err := s.assignments.DeleteAssignmentsByEvent(ctx, ev.ID)
	if err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}
	s.cache.Clear()
	monitoring.SetCacheEntries(0)

	s.publish(ctx, queue.InvalidationEvent{Kind: queue.KindEventReset, EventID: ev.ID})
	log.Printf("event-service: reset event %s, removed %d assignments", ev.ID, n)
	return nil
}

// EventMap returns the seatId→color mapping of the active event straight
// from the store. Admin-facing; not on the hot path, no caching.
func (s *EventService) EventMap(ctx context.Context) (map[string]string, error) {
	ev, err := s.active.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveEvent) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("active event: %w", err)
	}
	list, err := s.assignments.ListAssignmentsByEvent(ctx, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	m := make(map[string]string, len(list))
	for _, a := range list {
		m[a.SeatID] = a.Color
	}
	return m, nil
}

// EventRoster returns one event's header and full assignment list, active
// or not. Used by the admin UI to inspect past and upcoming events.
func (s *EventService) EventRoster(ctx context.Context, eventID string) (*EventRoster, error) {
	ev, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	list, err := s.assignments.ListAssignmentsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	if list == nil {
		list = []model.Assignment{}
	}
	return &EventRoster{Event: *ev, Seats: list}, nil
}

func (s *EventService) publish(ctx context.Context, ev queue.InvalidationEvent) {
	if s.publisher == nil {
		return
	}
	// Fanout failures must not fail the mutation; replicas converge via
	// TTL anyway.
	_ = s.publisher.Publish(ctx, ev)
}
