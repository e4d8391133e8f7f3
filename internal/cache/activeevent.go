package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mosaicolive/mosaico/internal/model"
)

// ActiveEventSource is the single store query the pointer cache depends on.
type ActiveEventSource interface {
	FindActiveEvent(ctx context.Context) (*model.Event, error)
}

type activeSnapshot struct {
	event     model.Event
	fetchedAt time.Time
}

// ActiveEventCache answers "which event is active" without a store
// round-trip per read. It keeps its own short TTL, independent of the seat
// cache, which buys a bounded window (at most the TTL) in which a
// just-deactivated event can still serve reads. That window is accepted;
// event switches are rare and announced.
type ActiveEventCache struct {
	src ActiveEventSource
	ttl time.Duration

	snap atomic.Pointer[activeSnapshot]
	mu   sync.Mutex // collapses concurrent refreshes into one store query
}

// NewActiveEventCache wraps the store with a TTL-bounded pointer cache.
func NewActiveEventCache(src ActiveEventSource, ttl time.Duration) *ActiveEventCache {
	return &ActiveEventCache{src: src, ttl: ttl}
}

// Get returns the active event, from the pointer when fresh, otherwise from
// the store. Absence is not cached: when no event is active every call asks
// the store, matching admin expectations that activation shows up at once.
func (c *ActiveEventCache) Get(ctx context.Context) (*model.Event, error) {
	if s := c.snap.Load(); s != nil && time.Since(s.fetchedAt) < c.ttl {
		ev := s.event
		return &ev, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if s := c.snap.Load(); s != nil && time.Since(s.fetchedAt) < c.ttl {
		ev := s.event
		return &ev, nil
	}

	ev, err := c.src.FindActiveEvent(ctx)
	if err != nil {
		return nil, err
	}
	c.snap.Store(&activeSnapshot{event: *ev, fetchedAt: time.Now()})
	out := *ev
	return &out, nil
}

// Refresh publishes a just-activated event immediately, skipping the TTL
// window so reads see it without delay.
func (c *ActiveEventCache) Refresh(ev *model.Event) {
	c.snap.Store(&activeSnapshot{event: *ev, fetchedAt: time.Now()})
}

// Invalidate forces the next Get to hit the store.
func (c *ActiveEventCache) Invalidate() {
	c.snap.Store(nil)
}
